// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package v28 models the version-sensitive RPC results of Bitcoin Core 28.
package v28

import (
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types"
	"github.com/simplerpc/simplerpc/rpc/model"
)

// ProtocolVersion is the major server version modelled by this package.
const ProtocolVersion = 28

// Shapes implements types.Shapes for version 28 servers.
type Shapes struct{}

var _ types.Shapes = Shapes{}

func (Shapes) ProtocolVersion() int { return ProtocolVersion }

func (Shapes) BlockHeaderVerbose() types.BlockHeaderVerboseShape {
	return new(GetBlockHeaderVerbose)
}

func (Shapes) BlockVerboseOne() types.BlockVerboseOneShape {
	return new(GetBlockVerboseOne)
}

func (Shapes) BlockchainInfo() types.BlockchainInfoShape {
	return new(GetBlockchainInfo)
}

// GetBlockHeaderVerbose models the result of getblockheader with verbose set.
type GetBlockHeaderVerbose struct {
	Hash              string  `json:"hash"`
	Confirmations     int64   `json:"confirmations"`
	Height            int64   `json:"height"`
	Version           int32   `json:"version"`
	VersionHex        string  `json:"versionHex"`
	MerkleRoot        string  `json:"merkleroot"`
	Time              int64   `json:"time"`
	MedianTime        int64   `json:"mediantime"`
	Nonce             int64   `json:"nonce"`
	Bits              string  `json:"bits"`
	Difficulty        float64 `json:"difficulty"`
	ChainWork         string  `json:"chainwork"`
	NTx               int64   `json:"nTx"`
	PreviousBlockHash string  `json:"previousblockhash,omitempty"`
	NextBlockHash     string  `json:"nextblockhash,omitempty"`
}

// ToModel converts the raw header into a model.BlockHeaderVerbose.  The
// target is derived from the compact bits.
func (r *GetBlockHeaderVerbose) ToModel() (*model.BlockHeaderVerbose, error) {
	const op errors.Op = "v28.GetBlockHeaderVerbose"
	h, err := r.HeaderModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	h.Target = target(h.Bits)
	return h, nil
}

// HeaderModel converts every header field shared with later versions.
// Errors carry their conversion kind but no op.
func (r *GetBlockHeaderVerbose) HeaderModel() (*model.BlockHeaderVerbose, error) {
	var (
		h   model.BlockHeaderVerbose
		err error
	)
	h.Confirmations = r.Confirmations
	h.Version = r.Version
	h.Difficulty = r.Difficulty
	if h.Hash, err = model.Hash("hash", r.Hash); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	if h.Height, err = model.Uint32("height", r.Height); err != nil {
		return nil, err
	}
	if h.MerkleRoot, err = model.Hash("merkleroot", r.MerkleRoot); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	if h.Time, err = model.Unix("time", r.Time); err != nil {
		return nil, err
	}
	if h.MedianTime, err = model.Unix("mediantime", r.MedianTime); err != nil {
		return nil, err
	}
	if h.Nonce, err = model.Uint32("nonce", r.Nonce); err != nil {
		return nil, err
	}
	if h.Bits, err = model.Bits("bits", r.Bits); err != nil {
		return nil, err
	}
	if h.ChainWork, err = model.Uint256("chainwork", r.ChainWork); err != nil {
		return nil, err
	}
	if h.NTx, err = model.Uint32("nTx", r.NTx); err != nil {
		return nil, err
	}
	if h.PreviousBlockHash, err = model.OptionalHash("previousblockhash", r.PreviousBlockHash); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	if h.NextBlockHash, err = model.OptionalHash("nextblockhash", r.NextBlockHash); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	return &h, nil
}

// GetBlockVerboseOne models the result of getblock with verbosity 1.
type GetBlockVerboseOne struct {
	GetBlockHeaderVerbose

	StrippedSize int64    `json:"strippedsize"`
	Size         int64    `json:"size"`
	Weight       int64    `json:"weight"`
	Tx           []string `json:"tx"`
}

// ToModel converts the raw block into a model.BlockVerboseOne.
func (r *GetBlockVerboseOne) ToModel() (*model.BlockVerboseOne, error) {
	const op errors.Op = "v28.GetBlockVerboseOne"
	b, err := r.BlockModel(r.GetBlockHeaderVerbose.HeaderModel)
	if err != nil {
		return nil, errors.E(op, err)
	}
	b.Target = target(b.Bits)
	return b, nil
}

// BlockModel converts the block fields of r, using header to convert the
// embedded header fields.  Later versions supply their own header conversion.
func (r *GetBlockVerboseOne) BlockModel(header func() (*model.BlockHeaderVerbose, error)) (*model.BlockVerboseOne, error) {
	h, err := header()
	if err != nil {
		return nil, err
	}
	b := &model.BlockVerboseOne{BlockHeaderVerbose: *h}
	if b.StrippedSize, err = model.Uint32("strippedsize", r.StrippedSize); err != nil {
		return nil, err
	}
	if b.Size, err = model.Uint32("size", r.Size); err != nil {
		return nil, err
	}
	if b.Weight, err = model.Uint32("weight", r.Weight); err != nil {
		return nil, err
	}
	if b.Tx, err = model.Hashes("tx", r.Tx); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	return b, nil
}

// GetBlockchainInfo models the result of getblockchaininfo.
type GetBlockchainInfo struct {
	Chain                string         `json:"chain"`
	Blocks               int64          `json:"blocks"`
	Headers              int64          `json:"headers"`
	BestBlockHash        string         `json:"bestblockhash"`
	Difficulty           float64        `json:"difficulty"`
	Time                 int64          `json:"time"`
	MedianTime           int64          `json:"mediantime"`
	VerificationProgress float64        `json:"verificationprogress"`
	InitialBlockDownload bool           `json:"initialblockdownload"`
	ChainWork            string         `json:"chainwork"`
	SizeOnDisk           uint64         `json:"size_on_disk"`
	Pruned               bool           `json:"pruned"`
	PruneHeight          *int64         `json:"pruneheight,omitempty"`
	Warnings             types.Warnings `json:"warnings"`
}

// ToModel converts the raw chain state into a model.BlockchainInfo.
func (r *GetBlockchainInfo) ToModel() (*model.BlockchainInfo, error) {
	const op errors.Op = "v28.GetBlockchainInfo"
	m, err := r.Model()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return m, nil
}

// Model converts every field shared with later versions.  Errors carry their
// conversion kind but no op.
func (r *GetBlockchainInfo) Model() (*model.BlockchainInfo, error) {
	var (
		m   model.BlockchainInfo
		err error
	)
	m.Chain = r.Chain
	m.Params = model.ChainParams(r.Chain)
	m.Difficulty = r.Difficulty
	m.VerificationProgress = r.VerificationProgress
	m.InitialBlockDownload = r.InitialBlockDownload
	m.SizeOnDisk = r.SizeOnDisk
	m.Pruned = r.Pruned
	m.Warnings = r.Warnings
	if m.Blocks, err = model.Uint32("blocks", r.Blocks); err != nil {
		return nil, err
	}
	if m.Headers, err = model.Uint32("headers", r.Headers); err != nil {
		return nil, err
	}
	if m.BestBlockHash, err = model.Hash("bestblockhash", r.BestBlockHash); err != nil {
		return nil, errors.E(errors.Conversion, err)
	}
	if m.Time, err = model.Unix("time", r.Time); err != nil {
		return nil, err
	}
	if m.MedianTime, err = model.Unix("mediantime", r.MedianTime); err != nil {
		return nil, err
	}
	if m.ChainWork, err = model.Uint256("chainwork", r.ChainWork); err != nil {
		return nil, err
	}
	if m.PruneHeight, err = model.OptionalUint32("pruneheight", r.PruneHeight); err != nil {
		return nil, err
	}
	return &m, nil
}

// target returns nil for a zero compact target.
func target(bits uint32) *big.Int {
	if bits == 0 {
		return nil
	}
	return blockchain.CompactToBig(bits)
}
