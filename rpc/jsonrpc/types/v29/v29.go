// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package v29 models the version-sensitive RPC results of Bitcoin Core 29.
// Version 29 servers additionally report the proof-of-work target of headers
// and blocks, and the bits and target of the chain tip in getblockchaininfo.
package v29

import (
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types/v28"
	"github.com/simplerpc/simplerpc/rpc/model"
)

// ProtocolVersion is the major server version modelled by this package.
const ProtocolVersion = 29

// Shapes implements types.Shapes for version 29 servers.
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
	v28.GetBlockHeaderVerbose

	Target string `json:"target"`
}

// ToModel converts the raw header into a model.BlockHeaderVerbose.
func (r *GetBlockHeaderVerbose) ToModel() (*model.BlockHeaderVerbose, error) {
	const op errors.Op = "v29.GetBlockHeaderVerbose"
	h, err := r.HeaderModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return h, nil
}

// HeaderModel converts the header fields including the reported target.
func (r *GetBlockHeaderVerbose) HeaderModel() (*model.BlockHeaderVerbose, error) {
	h, err := r.GetBlockHeaderVerbose.HeaderModel()
	if err != nil {
		return nil, err
	}
	if h.Target, err = model.Uint256("target", r.Target); err != nil {
		return nil, err
	}
	return h, nil
}

// GetBlockVerboseOne models the result of getblock with verbosity 1.
type GetBlockVerboseOne struct {
	v28.GetBlockVerboseOne

	Target string `json:"target"`
}

// ToModel converts the raw block into a model.BlockVerboseOne.
func (r *GetBlockVerboseOne) ToModel() (*model.BlockVerboseOne, error) {
	const op errors.Op = "v29.GetBlockVerboseOne"
	header := GetBlockHeaderVerbose{
		GetBlockHeaderVerbose: r.GetBlockVerboseOne.GetBlockHeaderVerbose,
		Target:                r.Target,
	}
	b, err := r.BlockModel(header.HeaderModel)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return b, nil
}

// GetBlockchainInfo models the result of getblockchaininfo.
type GetBlockchainInfo struct {
	v28.GetBlockchainInfo

	Bits   string `json:"bits"`
	Target string `json:"target"`
}

// ToModel converts the raw chain state into a model.BlockchainInfo.
func (r *GetBlockchainInfo) ToModel() (*model.BlockchainInfo, error) {
	const op errors.Op = "v29.GetBlockchainInfo"
	m, err := r.Model()
	if err != nil {
		return nil, errors.E(op, err)
	}
	if m.Bits, err = model.Bits("bits", r.Bits); err != nil {
		return nil, errors.E(op, err)
	}
	if m.Target, err = model.Uint256("target", r.Target); err != nil {
		return nil, errors.E(op, err)
	}
	return m, nil
}
