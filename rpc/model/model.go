// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package model defines the version-agnostic values produced by the RPC
// client.  Raw JSON-RPC result shapes, which differ between server versions,
// are converted into these types by the rpc/jsonrpc/types packages.
package model

import (
	"math/big"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/gcs"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderVerbose is the decoded result of a verbose getblockheader call.
type BlockHeaderVerbose struct {
	Hash          chainhash.Hash
	Confirmations int64
	Height        uint32
	Version       int32
	MerkleRoot    chainhash.Hash
	Time          time.Time
	MedianTime    time.Time
	Nonce         uint32
	Bits          uint32

	// Target is reported directly by newer servers and derived from Bits
	// otherwise.
	Target *big.Int

	Difficulty        float64
	ChainWork         *big.Int
	NTx               uint32
	PreviousBlockHash *chainhash.Hash // nil for the genesis block
	NextBlockHash     *chainhash.Hash // nil for the chain tip
}

// BlockVerboseOne is the decoded result of getblock with verbosity 1.
type BlockVerboseOne struct {
	BlockHeaderVerbose

	StrippedSize uint32
	Size         uint32
	Weight       uint32
	Tx           []chainhash.Hash
}

// BlockchainInfo is the decoded result of getblockchaininfo.
type BlockchainInfo struct {
	Chain string

	// Params are the btcd chain parameters matching Chain, or nil when the
	// server reports a chain unknown to btcd.
	Params *chaincfg.Params

	Blocks               uint32
	Headers              uint32
	BestBlockHash        chainhash.Hash
	Bits                 uint32   // zero when not reported
	Target               *big.Int // nil when not reported
	Difficulty           float64
	Time                 time.Time
	MedianTime           time.Time
	VerificationProgress float64
	InitialBlockDownload bool
	ChainWork            *big.Int
	SizeOnDisk           uint64
	Pruned               bool
	PruneHeight          *uint32
	Warnings             []string
}

// BlockFilter is a BIP0158 basic block filter and its filter header.
type BlockFilter struct {
	Filter *gcs.Filter
	Header chainhash.Hash
}

// MempoolFees are the fee fields of a verbose mempool entry.
type MempoolFees struct {
	Base       btcutil.Amount
	Modified   btcutil.Amount
	Ancestor   btcutil.Amount
	Descendant btcutil.Amount
}

// MempoolEntry describes a single transaction of a verbose getrawmempool
// result.
type MempoolEntry struct {
	VSize             int64
	Weight            int64
	Time              time.Time
	Height            uint32
	DescendantCount   int64
	DescendantSize    int64
	AncestorCount     int64
	AncestorSize      int64
	WTxID             chainhash.Hash
	Fees              MempoolFees
	Depends           []chainhash.Hash
	SpentBy           []chainhash.Hash
	BIP125Replaceable bool
	Unbroadcast       bool
}

// DescriptorInfo is the result of getdescriptorinfo.  It is decoded directly
// from the JSON result.
type DescriptorInfo struct {
	Descriptor     string `json:"descriptor"`
	Checksum       string `json:"checksum"`
	IsRange        bool   `json:"isrange"`
	IsSolvable     bool   `json:"issolvable"`
	HasPrivateKeys bool   `json:"hasprivatekeys"`
}

// NetworkInfo is the subset of getnetworkinfo used to identify the server.
type NetworkInfo struct {
	// Version is the server version encoded as
	// 10000*major + 100*minor + patch.
	Version         int
	Subversion      string
	ProtocolVersion int32
	Connections     uint32
	RelayFee        btcutil.Amount
	Warnings        []string
}

// MajorVersion returns the major release number of the server.
func (n *NetworkInfo) MajorVersion() int {
	return n.Version / 10000
}
