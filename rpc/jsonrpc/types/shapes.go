// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

import "github.com/simplerpc/simplerpc/rpc/model"

// BlockHeaderVerboseShape is a raw verbose getblockheader result of one
// server version.
type BlockHeaderVerboseShape interface {
	ToModel() (*model.BlockHeaderVerbose, error)
}

// BlockVerboseOneShape is a raw getblock verbosity 1 result of one server
// version.
type BlockVerboseOneShape interface {
	ToModel() (*model.BlockVerboseOne, error)
}

// BlockchainInfoShape is a raw getblockchaininfo result of one server version.
type BlockchainInfoShape interface {
	ToModel() (*model.BlockchainInfo, error)
}

// Shapes creates empty raw results for the calls whose JSON shape depends on
// the server version.  Each method returns a new pointer suitable for JSON
// decoding.
type Shapes interface {
	// ProtocolVersion returns the major server version the shapes model.
	ProtocolVersion() int

	BlockHeaderVerbose() BlockHeaderVerboseShape
	BlockVerboseOne() BlockVerboseOneShape
	BlockchainInfo() BlockchainInfoShape
}
