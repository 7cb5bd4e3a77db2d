// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoind

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types"
	"github.com/simplerpc/simplerpc/rpc/model"
	"golang.org/x/sync/errgroup"
)

// GetBlockCount returns the height of the most-work fully-validated chain.
func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	const op errors.Op = "bitcoind.GetBlockCount"
	var count int64
	if err := c.Call(ctx, "getblockcount", &count); err != nil {
		return 0, errors.E(op, err)
	}
	height, err := model.Uint32("result", count)
	if err != nil {
		return 0, errors.E(op, err)
	}
	return height, nil
}

// GetBestBlockHash returns the hash of the best block of the most-work
// fully-validated chain.
func (c *Client) GetBestBlockHash(ctx context.Context) (*chainhash.Hash, error) {
	const op errors.Op = "bitcoind.GetBestBlockHash"
	var hash *chainhash.Hash
	if err := c.Call(ctx, "getbestblockhash", unmarshalHash(&hash)); err != nil {
		return nil, errors.E(op, err)
	}
	return hash, nil
}

// GetBlockHash returns the hash of the main chain block at height.
func (c *Client) GetBlockHash(ctx context.Context, height uint32) (*chainhash.Hash, error) {
	op := errors.Opf("bitcoind.GetBlockHash(%d)", height)
	var hash *chainhash.Hash
	if err := c.Call(ctx, "getblockhash", unmarshalHash(&hash), height); err != nil {
		return nil, errors.E(op, err)
	}
	return hash, nil
}

// maxConcurrentCalls bounds the in-flight requests of batched helpers.
const maxConcurrentCalls = 16

// GetBlockHashes returns the hashes of the main chain blocks at each height.
// At most maxConcurrentCalls requests are in flight and the first error is
// returned.
func (c *Client) GetBlockHashes(ctx context.Context, heights []uint32) ([]*chainhash.Hash, error) {
	const op errors.Op = "bitcoind.GetBlockHashes"

	hashes := make([]*chainhash.Hash, len(heights))
	var g errgroup.Group
	g.SetLimit(maxConcurrentCalls)
	for i := range heights {
		g.Go(func() error {
			hash, err := c.GetBlockHash(ctx, heights[i])
			hashes[i] = hash
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.E(op, err)
	}
	return hashes, nil
}

// GetBlockHeader returns the header of the block with the given hash.
func (c *Client) GetBlockHeader(ctx context.Context, hash *chainhash.Hash) (*wire.BlockHeader, error) {
	op := errors.Opf("bitcoind.GetBlockHeader(%v)", hash)
	header := new(wire.BlockHeader)
	if err := c.Call(ctx, "getblockheader", unhex(header), hash.String(), false); err != nil {
		return nil, errors.E(op, err)
	}
	return header, nil
}

// GetBlockHeaderVerbose returns the header of the block with the given hash
// together with its chain context.
func (c *Client) GetBlockHeaderVerbose(ctx context.Context, hash *chainhash.Hash) (*model.BlockHeaderVerbose, error) {
	op := errors.Opf("bitcoind.GetBlockHeaderVerbose(%v)", hash)
	raw := c.shapes.BlockHeaderVerbose()
	if err := c.Call(ctx, "getblockheader", raw, hash.String(), true); err != nil {
		return nil, errors.E(op, err)
	}
	header, err := raw.ToModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return header, nil
}

// GetBlock returns the block with the given hash.
func (c *Client) GetBlock(ctx context.Context, hash *chainhash.Hash) (*wire.MsgBlock, error) {
	op := errors.Opf("bitcoind.GetBlock(%v)", hash)
	block := new(wire.MsgBlock)
	if err := c.Call(ctx, "getblock", unhex(block), hash.String(), 0); err != nil {
		return nil, errors.E(op, err)
	}
	return block, nil
}

// GetBlockVerbose returns the header fields, sizes, and transaction ids of the
// block with the given hash.
func (c *Client) GetBlockVerbose(ctx context.Context, hash *chainhash.Hash) (*model.BlockVerboseOne, error) {
	op := errors.Opf("bitcoind.GetBlockVerbose(%v)", hash)
	raw := c.shapes.BlockVerboseOne()
	if err := c.Call(ctx, "getblock", raw, hash.String(), 1); err != nil {
		return nil, errors.E(op, err)
	}
	block, err := raw.ToModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return block, nil
}

// GetBlockFilter returns the BIP0158 basic filter of the block with the given
// hash.  The server must be run with -blockfilterindex.
func (c *Client) GetBlockFilter(ctx context.Context, hash *chainhash.Hash) (*model.BlockFilter, error) {
	op := errors.Opf("bitcoind.GetBlockFilter(%v)", hash)
	var raw types.GetBlockFilterResult
	if err := c.Call(ctx, "getblockfilter", &raw, hash.String()); err != nil {
		return nil, errors.E(op, err)
	}
	filter, err := raw.ToModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return filter, nil
}

// GetRawMempool returns the ids of all transactions in the mempool.
func (c *Client) GetRawMempool(ctx context.Context) ([]*chainhash.Hash, error) {
	const op errors.Op = "bitcoind.GetRawMempool"
	var txids []*chainhash.Hash
	if err := c.Call(ctx, "getrawmempool", unmarshalHashes(&txids), false); err != nil {
		return nil, errors.E(op, err)
	}
	return txids, nil
}

// GetRawMempoolVerbose returns every mempool transaction keyed by its id.
func (c *Client) GetRawMempoolVerbose(ctx context.Context) (map[chainhash.Hash]*model.MempoolEntry, error) {
	const op errors.Op = "bitcoind.GetRawMempoolVerbose"
	var raw map[string]*types.GetRawMempoolVerboseResult
	if err := c.Call(ctx, "getrawmempool", &raw, true); err != nil {
		return nil, errors.E(op, err)
	}
	entries := make(map[chainhash.Hash]*model.MempoolEntry, len(raw))
	for txid, r := range raw {
		hash, err := model.Hash("txid", txid)
		if err != nil {
			return nil, errors.E(op, errors.Conversion, err)
		}
		if r == nil {
			err := errors.Errorf("null entry for %v", txid)
			return nil, errors.E(op, errors.Conversion, err)
		}
		entry, err := r.ToModel()
		if err != nil {
			return nil, errors.E(op, err)
		}
		entries[hash] = entry
	}
	return entries, nil
}

// SendToAddress sends amount to address from the loaded wallet and returns
// the id of the created transaction.  The call is not idempotent; a retry
// after a transport error may send the amount twice.
//
// The amount is sent in BTC as a JSON number.
func (c *Client) SendToAddress(ctx context.Context, address btcutil.Address, amount btcutil.Amount) (*chainhash.Hash, error) {
	const op errors.Op = "bitcoind.SendToAddress"
	var txid *chainhash.Hash
	err := c.Call(ctx, "sendtoaddress", unmarshalHash(&txid), address.EncodeAddress(), amount.ToBTC())
	if err != nil {
		return nil, errors.E(op, err)
	}
	return txid, nil
}

// GetRawTransaction returns the transaction with the given id.  Transactions
// outside of the mempool require the server to be run with -txindex.
func (c *Client) GetRawTransaction(ctx context.Context, txid *chainhash.Hash) (*wire.MsgTx, error) {
	op := errors.Opf("bitcoind.GetRawTransaction(%v)", txid)
	tx := new(wire.MsgTx)
	if err := c.Call(ctx, "getrawtransaction", unhex(tx), txid.String(), false); err != nil {
		return nil, errors.E(op, err)
	}
	return tx, nil
}

// ImportDescriptors imports descriptors into the loaded descriptor wallet.
// The result of each request is reported separately; a request which failed
// to import does not cause an error.
func (c *Client) ImportDescriptors(ctx context.Context, requests []types.ImportDescriptorsRequest) ([]types.ImportDescriptorsResult, error) {
	const op errors.Op = "bitcoind.ImportDescriptors"
	var res []types.ImportDescriptorsResult
	if err := c.Call(ctx, "importdescriptors", &res, requests); err != nil {
		return nil, errors.E(op, err)
	}
	return res, nil
}

// GetBlockchainInfo returns the state of the block chain.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*model.BlockchainInfo, error) {
	const op errors.Op = "bitcoind.GetBlockchainInfo"
	raw := c.shapes.BlockchainInfo()
	if err := c.Call(ctx, "getblockchaininfo", raw); err != nil {
		return nil, errors.E(op, err)
	}
	info, err := raw.ToModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return info, nil
}

// GetDescriptorInfo analyses a descriptor and returns it with its checksum.
func (c *Client) GetDescriptorInfo(ctx context.Context, descriptor string) (*model.DescriptorInfo, error) {
	const op errors.Op = "bitcoind.GetDescriptorInfo"
	info, err := Call[model.DescriptorInfo](ctx, c, "getdescriptorinfo", descriptor)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return &info, nil
}

// GetNetworkInfo returns the server version and network state.
func (c *Client) GetNetworkInfo(ctx context.Context) (*model.NetworkInfo, error) {
	const op errors.Op = "bitcoind.GetNetworkInfo"
	raw, err := Call[types.GetNetworkInfoResult](ctx, c, "getnetworkinfo")
	if err != nil {
		return nil, errors.E(op, err)
	}
	info, err := raw.ToModel()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return info, nil
}
