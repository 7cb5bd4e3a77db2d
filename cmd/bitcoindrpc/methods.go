// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	flags "github.com/jessevdk/go-flags"
	"github.com/simplerpc/simplerpc/internal/cfgutil"
	"github.com/simplerpc/simplerpc/rpc/client/bitcoind"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types"
)

type handler func(ctx context.Context, c *bitcoind.Client, args []string) (any, error)

type command struct {
	usage   string
	minArgs int
	maxArgs int // -1 for no limit
	handler handler
}

var commands = map[string]command{
	"getblockcount":     {"", 0, 0, getBlockCount},
	"getbestblockhash":  {"", 0, 0, getBestBlockHash},
	"getblockhash":      {"<height>", 1, 1, getBlockHash},
	"getblockhashes":    {"<height> [height...]", 1, -1, getBlockHashes},
	"getblockheader":    {"<hash> [verbose=true]", 1, 2, getBlockHeader},
	"getblock":          {"<hash> [verbosity=1]", 1, 2, getBlock},
	"getblockfilter":    {"<hash>", 1, 1, getBlockFilter},
	"getrawmempool":     {"[verbose=false]", 0, 1, getRawMempool},
	"sendtoaddress":     {"<address> <amount>", 2, 2, sendToAddress},
	"getrawtransaction": {"<txid>", 1, 1, getRawTransaction},
	"importdescriptors": {"<requests json>", 1, 1, importDescriptors},
	"getblockchaininfo": {"", 0, 0, getBlockchainInfo},
	"getdescriptorinfo": {"<descriptor>", 1, 1, getDescriptorInfo},
	"getnetworkinfo":    {"", 0, 0, getNetworkInfo},
}

func methodNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseHeight(s string) (uint32, error) {
	h, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid height %q: %w", s, err)
	}
	return uint32(h), nil
}

func parseHash(s string) (*chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return hash, nil
}

func optionalBool(args []string, i int, def bool) (bool, error) {
	if len(args) <= i {
		return def, nil
	}
	return strconv.ParseBool(args[i])
}

func getBlockCount(ctx context.Context, c *bitcoind.Client, _ []string) (any, error) {
	return c.GetBlockCount(ctx)
}

func getBestBlockHash(ctx context.Context, c *bitcoind.Client, _ []string) (any, error) {
	return c.GetBestBlockHash(ctx)
}

func getBlockHash(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	height, err := parseHeight(args[0])
	if err != nil {
		return nil, err
	}
	return c.GetBlockHash(ctx, height)
}

func getBlockHashes(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	heights := make([]uint32, len(args))
	for i := range args {
		var err error
		if heights[i], err = parseHeight(args[i]); err != nil {
			return nil, err
		}
	}
	return c.GetBlockHashes(ctx, heights)
}

func getBlockHeader(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	hash, err := parseHash(args[0])
	if err != nil {
		return nil, err
	}
	verbose, err := optionalBool(args, 1, true)
	if err != nil {
		return nil, err
	}
	if verbose {
		return c.GetBlockHeaderVerbose(ctx, hash)
	}
	header, err := c.GetBlockHeader(ctx, hash)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return nil, err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func getBlock(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	hash, err := parseHash(args[0])
	if err != nil {
		return nil, err
	}
	verbosity := 1
	if len(args) > 1 {
		verbosity, err = strconv.Atoi(args[1])
		if err != nil || verbosity < 0 || verbosity > 1 {
			return nil, fmt.Errorf("invalid verbosity %q: must be 0 or 1", args[1])
		}
	}
	if verbosity == 1 {
		return c.GetBlockVerbose(ctx, hash)
	}
	block, err := c.GetBlock(ctx, hash)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, block.SerializeSize()))
	if err := block.Serialize(buf); err != nil {
		return nil, err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func getBlockFilter(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	hash, err := parseHash(args[0])
	if err != nil {
		return nil, err
	}
	f, err := c.GetBlockFilter(ctx, hash)
	if err != nil {
		return nil, err
	}
	nbytes, err := f.Filter.NBytes()
	if err != nil {
		return nil, err
	}
	return struct {
		Filter string         `json:"filter"`
		N      uint32         `json:"n"`
		Header chainhash.Hash `json:"header"`
	}{hex.EncodeToString(nbytes), f.Filter.N(), f.Header}, nil
}

func getRawMempool(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	verbose, err := optionalBool(args, 0, false)
	if err != nil {
		return nil, err
	}
	if !verbose {
		return c.GetRawMempool(ctx)
	}
	entries, err := c.GetRawMempoolVerbose(ctx)
	if err != nil {
		return nil, err
	}
	// Key by the display form of the txid.
	out := make(map[string]any, len(entries))
	for txid, entry := range entries {
		out[txid.String()] = entry
	}
	return out, nil
}

func sendToAddress(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	info, err := c.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info.Params == nil {
		return nil, fmt.Errorf("unknown chain %q", info.Chain)
	}
	var pos struct {
		Args struct {
			Address *cfgutil.AddressFlag `positional-arg-name:"address"`
			Amount  cfgutil.AmountFlag   `positional-arg-name:"amount"`
		} `positional-args:"yes" required:"yes"`
	}
	pos.Args.Address = cfgutil.NewAddressFlag(info.Params)
	if _, err := flags.NewParser(&pos, flags.None).ParseArgs(args); err != nil {
		return nil, err
	}
	if pos.Args.Amount.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return c.SendToAddress(ctx, pos.Args.Address.Address, pos.Args.Amount.Amount)
}

func getRawTransaction(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	txid, err := parseHash(args[0])
	if err != nil {
		return nil, err
	}
	tx, err := c.GetRawTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	if err := tx.Serialize(buf); err != nil {
		return nil, err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func importDescriptors(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	var reqs []types.ImportDescriptorsRequest
	if err := json.Unmarshal([]byte(args[0]), &reqs); err != nil {
		return nil, fmt.Errorf("invalid requests: %w", err)
	}
	return c.ImportDescriptors(ctx, reqs)
}

func getBlockchainInfo(ctx context.Context, c *bitcoind.Client, _ []string) (any, error) {
	info, err := c.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, err
	}
	// chaincfg.Params does not encode to JSON.
	info.Params = nil
	return info, nil
}

func getDescriptorInfo(ctx context.Context, c *bitcoind.Client, args []string) (any, error) {
	return c.GetDescriptorInfo(ctx, args[0])
}

func getNetworkInfo(ctx context.Context, c *bitcoind.Client, _ []string) (any, error) {
	return c.GetNetworkInfo(ctx)
}
