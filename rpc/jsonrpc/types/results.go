// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package types defines the raw JSON shapes of bitcoind RPC results which do
// not vary between supported server versions, the request types of calls
// taking structured arguments, and the interfaces through which
// version-specific shapes are selected.
package types

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/model"
)

// Warnings decodes a warnings field reported either as a single string (older
// servers) or as an array of strings.  An empty string decodes as no
// warnings.
type Warnings []string

// UnmarshalJSON implements json.Unmarshaler.
func (w *Warnings) UnmarshalJSON(j []byte) error {
	if bytes.Equal(j, []byte("null")) {
		*w = nil
		return nil
	}
	if len(j) > 0 && j[0] == '"' {
		var s string
		if err := json.Unmarshal(j, &s); err != nil {
			return err
		}
		if s == "" {
			*w = nil
		} else {
			*w = Warnings{s}
		}
		return nil
	}
	var array []string
	if err := json.Unmarshal(j, &array); err != nil {
		return err
	}
	*w = array
	return nil
}

// GetBlockFilterResult models the data from the getblockfilter command.
type GetBlockFilterResult struct {
	Filter string `json:"filter"`
	Header string `json:"header"`
}

// ToModel converts the hex encoded filter and header.
func (r *GetBlockFilterResult) ToModel() (*model.BlockFilter, error) {
	const op errors.Op = "types.GetBlockFilterResult"
	filter, err := model.Filter("filter", r.Filter)
	if err != nil {
		return nil, errors.E(op, errors.Conversion, err)
	}
	header, err := model.Hash("header", r.Header)
	if err != nil {
		return nil, errors.E(op, errors.Conversion, err)
	}
	return &model.BlockFilter{Filter: filter, Header: header}, nil
}

// MempoolFeesResult models the fees object of a verbose mempool entry.
type MempoolFeesResult struct {
	Base       float64 `json:"base"`
	Modified   float64 `json:"modified"`
	Ancestor   float64 `json:"ancestor"`
	Descendant float64 `json:"descendant"`
}

// GetRawMempoolVerboseResult models a single entry of the getrawmempool
// command when the verbose flag is set.
type GetRawMempoolVerboseResult struct {
	VSize             int64             `json:"vsize"`
	Weight            int64             `json:"weight"`
	Time              int64             `json:"time"`
	Height            int64             `json:"height"`
	DescendantCount   int64             `json:"descendantcount"`
	DescendantSize    int64             `json:"descendantsize"`
	AncestorCount     int64             `json:"ancestorcount"`
	AncestorSize      int64             `json:"ancestorsize"`
	WTxID             string            `json:"wtxid"`
	Fees              MempoolFeesResult `json:"fees"`
	Depends           []string          `json:"depends"`
	SpentBy           []string          `json:"spentby"`
	BIP125Replaceable bool              `json:"bip125-replaceable"`
	Unbroadcast       bool              `json:"unbroadcast"`
}

// ToModel converts a verbose mempool entry.
func (r *GetRawMempoolVerboseResult) ToModel() (*model.MempoolEntry, error) {
	const op errors.Op = "types.GetRawMempoolVerboseResult"
	var (
		e   model.MempoolEntry
		err error
	)
	e.VSize = r.VSize
	e.Weight = r.Weight
	e.DescendantCount = r.DescendantCount
	e.DescendantSize = r.DescendantSize
	e.AncestorCount = r.AncestorCount
	e.AncestorSize = r.AncestorSize
	e.BIP125Replaceable = r.BIP125Replaceable
	e.Unbroadcast = r.Unbroadcast
	if e.Time, err = model.Unix("time", r.Time); err != nil {
		return nil, errors.E(op, err)
	}
	if e.Height, err = model.Uint32("height", r.Height); err != nil {
		return nil, errors.E(op, err)
	}
	if e.WTxID, err = model.Hash("wtxid", r.WTxID); err != nil {
		return nil, errors.E(op, errors.Conversion, err)
	}
	if e.Depends, err = model.Hashes("depends", r.Depends); err != nil {
		return nil, errors.E(op, errors.Conversion, err)
	}
	if e.SpentBy, err = model.Hashes("spentby", r.SpentBy); err != nil {
		return nil, errors.E(op, errors.Conversion, err)
	}
	fees := []struct {
		field string
		btc   float64
		dst   *btcutil.Amount
	}{
		{"fees.base", r.Fees.Base, &e.Fees.Base},
		{"fees.modified", r.Fees.Modified, &e.Fees.Modified},
		{"fees.ancestor", r.Fees.Ancestor, &e.Fees.Ancestor},
		{"fees.descendant", r.Fees.Descendant, &e.Fees.Descendant},
	}
	for _, f := range fees {
		if *f.dst, err = model.Amount(f.field, f.btc); err != nil {
			return nil, errors.E(op, err)
		}
	}
	return &e, nil
}

// RescanTime is the time from which the server rescans the chain for an
// imported descriptor, in UNIX seconds.  RescanNow marshals as "now".
type RescanTime int64

// RescanNow requests no rescan of historical blocks.
const RescanNow RescanTime = -1

// MarshalJSON implements json.Marshaler.
func (t RescanTime) MarshalJSON() ([]byte, error) {
	if t == RescanNow {
		return []byte(`"now"`), nil
	}
	return strconv.AppendInt(nil, int64(t), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.  It accepts "now" or a UNIX
// time in seconds.
func (t *RescanTime) UnmarshalJSON(j []byte) error {
	if bytes.Equal(j, []byte(`"now"`)) {
		*t = RescanNow
		return nil
	}
	var secs int64
	if err := json.Unmarshal(j, &secs); err != nil {
		return err
	}
	*t = RescanTime(secs)
	return nil
}

// ImportDescriptorsRequest is a single element of the importdescriptors
// requests array.
type ImportDescriptorsRequest struct {
	Desc      string     `json:"desc"`
	Active    *bool      `json:"active,omitempty"`
	Range     *[2]int64  `json:"range,omitempty"`
	NextIndex *int64     `json:"next_index,omitempty"`
	Timestamp RescanTime `json:"timestamp"`
	Internal  *bool      `json:"internal,omitempty"`
	Label     *string    `json:"label,omitempty"`
}

// ImportDescriptorsError is the error object of a failed descriptor import.
type ImportDescriptorsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ImportDescriptorsError) Error() string {
	return e.Message + " (code " + strconv.Itoa(e.Code) + ")"
}

// ImportDescriptorsResult models a single element of the importdescriptors
// result array.
type ImportDescriptorsResult struct {
	Success  bool                    `json:"success"`
	Warnings []string                `json:"warnings,omitempty"`
	Error    *ImportDescriptorsError `json:"error"`
}

// GetNetworkInfoResult models the fields of the getnetworkinfo result used by
// the client.
type GetNetworkInfoResult struct {
	Version         int      `json:"version"`
	Subversion      string   `json:"subversion"`
	ProtocolVersion int32    `json:"protocolversion"`
	Connections     int64    `json:"connections"`
	RelayFee        float64  `json:"relayfee"`
	Warnings        Warnings `json:"warnings"`
}

// ToModel converts the network info result.
func (r *GetNetworkInfoResult) ToModel() (*model.NetworkInfo, error) {
	const op errors.Op = "types.GetNetworkInfoResult"
	conns, err := model.Uint32("connections", r.Connections)
	if err != nil {
		return nil, errors.E(op, err)
	}
	relayFee, err := model.Amount("relayfee", r.RelayFee)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return &model.NetworkInfo{
		Version:         r.Version,
		Subversion:      r.Subversion,
		ProtocolVersion: r.ProtocolVersion,
		Connections:     conns,
		RelayFee:        relayFee,
		Warnings:        r.Warnings,
	}, nil
}
