// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/gcs"
	"github.com/btcsuite/btcd/btcutil/gcs/builder"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/simplerpc/simplerpc/errors"
)

// FieldError records which field of a raw result failed to convert.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(kind errors.Kind, field string, err error) error {
	return errors.E(kind, &FieldError{Field: field, Err: err})
}

// Uint32 converts a server integer to a uint32, failing with an
// errors.IntRange error if v is negative or too large.
func Uint32(field string, v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		err := fmt.Errorf("value %d out of range for uint32", v)
		return 0, fieldErr(errors.IntRange, field, err)
	}
	return uint32(v), nil
}

// OptionalUint32 is Uint32 for optional fields; a nil v yields nil.
func OptionalUint32(field string, v *int64) (*uint32, error) {
	if v == nil {
		return nil, nil
	}
	u, err := Uint32(field, *v)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Hash parses a 32-byte identifier in the byte-reversed hex encoding used by
// the server.  The string must be exactly 64 hex characters.
func Hash(field, s string) (chainhash.Hash, error) {
	if len(s) != chainhash.MaxHashStringSize {
		err := fmt.Errorf("expected %d hex characters, got %d",
			chainhash.MaxHashStringSize, len(s))
		return chainhash.Hash{}, fieldErr(errors.Hex, field, err)
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, fieldErr(errors.Hex, field, err)
	}
	return *h, nil
}

// OptionalHash parses s with Hash unless it is empty, in which case it returns
// nil.
func OptionalHash(field, s string) (*chainhash.Hash, error) {
	if s == "" {
		return nil, nil
	}
	h, err := Hash(field, s)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Hashes parses each element of ss with Hash.
func Hashes(field string, ss []string) ([]chainhash.Hash, error) {
	hashes := make([]chainhash.Hash, len(ss))
	for i, s := range ss {
		h, err := Hash(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return hashes, nil
}

// Bits parses the compact target encoding reported as 8 hex characters.
func Bits(field, s string) (uint32, error) {
	bits, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fieldErr(errors.Conversion, field, err)
	}
	return uint32(bits), nil
}

// Uint256 parses a big-endian hex encoded 256-bit unsigned integer such as
// chainwork or target.
func Uint256(field, s string) (*big.Int, error) {
	if s == "" || len(s) > 64 {
		err := fmt.Errorf("invalid 256-bit hex length %d", len(s))
		return nil, fieldErr(errors.Conversion, field, err)
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		err := fmt.Errorf("invalid 256-bit hex %q", s)
		return nil, fieldErr(errors.Conversion, field, err)
	}
	return n, nil
}

// Amount converts a BTC-denominated float to an amount in satoshis.
func Amount(field string, btc float64) (btcutil.Amount, error) {
	amt, err := btcutil.NewAmount(btc)
	if err != nil {
		return 0, fieldErr(errors.Conversion, field, err)
	}
	return amt, nil
}

// Unix converts a server timestamp in seconds.  Negative values are rejected.
func Unix(field string, secs int64) (time.Time, error) {
	if secs < 0 {
		err := fmt.Errorf("negative timestamp %d", secs)
		return time.Time{}, fieldErr(errors.IntRange, field, err)
	}
	return time.Unix(secs, 0), nil
}

// Filter decodes a hex-serialized BIP0158 basic filter, which is prefixed with
// the number of elements.
func Filter(field, s string) (*gcs.Filter, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fieldErr(errors.Conversion, field, err)
	}
	f, err := gcs.FromNBytes(builder.DefaultP, builder.DefaultM, b)
	if err != nil {
		return nil, fieldErr(errors.Conversion, field, err)
	}
	return f, nil
}

// ChainParams returns the btcd parameters for a chain name reported by the
// server, or nil for an unknown chain.
func ChainParams(chain string) *chaincfg.Params {
	switch chain {
	case "main":
		return &chaincfg.MainNetParams
	case "test":
		return &chaincfg.TestNet3Params
	case "signet":
		return &chaincfg.SigNetParams
	case "regtest":
		return &chaincfg.RegressionNetParams
	default:
		return nil
	}
}
