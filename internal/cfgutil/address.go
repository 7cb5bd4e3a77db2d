// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// AddressFlag contains a btcutil.Address and implements the flags.Marshaler
// and Unmarshaler interfaces so it can be used as a config struct field or
// positional argument.  Addresses are only accepted for the network the flag
// was created for.
type AddressFlag struct {
	Address btcutil.Address
	params  *chaincfg.Params
}

// NewAddressFlag creates an AddressFlag that decodes addresses for params.
func NewAddressFlag(params *chaincfg.Params) *AddressFlag {
	return &AddressFlag{params: params}
}

// MarshalFlag satisfies the flags.Marshaler interface.
func (a *AddressFlag) MarshalFlag() (string, error) {
	if a.Address == nil {
		return "", nil
	}
	return a.Address.EncodeAddress(), nil
}

// UnmarshalFlag satisfies the flags.Unmarshaler interface.
func (a *AddressFlag) UnmarshalFlag(addr string) error {
	if a.params == nil {
		return fmt.Errorf("address %q: no network configured", addr)
	}
	if addr == "" {
		a.Address = nil
		return nil
	}
	decoded, err := btcutil.DecodeAddress(addr, a.params)
	if err != nil {
		return fmt.Errorf("invalid %s address %q: %w", a.params.Name, addr, err)
	}
	// Segwit decoding accepts any registered human-readable part.
	if !decoded.IsForNet(a.params) {
		return fmt.Errorf("address %q is not for network %s", addr, a.params.Name)
	}
	a.Address = decoded
	return nil
}
