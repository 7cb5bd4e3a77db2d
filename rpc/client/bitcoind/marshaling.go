// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoind

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/model"
)

type deserializer interface {
	Deserialize(r io.Reader) error
}

type unmarshalFunc func(j []byte) error

func (f *unmarshalFunc) UnmarshalJSON(j []byte) error {
	return (*f)(j)
}

func jsonString(j []byte) ([]byte, error) {
	if len(j) < 2 || j[0] != '"' || j[len(j)-1] != '"' {
		return nil, errors.E(errors.Encoding, "not a string")
	}
	return j[1 : len(j)-1], nil
}

// unhex returns a json.Unmarshaler which unmarshals a hex-encoded wire
// message.
func unhex(msg deserializer) json.Unmarshaler {
	f := unmarshalFunc(func(j []byte) error {
		s, err := jsonString(j)
		if err != nil {
			return err
		}
		b := make([]byte, hex.DecodedLen(len(s)))
		if _, err := hex.Decode(b, s); err != nil {
			return errors.E(errors.Hex, err)
		}
		r := bytes.NewReader(b)
		if err := msg.Deserialize(r); err != nil {
			return errors.E(errors.Conversion, err)
		}
		if r.Len() != 0 {
			return errors.E(errors.Conversion, errors.Errorf("%d trailing bytes", r.Len()))
		}
		return nil
	})
	return &f
}

// unmarshalHash returns a json.Unmarshaler which decodes a single hash
// string.
func unmarshalHash(h **chainhash.Hash) json.Unmarshaler {
	f := unmarshalFunc(func(j []byte) error {
		var s string
		if err := json.Unmarshal(j, &s); err != nil {
			return err
		}
		hash, err := model.Hash("result", s)
		if err != nil {
			return err
		}
		*h = &hash
		return nil
	})
	return &f
}

// unmarshalHashes returns a json.Unmarshaler which decodes an array of hash
// strings.
func unmarshalHashes(hashes *[]*chainhash.Hash) json.Unmarshaler {
	f := unmarshalFunc(func(j []byte) error {
		var array []string
		if err := json.Unmarshal(j, &array); err != nil {
			return err
		}
		*hashes = make([]*chainhash.Hash, len(array))
		for i, s := range array {
			h, err := model.Hash("result", s)
			if err != nil {
				return err
			}
			(*hashes)[i] = &h
		}
		return nil
	})
	return &f
}
