// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package v29

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/simplerpc/simplerpc/errors"
)

const headerJSON = `{
	"hash": "00000000000000000001b2f5c4a4b2b0c3f7d2ab3f2c6a9c8dc7ef5d0d8c1a2b",
	"confirmations": 3,
	"height": 890000,
	"version": 536870912,
	"versionHex": "20000000",
	"merkleroot": "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
	"time": 1743000000,
	"mediantime": 1742999000,
	"nonce": 2083236893,
	"bits": "17025ced",
	"target": "000000000000000000025ced0000000000000000000000000000000000000000",
	"difficulty": 113757508810853.6,
	"chainwork": "0000000000000000000000000000000000000000b2a2a3c5b9f8e1c6d24d6a10",
	"nTx": 3200,
	"previousblockhash": "000000000000000000019d5e2fdbbe4c7e3e6a8bb7f25b0b2c2a5f2a7a1e8c3d"
}`

func TestHeaderTarget(t *testing.T) {
	t.Parallel()

	var r GetBlockHeaderVerbose
	if err := json.Unmarshal([]byte(headerJSON), &r); err != nil {
		t.Fatal(err)
	}
	h, err := r.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if h.Height != 890000 || h.Bits != 0x17025ced || h.NTx != 3200 {
		t.Fatalf("unexpected header %+v", h)
	}
	if h.Target.Cmp(blockchain.CompactToBig(h.Bits)) != 0 {
		t.Fatalf("reported target %x does not match bits %08x", h.Target, h.Bits)
	}
	if h.PreviousBlockHash == nil || h.NextBlockHash != nil {
		t.Fatal("unexpected previous/next block hashes")
	}

	r.Target = ""
	if _, err := r.ToModel(); !errors.Is(err, errors.Conversion) {
		t.Fatalf("expected Conversion error for missing target, got %v", err)
	}
}

func TestBlockVerboseOne(t *testing.T) {
	t.Parallel()

	raw := headerJSON[:len(headerJSON)-1] + `,
		"strippedsize": 800000,
		"size": 1500000,
		"weight": 3900000,
		"tx": ["4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"]
	}`
	var r GetBlockVerboseOne
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}
	b, err := r.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if b.Weight != 3900000 || len(b.Tx) != 1 || b.Target == nil || b.Height != 890000 {
		t.Fatalf("unexpected block %+v", b)
	}

	r.Tx = []string{"zz"}
	if _, err := r.ToModel(); !errors.Is(err, errors.Conversion) {
		t.Fatalf("expected Conversion error, got %v", err)
	}
}

func TestBlockchainInfoBitsAndTarget(t *testing.T) {
	t.Parallel()

	raw := `{
		"chain": "main",
		"blocks": 890000,
		"headers": 890001,
		"bestblockhash": "00000000000000000001b2f5c4a4b2b0c3f7d2ab3f2c6a9c8dc7ef5d0d8c1a2b",
		"bits": "17025ced",
		"target": "000000000000000000025ced0000000000000000000000000000000000000000",
		"difficulty": 113757508810853.6,
		"time": 1743000000,
		"mediantime": 1742999000,
		"verificationprogress": 0.9999,
		"initialblockdownload": false,
		"chainwork": "0000000000000000000000000000000000000000b2a2a3c5b9f8e1c6d24d6a10",
		"size_on_disk": 700000000000,
		"pruned": false,
		"warnings": []
	}`
	var r GetBlockchainInfo
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}
	m, err := r.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if m.Bits != 0x17025ced || m.Target == nil || m.Blocks != 890000 || m.Headers != 890001 {
		t.Fatalf("unexpected model %+v", m)
	}
	if m.Params == nil || m.Params.Name != "mainnet" {
		t.Fatalf("unexpected params %v", m.Params)
	}

	r.Bits = "not hex"
	if _, err := r.ToModel(); !errors.Is(err, errors.Conversion) {
		t.Fatalf("expected Conversion error, got %v", err)
	}
}
