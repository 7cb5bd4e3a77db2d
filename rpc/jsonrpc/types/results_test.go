// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/btcutil/gcs"
	"github.com/btcsuite/btcd/btcutil/gcs/builder"
	"github.com/simplerpc/simplerpc/errors"
)

const (
	blockHash  = "00000000000000000001c1b4a9b6f5d1c5b1e0e0b2c1f3a4e5d6c7b8a9f0e1d2"
	filterHead = "3c1e7a39b2c6dc9d3c7f5f0cd4f9cb4d1f0e5b1c8cdb6e1a1f7e47cd8e0b7c11"
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }

func TestImportDescriptorsRequestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      ImportDescriptorsRequest
		wantJSON string
	}{
		{
			name:     "required fields only",
			req:      ImportDescriptorsRequest{Desc: "addr(bc1q)#abcd", Timestamp: 1700000000},
			wantJSON: `{"desc":"addr(bc1q)#abcd","timestamp":1700000000}`,
		},
		{
			name: "rescan now",
			req: ImportDescriptorsRequest{
				Desc:      "wpkh(xpub/0/*)#efgh",
				Active:    boolPtr(true),
				Range:     &[2]int64{0, 999},
				Timestamp: RescanNow,
				Internal:  boolPtr(false),
			},
			wantJSON: `{"desc":"wpkh(xpub/0/*)#efgh","active":true,"range":[0,999],"timestamp":"now","internal":false}`,
		},
		{
			name:     "label",
			req:      ImportDescriptorsRequest{Desc: "addr(x)", Label: stringPtr("savings")},
			wantJSON: `{"desc":"addr(x)","timestamp":0,"label":"savings"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := json.Marshal(&test.req)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(got) != test.wantJSON {
				t.Errorf("json.Marshal() = %s, want %s", got, test.wantJSON)
			}
		})
	}
}

func TestRescanTimeUnmarshal(t *testing.T) {
	t.Parallel()

	var reqs []ImportDescriptorsRequest
	err := json.Unmarshal([]byte(`[
		{"desc": "addr(a)", "timestamp": "now"},
		{"desc": "addr(b)", "timestamp": 1700000000, "internal": true}
	]`), &reqs)
	if err != nil {
		t.Fatal(err)
	}
	want := []ImportDescriptorsRequest{
		{Desc: "addr(a)", Timestamp: RescanNow},
		{Desc: "addr(b)", Timestamp: 1700000000, Internal: boolPtr(true)},
	}
	if !reflect.DeepEqual(reqs, want) {
		t.Fatalf("got %+v, want %+v", reqs, want)
	}

	var ts RescanTime
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unknown rescan time")
	}
}

func TestImportDescriptorsResultJSON(t *testing.T) {
	t.Parallel()

	var res []ImportDescriptorsResult
	err := json.Unmarshal([]byte(`[
		{"success": true, "error": null},
		{"success": false, "warnings": ["w"], "error": {"code": -5, "message": "Invalid descriptor"}}
	]`), &res)
	if err != nil {
		t.Fatal(err)
	}
	want := []ImportDescriptorsResult{
		{Success: true},
		{Success: false, Warnings: []string{"w"},
			Error: &ImportDescriptorsError{Code: -5, Message: "Invalid descriptor"}},
	}
	if !reflect.DeepEqual(res, want) {
		t.Fatalf("got %+v, want %+v", res, want)
	}
	if res[1].Error.Error() != "Invalid descriptor (code -5)" {
		t.Fatalf("unexpected error string %q", res[1].Error.Error())
	}
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Warnings
	}{
		{`null`, nil},
		{`""`, nil},
		{`"old style"`, Warnings{"old style"}},
		{`["a","b"]`, Warnings{"a", "b"}},
	}
	for _, test := range tests {
		var w Warnings
		if err := json.Unmarshal([]byte(test.in), &w); err != nil {
			t.Errorf("%s: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(w, test.want) {
			t.Errorf("%s: got %#v, want %#v", test.in, w, test.want)
		}
	}

	var w Warnings
	if err := json.Unmarshal([]byte(`42`), &w); err == nil {
		t.Fatal("expected error for numeric warnings")
	}
}

func TestGetBlockFilterResultToModel(t *testing.T) {
	t.Parallel()

	var key [gcs.KeySize]byte
	f, err := gcs.BuildGCSFilter(builder.DefaultP, builder.DefaultM, key,
		[][]byte{{0x01}, {0x02}, {0x03}})
	if err != nil {
		t.Fatal(err)
	}
	nbytes, err := f.NBytes()
	if err != nil {
		t.Fatal(err)
	}

	r := GetBlockFilterResult{Filter: hex.EncodeToString(nbytes), Header: filterHead}
	m, err := r.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if m.Filter.N() != 3 {
		t.Fatalf("filter N = %d, want 3", m.Filter.N())
	}
	if m.Header.String() != filterHead {
		t.Fatalf("header = %v", m.Header)
	}

	bad := GetBlockFilterResult{Filter: "zz", Header: filterHead}
	if _, err := bad.ToModel(); !errors.Is(err, errors.Conversion) {
		t.Fatalf("expected Conversion error, got %v", err)
	}
	bad = GetBlockFilterResult{Filter: hex.EncodeToString(nbytes), Header: "00"}
	if _, err := bad.ToModel(); !errors.Is(err, errors.Conversion) {
		t.Fatalf("expected Conversion error for header, got %v", err)
	}
}

func TestGetRawMempoolVerboseResultToModel(t *testing.T) {
	t.Parallel()

	r := GetRawMempoolVerboseResult{
		VSize:   141,
		Weight:  561,
		Time:    1700000000,
		Height:  820000,
		WTxID:   blockHash,
		Fees:    MempoolFeesResult{Base: 0.00000282, Modified: 0.00000282, Ancestor: 0.00000282, Descendant: 0.00000282},
		Depends: []string{filterHead},
	}
	m, err := r.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if m.Height != 820000 || m.Fees.Base != 282 || len(m.Depends) != 1 || m.Time.Unix() != 1700000000 {
		t.Fatalf("unexpected entry %+v", m)
	}

	r.Height = -1
	if _, err := r.ToModel(); !errors.Is(err, errors.IntRange) {
		t.Fatalf("expected IntRange error, got %v", err)
	}
}

func TestGetNetworkInfoResultToModel(t *testing.T) {
	t.Parallel()

	var r GetNetworkInfoResult
	err := json.Unmarshal([]byte(`{"version":290000,"subversion":"/Satoshi:29.0.0/",
		"protocolversion":70016,"connections":10,"relayfee":0.00001,"warnings":[]}`), &r)
	if err != nil {
		t.Fatal(err)
	}
	m, err := r.ToModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.MajorVersion() != 29 || m.RelayFee != 1000 || m.Connections != 10 {
		t.Fatalf("unexpected network info %+v", m)
	}
}
