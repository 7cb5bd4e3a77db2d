// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/google/go-cmp/cmp"
	"github.com/simplerpc/simplerpc/errors"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)
	return s
}

func TestNewHTTPConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		opts []Option
		ok   bool
	}{
		{"http://127.0.0.1:8332", nil, true},
		{"https://node.example.com/wallet/w1", nil, true},
		{"ftp://127.0.0.1:8332", nil, false},
		{"127.0.0.1:8332", nil, false},
		{"http://", nil, false},
		{"http://[::1", nil, false},
		{"http://127.0.0.1:8332", []Option{WithTimeout(0)}, false},
	}
	for _, test := range tests {
		_, err := NewHTTP(test.url, test.opts...)
		if test.ok && err != nil {
			t.Errorf("%q: unexpected error: %v", test.url, err)
			continue
		}
		if !test.ok && !errors.Is(err, errors.Config) {
			t.Errorf("%q: expected Config error, got %v", test.url, err)
		}
	}
}

func TestRequestEnvelope(t *testing.T) {
	t.Parallel()

	type seen struct {
		Auth        string
		ContentType string
		UserAgent   string
		Request     Request
	}
	var (
		mu  sync.Mutex
		got []seen
	)
	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body %s: %v", body, err)
		}
		mu.Lock()
		got = append(got, seen{
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			UserAgent:   r.Header.Get("User-Agent"),
			Request:     req,
		})
		mu.Unlock()
		fmt.Fprintf(w, `{"result":42,"error":null,"id":%d}`, req.ID)
	})

	h, err := NewHTTP(s.URL, WithBasicAuth("alice", "secret"), WithUserAgent("test/1"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	res, err := h.RawRequest(ctx, "getblockcount", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(res) != "42" {
		t.Fatalf("result %s", res)
	}
	_, err = h.RawRequest(ctx, "getblockhash", []json.RawMessage{json.RawMessage("7")})
	if err != nil {
		t.Fatal(err)
	}

	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	want := []seen{{
		Auth:        auth,
		ContentType: "application/json",
		UserAgent:   "test/1",
		Request:     Request{JSONRPC: "1.0", ID: 1, Method: "getblockcount", Params: []json.RawMessage{}},
	}, {
		Auth:        auth,
		ContentType: "application/json",
		UserAgent:   "test/1",
		Request:     Request{JSONRPC: "1.0", ID: 2, Method: "getblockhash", Params: []json.RawMessage{json.RawMessage("7")}},
	}}
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestCookieAuthHeader(t *testing.T) {
	t.Parallel()

	auths := make(chan string, 1)
	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auths <- r.Header.Get("Authorization")
		io.WriteString(w, `{"result":null,"error":null,"id":1}`)
	})
	h, err := NewHTTP(s.URL, WithCookieAuth("__cookie__:abc123"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := h.RawRequest(context.Background(), "ping", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(res) != "null" {
		t.Fatalf("result %s", res)
	}
	auth := <-auths
	user, pass, ok := (&http.Request{Header: http.Header{"Authorization": {auth}}}).BasicAuth()
	if !ok || user != "__cookie__" || pass != "abc123" {
		t.Fatalf("unexpected credentials %q %q %v", user, pass, ok)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		kind   errors.Kind
	}{
		{"rpc error with 500", 500, `{"result":null,"error":{"code":-8,"message":"Block height out of range"},"id":1}`, errors.RPC},
		{"method not found with 404", 404, `{"result":null,"error":{"code":-32601,"message":"Method not found"},"id":1}`, errors.RPC},
		{"rpc error with 200", 200, `{"result":null,"error":{"code":-1,"message":"failed"},"id":1}`, errors.RPC},
		{"unauthorized", 401, ``, errors.Transport},
		{"forbidden", 403, `{"result":1,"error":null,"id":1}`, errors.Transport},
		{"html error page", 503, `<html>busy</html>`, errors.Transport},
		{"status without error object", 500, `{"result":1,"error":null,"id":1}`, errors.Transport},
		{"malformed envelope", 200, `{"result":`, errors.Protocol},
		{"mismatched id", 200, `{"result":1,"error":null,"id":99}`, errors.Protocol},
		{"missing result", 200, `{"error":null,"id":1}`, errors.Protocol},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				io.WriteString(w, test.body)
			})
			h, err := NewHTTP(s.URL)
			if err != nil {
				t.Fatal(err)
			}
			_, err = h.RawRequest(context.Background(), "getblockhash", nil)
			if !errors.Is(err, test.kind) {
				t.Fatalf("expected %v, got %v", test.kind, err)
			}
		})
	}
}

func TestRPCErrorPreserved(t *testing.T) {
	t.Parallel()

	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		io.WriteString(w, `{"result":null,"error":{"code":-5,"message":"Block not found"},"id":1}`)
	})
	h, err := NewHTTP(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.RawRequest(context.Background(), "getblock", nil)
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *btcjson.RPCError, got %v", err)
	}
	if rpcErr.Code != btcjson.ErrRPCInvalidAddressOrKey || rpcErr.Message != "Block not found" {
		t.Fatalf("unexpected RPC error %+v", rpcErr)
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	h, err := NewHTTP(s.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.RawRequest(context.Background(), "getblockcount", nil)
	if !errors.Is(err, errors.Transport) {
		t.Fatalf("expected Transport error, got %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()

	h, err := NewHTTP(url, WithHTTPClient(&http.Client{}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.RawRequest(context.Background(), "getblockcount", nil)
	if !errors.Is(err, errors.Transport) {
		t.Fatalf("expected Transport error, got %v", err)
	}
}
