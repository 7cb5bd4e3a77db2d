// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport implements the JSON-RPC 1.0 over HTTP POST transport
// spoken by bitcoind.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/version"
)

// DefaultTimeout bounds each request when no WithTimeout option is given.
const DefaultTimeout = 60 * time.Second

// maxBodySize limits the size of a response body read from the server.
const maxBodySize = 256 << 20

// Request is the JSON-RPC request envelope.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      uint64            `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// Response is the JSON-RPC response envelope.
type Response struct {
	Result json.RawMessage   `json:"result"`
	Error  *btcjson.RPCError `json:"error"`
	ID     *uint64           `json:"id"`
}

// HTTP performs JSON-RPC requests against a single endpoint.  It is safe for
// concurrent use.
type HTTP struct {
	client    *http.Client
	url       string
	auth      string
	userAgent string
	timeout   time.Duration
	id        atomic.Uint64
}

// Option modifies the configuration of an HTTP transport.
type Option func(*HTTP)

// WithTimeout sets the maximum duration of a single request, including
// reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// WithBasicAuth authenticates every request with a username and password.
func WithBasicAuth(user, pass string) Option {
	return func(h *HTTP) {
		h.auth = basicAuth(user + ":" + pass)
	}
}

// WithCookieAuth authenticates every request with the contents of a bitcoind
// cookie file, which has the form user:password.
func WithCookieAuth(cookie string) Option {
	return func(h *HTTP) {
		h.auth = basicAuth(cookie)
	}
}

// WithHTTPClient sets the HTTP client used to perform requests.  It may be
// used to configure TLS or proxies.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) {
		h.userAgent = ua
	}
}

func basicAuth(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// NewHTTP creates a transport for the server at rawURL, which must be an
// absolute http or https URL.
func NewHTTP(rawURL string, opts ...Option) (*HTTP, error) {
	const op errors.Op = "transport.NewHTTP"
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.E(op, errors.Config, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.E(op, errors.Config, errors.Errorf("unsupported URL scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, errors.E(op, errors.Config, errors.Errorf("URL %q has no host", rawURL))
	}
	h := &HTTP{
		client:    http.DefaultClient,
		url:       u.String(),
		userAgent: "simplerpc/" + version.String(),
		timeout:   DefaultTimeout,
	}
	for _, o := range opts {
		o(h)
	}
	if h.timeout <= 0 {
		return nil, errors.E(op, errors.Config, errors.Errorf("invalid timeout %v", h.timeout))
	}
	return h, nil
}

// URL returns the endpoint of the transport.
func (h *HTTP) URL() string {
	return h.url
}

// RawRequest performs the JSON-RPC method with already encoded positional
// parameters and returns the undecoded result.
func (h *HTTP) RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error) {
	op := errors.Opf("transport.RawRequest(%s)", method)

	if params == nil {
		params = []json.RawMessage{}
	}
	req := &Request{
		JSONRPC: "1.0",
		ID:      h.id.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.E(op, errors.Encoding, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.E(op, errors.Transport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.userAgent != "" {
		httpReq.Header.Set("User-Agent", h.userAgent)
	}
	if h.auth != "" {
		httpReq.Header.Set("Authorization", h.auth)
	}

	log.Tracef("%s: POST %s id=%d", method, h.url, req.ID)
	reply, err := h.client.Do(httpReq)
	if err != nil {
		return nil, errors.E(op, errors.Transport, err)
	}
	defer reply.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(reply.Body, maxBodySize))
	if err != nil {
		return nil, errors.E(op, errors.Transport, err)
	}

	status := reply.StatusCode
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errors.E(op, errors.Transport, statusError(status))
	}

	// bitcoind reports RPC errors with a non-200 status and a JSON-RPC
	// error body, so the body is decoded before the status is judged.
	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if status != http.StatusOK {
			return nil, errors.E(op, errors.Transport, statusError(status))
		}
		return nil, errors.E(op, errors.Protocol, err)
	}
	if resp.Error != nil {
		log.Debugf("%s: server error %v", method, resp.Error)
		return nil, errors.E(op, errors.RPC, resp.Error)
	}
	if status != http.StatusOK {
		return nil, errors.E(op, errors.Transport, statusError(status))
	}
	if resp.ID != nil && *resp.ID != req.ID {
		err := errors.Errorf("response id %d does not match request id %d", *resp.ID, req.ID)
		return nil, errors.E(op, errors.Protocol, err)
	}
	// A present null result decodes as the literal null; only an absent
	// member leaves Result nil.
	if resp.Result == nil {
		return nil, errors.E(op, errors.Protocol, "response has no result member")
	}
	return resp.Result, nil
}

func statusError(status int) error {
	return fmt.Errorf("HTTP status %d %s", status, http.StatusText(status))
}
