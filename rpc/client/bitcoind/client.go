// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitcoind provides a typed client for the bitcoind JSON-RPC API.
//
// A Client performs each call synchronously through a Caller, decodes the
// result into the raw JSON shape of the call, and converts it into the types
// of the rpc/model package or the btcsuite libraries.  Every error returned
// is an *errors.Error carrying one of the kinds of the errors package.
package bitcoind

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jrick/wsrpc/v2"
	"github.com/simplerpc/simplerpc/errors"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types/v28"
	"github.com/simplerpc/simplerpc/rpc/jsonrpc/types/v29"
	"github.com/simplerpc/simplerpc/rpc/transport"
)

// DefaultProtocolVersion is the server version whose result shapes are used
// unless WithProtocolVersion or DetectProtocolVersion selects another.
const DefaultProtocolVersion = v29.ProtocolVersion

// Caller provides a client interface to perform JSON-RPC remote procedure calls.
type Caller interface {
	// Call performs the remote procedure call defined by method and
	// waits for a response or a broken client connection.
	// Args provides positional parameters for the call.
	// Res must be a pointer to a struct, slice, or map type to unmarshal
	// a result (if any), or nil if no result is needed.
	Call(ctx context.Context, method string, res any, args ...any) error
}

// RawRequester synchronously performs a JSON-RPC method with positional
// parameters.
type RawRequester interface {
	RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error)
}

// RawRequestCaller wraps a RawRequester to provide a Caller implementation.
func RawRequestCaller(req RawRequester) Caller {
	return &rawRequester{req}
}

type rawRequester struct {
	req RawRequester
}

func (r *rawRequester) Call(ctx context.Context, method string, res any, args ...any) error {
	params := make([]json.RawMessage, 0, len(args))
	for i := range args {
		param, err := json.Marshal(args[i])
		if err != nil {
			return err
		}
		params = append(params, param)
	}
	resp, err := r.req.RawRequest(ctx, method, params)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return json.Unmarshal(resp, res)
}

// RPCClientRequester adapts a btcd rpcclient, which must be configured in
// HTTP POST mode, to a RawRequester.  The rpcclient does not observe
// contexts; only a context which is already done prevents the request.
func RPCClientRequester(c *rpcclient.Client) RawRequester {
	return rpcclientRequester{c}
}

type rpcclientRequester struct {
	c *rpcclient.Client
}

func (r rpcclientRequester) RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.c.RawRequest(method, params)
}

// Client provides type-safe methods for bitcoind JSON-RPCs.  A Client is
// immutable and safe for concurrent use when its Caller is.
type Client struct {
	caller Caller
	shapes types.Shapes
}

type clientOptions struct {
	version       int
	transportOpts []transport.Option
}

// Option modifies the creation of a Client.
type Option func(*clientOptions)

// WithProtocolVersion selects the result shapes of a server major version.
// Versions 28 and 29 are supported.
func WithProtocolVersion(version int) Option {
	return func(o *clientOptions) {
		o.version = version
	}
}

// WithTransportOptions passes options to the HTTP transport created by New.
// They are ignored by the constructors taking a Caller or RawRequester.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *clientOptions) {
		o.transportOpts = append(o.transportOpts, opts...)
	}
}

// ShapesFor returns the result shapes of a server major version.  Servers
// newer than the latest supported version use its shapes.
func ShapesFor(version int) (types.Shapes, error) {
	switch {
	case version == v28.ProtocolVersion:
		return v28.Shapes{}, nil
	case version >= v29.ProtocolVersion:
		return v29.Shapes{}, nil
	default:
		return nil, errors.E(errors.Config, errors.Errorf("unsupported server version %d", version))
	}
}

func newClient(op errors.Op, caller Caller, o *clientOptions) (*Client, error) {
	if o.version != v28.ProtocolVersion && o.version != v29.ProtocolVersion {
		err := errors.Errorf("unsupported protocol version %d", o.version)
		return nil, errors.E(op, errors.Config, err)
	}
	shapes, err := ShapesFor(o.version)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return &Client{caller: caller, shapes: shapes}, nil
}

func applyOptions(opts []Option) *clientOptions {
	o := &clientOptions{version: DefaultProtocolVersion}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New creates a client for the server at url, which must be an absolute http
// or https URL.  Credentials are resolved once, during New.
func New(url string, auth Auth, opts ...Option) (*Client, error) {
	const op errors.Op = "bitcoind.New"
	o := applyOptions(opts)

	var authOpt transport.Option
	switch a := auth.(type) {
	case UserPass:
		authOpt = transport.WithBasicAuth(a.User, a.Pass)
	case CookieFile:
		user, pass, err := ResolveAuth(a)
		if err != nil {
			return nil, errors.E(op, err)
		}
		authOpt = transport.WithCookieAuth(user + ":" + pass)
	default:
		return nil, errors.E(op, errors.Config, errors.Errorf("unknown auth %T", auth))
	}

	topts := append([]transport.Option{authOpt}, o.transportOpts...)
	t, err := transport.NewHTTP(url, topts...)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return newClient(op, RawRequestCaller(t), o)
}

// NewUserPass creates a client authenticating with a username and password.
func NewUserPass(url, user, pass string, opts ...Option) (*Client, error) {
	return New(url, UserPass{User: user, Pass: pass}, opts...)
}

// NewCookieAuth creates a client authenticating with the cookie file at path.
func NewCookieAuth(url, path string, opts ...Option) (*Client, error) {
	return New(url, CookieFile(path), opts...)
}

// NewWithCaller creates a client performing calls through caller, such as a
// *wsrpc.Client.
func NewWithCaller(caller Caller, opts ...Option) (*Client, error) {
	const op errors.Op = "bitcoind.NewWithCaller"
	if caller == nil {
		return nil, errors.E(op, errors.Config, "nil caller")
	}
	return newClient(op, caller, applyOptions(opts))
}

// NewWithRequester creates a client performing calls through req, such as a
// *transport.HTTP or an adapted rpcclient.
func NewWithRequester(req RawRequester, opts ...Option) (*Client, error) {
	const op errors.Op = "bitcoind.NewWithRequester"
	if req == nil {
		return nil, errors.E(op, errors.Config, "nil requester")
	}
	return newClient(op, RawRequestCaller(req), applyOptions(opts))
}

// ProtocolVersion returns the server major version whose result shapes the
// client decodes.
func (c *Client) ProtocolVersion() int {
	return c.shapes.ProtocolVersion()
}

// DetectProtocolVersion queries the server version and returns a client
// using the matching result shapes.  The receiver is not modified.
func (c *Client) DetectProtocolVersion(ctx context.Context) (*Client, error) {
	const op errors.Op = "bitcoind.DetectProtocolVersion"
	info, err := c.GetNetworkInfo(ctx)
	if err != nil {
		return nil, errors.E(op, err)
	}
	shapes, err := ShapesFor(info.MajorVersion())
	if err != nil {
		return nil, errors.E(op, err)
	}
	log.Debugf("Server %s uses protocol version %d", info.Subversion, shapes.ProtocolVersion())
	return &Client{caller: c.caller, shapes: shapes}, nil
}

// nonNull decodes a result into res, rejecting a null result which would
// otherwise leave res at its zero value.
type nonNull struct {
	res any
}

func (n *nonNull) UnmarshalJSON(j []byte) error {
	if bytes.Equal(bytes.TrimSpace(j), []byte("null")) {
		return errors.E(errors.Encoding, "null result")
	}
	return json.Unmarshal(j, n.res)
}

// Call performs the JSON-RPC method with positional args and decodes the
// result into res.  A null result is an Encoding error unless res is nil,
// in which case the result is discarded.
func (c *Client) Call(ctx context.Context, method string, res any, args ...any) error {
	op := errors.Opf("bitcoind.Call(%s)", method)
	log.Tracef("Calling %s with %d args", method, len(args))
	if res != nil {
		res = &nonNull{res}
	}
	err := c.caller.Call(ctx, method, res, args...)
	if err != nil {
		return errors.E(op, classify(err))
	}
	return nil
}

// Call performs the JSON-RPC method with positional args and returns the
// result decoded as a T.
func Call[T any](ctx context.Context, c *Client, method string, args ...any) (T, error) {
	var res T
	if err := c.Call(ctx, method, &res, args...); err != nil {
		var zero T
		return zero, err
	}
	return res, nil
}

// classify assigns an error kind to errors returned by callers which do not
// use the errors package.
func classify(err error) error {
	if errors.KindOf(err) != errors.Other {
		return err
	}
	var (
		rpcErr   *btcjson.RPCError
		wsErr    *wsrpc.Error
		syntax   *json.SyntaxError
		typeErr  *json.UnmarshalTypeError
		marshal  *json.MarshalerError
		unsupTyp *json.UnsupportedTypeError
		unsupVal *json.UnsupportedValueError
		invalid  *json.InvalidUnmarshalError
	)
	switch {
	case errors.As(err, &rpcErr), errors.As(err, &wsErr):
		return errors.E(errors.RPC, err)
	case errors.As(err, &syntax), errors.As(err, &typeErr),
		errors.As(err, &marshal), errors.As(err, &unsupTyp),
		errors.As(err, &unsupVal), errors.As(err, &invalid):
		return errors.E(errors.Encoding, err)
	default:
		return errors.E(errors.Transport, err)
	}
}
