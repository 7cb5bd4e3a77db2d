// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command bitcoindrpc performs a single bitcoind JSON-RPC call and writes the
// typed result to standard output as indented JSON.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/rpcclient"
	flags "github.com/jessevdk/go-flags"
	"github.com/jrick/wsrpc/v2"
	"github.com/simplerpc/simplerpc/internal/loggers"
	"github.com/simplerpc/simplerpc/rpc/client/bitcoind"
	"github.com/simplerpc/simplerpc/rpc/transport"
	"golang.org/x/crypto/ssh/terminal"
)

var log = loggers.MainLog

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Stderr.Write([]byte{'\n'})
	loggers.CloseLogRotator()
	os.Exit(1)
}

func promptSecret(what string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", what)
	fd := int(os.Stdin.Fd())
	input, err := terminal.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(input), nil
}

// tlsConfig returns the TLS configuration trusting the certificates of
// caFile, or nil when no file is configured.
func tlsConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// credentials returns the configured auth method, prompting for a password
// when only a user is configured.
func credentials(cfg *config) (bitcoind.Auth, error) {
	if cfg.RPCCookie != "" {
		return bitcoind.CookieFile(cfg.RPCCookie), nil
	}
	pass := cfg.RPCPass
	if pass == "" {
		secret, err := promptSecret("RPC password")
		if err != nil {
			return nil, fmt.Errorf("failed to read RPC password: %w", err)
		}
		pass = secret
	}
	return bitcoind.UserPass{User: cfg.RPCUser, Pass: pass}, nil
}

// websocketURL rewrites an http(s) URL to the matching ws(s) URL of the
// server's /ws endpoint.
func websocketURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// dial creates a client over the configured transport.  The returned
// function releases the transport's connections.
func dial(ctx context.Context, cfg *config) (*bitcoind.Client, func(), error) {
	auth, err := credentials(cfg)
	if err != nil {
		return nil, nil, err
	}
	tc, err := tlsConfig(cfg.CAFile)
	if err != nil {
		return nil, nil, err
	}
	opts := []bitcoind.Option{bitcoind.WithProtocolVersion(cfg.ProtocolVersion)}

	switch cfg.Transport {
	case "ws":
		user, pass, err := bitcoind.ResolveAuth(auth)
		if err != nil {
			return nil, nil, err
		}
		addr, err := websocketURL(cfg.RPCURL)
		if err != nil {
			return nil, nil, err
		}
		wsopts := []wsrpc.Option{wsrpc.WithBasicAuth(user, pass)}
		if tc != nil {
			wsopts = append(wsopts, wsrpc.WithTLSConfig(tc))
		}
		log.Debugf("Dialing websocket %s", addr)
		ws, err := wsrpc.Dial(ctx, addr, wsopts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
		}
		c, err := bitcoind.NewWithCaller(ws, opts...)
		if err != nil {
			ws.Close()
			return nil, nil, err
		}
		return c, func() { ws.Close() }, nil

	case "btcd":
		user, pass, err := bitcoind.ResolveAuth(auth)
		if err != nil {
			return nil, nil, err
		}
		u, err := url.Parse(cfg.RPCURL)
		if err != nil {
			return nil, nil, err
		}
		connCfg := &rpcclient.ConnConfig{
			Host:         u.Host + u.Path,
			User:         user,
			Pass:         pass,
			HTTPPostMode: true,
			DisableTLS:   u.Scheme == "http",
		}
		if cfg.CAFile != "" {
			connCfg.Certificates, err = os.ReadFile(cfg.CAFile)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read CA file: %w", err)
			}
		}
		rc, err := rpcclient.New(connCfg, nil)
		if err != nil {
			return nil, nil, err
		}
		c, err := bitcoind.NewWithRequester(bitcoind.RPCClientRequester(rc), opts...)
		if err != nil {
			rc.Shutdown()
			return nil, nil, err
		}
		return c, rc.Shutdown, nil

	default:
		topts := []transport.Option{transport.WithTimeout(cfg.Timeout)}
		if tc != nil {
			topts = append(topts, transport.WithHTTPClient(&http.Client{
				Transport: &http.Transport{TLSClientConfig: tc},
			}))
		}
		opts = append(opts, bitcoind.WithTransportOptions(topts...))
		c, err := bitcoind.New(cfg.RPCURL, auth, opts...)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}
}

func run(ctx context.Context, cfg *config, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no method specified; methods: %s", strings.Join(methodNames(), " "))
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown method %q; methods: %s", args[0], strings.Join(methodNames(), " "))
	}
	params := args[1:]
	if len(params) < cmd.minArgs || (cmd.maxArgs >= 0 && len(params) > cmd.maxArgs) {
		return fmt.Errorf("usage: %s %s", args[0], cmd.usage)
	}

	c, closeClient, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	// The http transport applies the timeout per request itself; the
	// others rely on the context.
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if cfg.DetectVersion {
		c, err = c.DetectProtocolVersion(ctx)
		if err != nil {
			return err
		}
	}
	log.Debugf("Calling %s with protocol version %d", args[0], c.ProtocolVersion())

	res, err := cmd.handler(ctx, c, params)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = stdout.Write(out)
	return err
}

func main() {
	cfg, args, err := loadConfig(os.Args[1:], os.Stdout)
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		fatalf("%v", err)
	}
	if cfg.ShowVersion || cfg.DebugLevel == "show" {
		os.Exit(0)
	}

	if cfg.LogDir != "" {
		err := loggers.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename), defaultLogSize)
		if err != nil {
			fatalf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, args, os.Stdout)
	stop()
	if err != nil {
		fatalf("%v", err)
	}
	loggers.CloseLogRotator()
}
