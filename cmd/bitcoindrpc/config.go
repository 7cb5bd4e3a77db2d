// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/simplerpc/simplerpc/internal/cfgutil"
	"github.com/simplerpc/simplerpc/internal/loggers"
	"github.com/simplerpc/simplerpc/rpc/client/bitcoind"
	"github.com/simplerpc/simplerpc/rpc/transport"
	"github.com/simplerpc/simplerpc/version"
)

const (
	defaultConfigFilename = "bitcoindrpc.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "bitcoindrpc.log"
	defaultLogSize        = 10 * 1024 // KiB
	defaultNetwork        = "mainnet"
	defaultTransport      = "http"
)

var (
	bitcoindDataDir   = btcutil.AppDataDir("bitcoin", false)
	defaultAppDataDir = btcutil.AppDataDir("bitcoindrpc", false)
	defaultConfigFile = filepath.Join(defaultAppDataDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultAppDataDir, defaultLogDirname)
)

// networks maps the --network choices to the default RPC port and the
// subdirectory of the bitcoind data directory holding the cookie file.
var networks = map[string]struct {
	port      string
	cookieDir string
}{
	"mainnet": {"8332", ""},
	"testnet": {"18332", "testnet3"},
	"signet":  {"38332", "signet"},
	"regtest": {"18443", "regtest"},
}

type config struct {
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir      string `long:"logdir" description:"Directory to log output (empty disables the log file)"`

	// RPC client options
	Network         string        `long:"network" description:"Network of the server, used for default ports and cookie paths" choice:"mainnet" choice:"testnet" choice:"signet" choice:"regtest"`
	RPCURL          string        `short:"c" long:"rpcurl" description:"URL or host[:port][/path] of the bitcoind RPC server"`
	RPCUser         string        `short:"u" long:"rpcuser" description:"RPC username"`
	RPCPass         string        `short:"P" long:"rpcpass" default-mask:"-" description:"RPC password (prompted for when --rpcuser is set without a password)"`
	RPCCookie       string        `long:"rpccookie" description:"Path to the bitcoind .cookie file (default: the network's cookie in the bitcoind data directory when no user is set)"`
	Timeout         time.Duration `long:"timeout" description:"Per-request timeout"`
	ProtocolVersion int           `long:"protocolversion" description:"Server major version whose result shapes are decoded {28, 29}"`
	DetectVersion   bool          `long:"detectversion" description:"Query getnetworkinfo and select the result shapes of the server version"`
	Transport       string        `long:"transport" description:"RPC transport" choice:"http" choice:"ws" choice:"btcd"`
	CAFile          string        `long:"cafile" description:"File containing root certificates to authenticate TLS connections"`
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(loggers.Subsystems))
	for subsysID := range loggers.Subsystems {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsytems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		loggers.SetLogLevels(debugLevel)
		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		subsysID, logLevel, ok := strings.Cut(logLevelPair, "=")
		if !ok {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		if _, exists := loggers.Subsystems[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsytems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		loggers.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

func defaultConfig() config {
	return config{
		ConfigFile:      defaultConfigFile,
		DebugLevel:      defaultLogLevel,
		LogDir:          defaultLogDir,
		Network:         defaultNetwork,
		Timeout:         transport.DefaultTimeout,
		ProtocolVersion: bitcoind.DefaultProtocolVersion,
		Transport:       defaultTransport,
	}
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence.  The remaining positional
// arguments name the method and its parameters.
func loadConfig(args []string, stdout io.Writer) (*config, []string, error) {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	preParser.Usage = "[OPTIONS] <method> [args...]"
	_, err := preParser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if preCfg.ShowVersion {
		fmt.Fprintf(stdout, "%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return &preCfg, nil, nil
	}

	// Load additional config from file.  A missing default config file is
	// not an error.
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	configFilePath := cfgutil.CleanAndExpandPath(preCfg.ConfigFile)
	err = flags.NewIniParser(parser).ParseFile(configFilePath)
	if err != nil {
		_, isPathErr := err.(*os.PathError)
		if !isPathErr || preCfg.ConfigFile != defaultConfigFile {
			return nil, nil, fmt.Errorf("error parsing config file %s: %w",
				configFilePath, err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Fprintln(stdout, "Supported subsystems", supportedSubsystems())
		return &cfg, nil, nil
	}
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, err
	}

	if cfg.Timeout <= 0 {
		return nil, nil, fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	switch cfg.ProtocolVersion {
	case 28, 29:
	default:
		return nil, nil, fmt.Errorf("unsupported --protocolversion %d", cfg.ProtocolVersion)
	}

	net := networks[cfg.Network]
	if cfg.RPCURL == "" {
		cfg.RPCURL = "localhost"
	}
	cfg.RPCURL, err = cfgutil.NormalizeURL(cfg.RPCURL, net.port)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --rpcurl %q: %w", cfg.RPCURL, err)
	}

	if cfg.RPCUser != "" && cfg.RPCCookie != "" {
		return nil, nil, fmt.Errorf("--rpcuser and --rpccookie may not be used together")
	}
	if cfg.RPCUser == "" && cfg.RPCCookie == "" {
		cfg.RPCCookie = filepath.Join(bitcoindDataDir, net.cookieDir, ".cookie")
	}
	if cfg.RPCCookie != "" {
		cfg.RPCCookie = cfgutil.CleanAndExpandPath(cfg.RPCCookie)
	}
	if cfg.CAFile != "" {
		cfg.CAFile = cfgutil.CleanAndExpandPath(cfg.CAFile)
	}
	if cfg.LogDir != "" {
		cfg.LogDir = cfgutil.CleanAndExpandPath(cfg.LogDir)
	}

	return &cfg, remainingArgs, nil
}
