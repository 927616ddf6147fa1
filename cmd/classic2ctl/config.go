// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "classic2ctl.log"
	defaultLogLevel    = "info"
)

var defaultHomeDir = filepath.Join(os.Getenv("HOME"), ".classic2ctl")

// config defines the command-line options classic2ctl accepts. A header is
// supplied entirely on the command line since there is no P2P layer or disk
// store here to pull one from; this binary is a worked illustration of the
// consensus-rule surface, not a node.
type config struct {
	HomeDir    string `short:"A" long:"appdata" description:"Directory to store logs"`
	LogLevel   string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	Network    string `long:"network" description:"Network to validate against" choice:"mainnet" choice:"testnet" choice:"regtest" default:"mainnet"`

	PrevBlock  string `long:"prevblock" description:"Hex-encoded hash of the previous header; omitted for a genesis header"`
	MerkleRoot string `long:"merkleroot" description:"Hex-encoded merkle root" required:"true"`
	Timestamp  int64  `long:"timestamp" description:"Header timestamp, unix seconds" required:"true"`
	Bits       string `long:"bits" description:"Hex-encoded compact difficulty bits, e.g. 1e0fffff" required:"true"`
	Nonce      uint32 `long:"nonce" description:"Header nonce"`
	Version    int32  `long:"version" description:"Header version field" default:"1"`
	Now        int64  `long:"now" description:"Validation-time clock, unix seconds; defaults to the header timestamp"`
}

// loadConfig parses the command line into a config, applying defaults for
// anything left unset.
func loadConfig() (*config, error) {
	cfg := config{
		HomeDir:  defaultHomeDir,
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.Now == 0 {
		cfg.Now = cfg.Timestamp
	}

	if err := os.MkdirAll(cfg.HomeDir, 0700); err != nil {
		return nil, fmt.Errorf("cannot create home directory: %w", err)
	}

	return &cfg, nil
}
