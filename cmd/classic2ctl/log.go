// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Bitcoinclassicxbt/classic2/blockchain"
	"github.com/Bitcoinclassicxbt/classic2/rpc"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output
// and the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})

	log = backendLog.Logger("CTLM")

	logRotator *rotator.Rotator
)

func init() {
	blockchain.UseLogger(backendLog.Logger("CHAI"))
	rpc.UseLogger(backendLog.Logger("RPCM"))
}

// initLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory. It must be called before
// the package-global log rotator is used.
func initLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		os.Stderr.WriteString("failed to create log directory: " + err.Error() + "\n")
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		os.Stderr.WriteString("failed to create file rotator: " + err.Error() + "\n")
		os.Exit(1)
	}
	logRotator = r
}

// setLogLevel sets the logging level for the classic2ctl (CTLM) logger
// only; the blockchain (CHAI) and rpc (RPCM) subsystem loggers created in
// init keep the backend's default level.
func setLogLevel(levelStr string) {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		level = btclog.LevelInfo
	}
	log.SetLevel(level)
}

var _ io.Writer = logWriter{}
