// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/btcsuite/btclog"

// log is the package-wide logger, disabled by default until the caller
// wires in a real backend via UseLogger. Consensus-critical code never
// depends on what log does or doesn't do; only the non-consensus
// LogChainStabilityMetrics diagnostic in stability.go emits through it.
var log = btclog.Disabled

// UseLogger sets the package-wide logger. It must be called before any
// diagnostic function in this package is invoked from a concurrent
// context.
func UseLogger(logger btclog.Logger) {
	log = logger
}
