// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import "github.com/btcsuite/btclog"

// log is the package-wide logger, disabled by default until a caller
// installs one via UseLogger, matching the convention the rest of this
// module's packages use.
var log = btclog.Disabled

// UseLogger sets the logger used by package rpc. It must be called
// before any AuxpowMiner method if log output is wanted.
func UseLogger(logger btclog.Logger) {
	log = logger
}
