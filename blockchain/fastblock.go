// Copyright (c) 2024 The Bitcoin Core developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/Bitcoinclassicxbt/classic2/chaincfg"

// minBlockSpacing is the default minimum spacing, in seconds, a relay
// policy guard applies when the active window doesn't otherwise override
// it. This is a relay-policy default, not a consensus constant.
const minBlockSpacing = 120

// fastBlockWindowActive reports whether height falls within the window in
// which the fast-block relay guard applies at all.
func fastBlockWindowActive(height int32, params *chaincfg.Params) bool {
	if params.MinBlockSpacingStartHeight == 0 && params.NoMinSpacingActivationHeight == 0 {
		return false
	}
	if height < params.MinBlockSpacingStartHeight {
		return false
	}
	if params.NoMinSpacingActivationHeight > params.MinBlockSpacingStartHeight &&
		height >= params.NoMinSpacingActivationHeight {
		return false
	}
	return true
}

// IsFastBlock reports whether blockTime arrived suspiciously soon after
// prev, within the window where the guard is active. This never rejects a
// block outright — it is advice to the relay layer, not a consensus rule;
// PermittedDifficultyTransition and NextWorkRequired never call it.
func IsFastBlock(blockTime int64, prev *BlockNode, params *chaincfg.Params) bool {
	if prev == nil || !fastBlockWindowActive(prev.Height+1, params) {
		return false
	}
	return blockTime-prev.Timestamp < minBlockSpacing
}

// FastBlockScore scores how far below the minimum spacing a block arrived,
// from 0 (at or above the minimum) to 100 (arrived at or before prev, i.e.
// a non-increasing or invalid timestamp).
func FastBlockScore(blockTime int64, prev *BlockNode, params *chaincfg.Params) int {
	if !IsFastBlock(blockTime, prev, params) {
		return 0
	}

	timeDiff := blockTime - prev.Timestamp
	if timeDiff <= 0 {
		return 100
	}

	score := (minBlockSpacing - timeDiff) * 100 / minBlockSpacing
	if score > 100 {
		score = 100
	}
	return int(score)
}

// ShouldRelayBlock reports whether a block this fast should be relayed
// immediately. Blocks that score above 75 are held back rather than
// relayed right away, matching the reference client's hard-coded cutoff.
func ShouldRelayBlock(blockTime int64, prev *BlockNode, params *chaincfg.Params) bool {
	return FastBlockScore(blockTime, prev, params) <= 75
}

// RelayDelay returns how long, in seconds, relay of a fast block should be
// held back: proportional to its FastBlockScore, capped at 30 seconds.
func RelayDelay(blockTime int64, prev *BlockNode, params *chaincfg.Params) int {
	score := FastBlockScore(blockTime, prev, params)
	if score == 0 {
		return 0
	}
	return (score * 30) / 100
}
