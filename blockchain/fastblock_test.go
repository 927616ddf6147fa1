// Copyright (c) 2024 The Bitcoin Core developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
)

func spacingTestParams() *chaincfg.Params {
	return &chaincfg.Params{
		MinBlockSpacingStartHeight:   100,
		NoMinSpacingActivationHeight: 200,
	}
}

// TestIsFastBlockOutsideWindow ensures the guard never fires before the
// activation height or at/after deactivation.
func TestIsFastBlockOutsideWindow(t *testing.T) {
	params := spacingTestParams()
	prev := &BlockNode{Height: 50, Timestamp: 1000}
	if IsFastBlock(1001, prev, params) {
		t.Error("IsFastBlock fired below MinBlockSpacingStartHeight")
	}

	prevAtDeactivation := &BlockNode{Height: 199, Timestamp: 1000}
	if IsFastBlock(1001, prevAtDeactivation, params) {
		t.Error("IsFastBlock fired at the deactivation height")
	}
}

// TestIsFastBlockInsideWindow ensures the guard fires for a block that
// arrives faster than minBlockSpacing inside the active window.
func TestIsFastBlockInsideWindow(t *testing.T) {
	params := spacingTestParams()
	prev := &BlockNode{Height: 150, Timestamp: 1000}

	if !IsFastBlock(1000+minBlockSpacing-1, prev, params) {
		t.Error("IsFastBlock did not fire for a block below minBlockSpacing")
	}
	if IsFastBlock(1000+minBlockSpacing, prev, params) {
		t.Error("IsFastBlock fired for a block exactly at minBlockSpacing")
	}
}

// TestIsFastBlockNilPrev ensures a nil predecessor never panics.
func TestIsFastBlockNilPrev(t *testing.T) {
	if IsFastBlock(1000, nil, spacingTestParams()) {
		t.Error("IsFastBlock(nil) = true, want false")
	}
}

// TestFastBlockScoreRange ensures the score is 0 outside the guard, 100 for
// a non-increasing timestamp, and strictly between for everything else.
func TestFastBlockScoreRange(t *testing.T) {
	params := spacingTestParams()
	prev := &BlockNode{Height: 150, Timestamp: 1000}

	if got := FastBlockScore(1000+minBlockSpacing, prev, params); got != 0 {
		t.Errorf("score at minBlockSpacing = %d, want 0", got)
	}
	if got := FastBlockScore(999, prev, params); got != 100 {
		t.Errorf("score for non-increasing timestamp = %d, want 100", got)
	}
	if got := FastBlockScore(1000+minBlockSpacing/2, prev, params); got <= 0 || got >= 100 {
		t.Errorf("score for half-spacing arrival = %d, want strictly between 0 and 100", got)
	}
}

// TestShouldRelayBlockCutoff ensures the 75-point cutoff gates relay.
func TestShouldRelayBlockCutoff(t *testing.T) {
	params := spacingTestParams()
	prev := &BlockNode{Height: 150, Timestamp: 1000}

	// Arriving at prev's own timestamp scores 100, above the cutoff.
	if ShouldRelayBlock(1000, prev, params) {
		t.Error("ShouldRelayBlock approved a score-100 arrival")
	}
	if !ShouldRelayBlock(1000+minBlockSpacing, prev, params) {
		t.Error("ShouldRelayBlock rejected a score-0 arrival")
	}
}

// TestRelayDelayScalesWithScore ensures a worse score produces a longer
// delay, capped at 30 seconds.
func TestRelayDelayScalesWithScore(t *testing.T) {
	params := spacingTestParams()
	prev := &BlockNode{Height: 150, Timestamp: 1000}

	if got := RelayDelay(1000+minBlockSpacing, prev, params); got != 0 {
		t.Errorf("RelayDelay at score 0 = %d, want 0", got)
	}
	if got := RelayDelay(1000, prev, params); got != 30 {
		t.Errorf("RelayDelay at score 100 = %d, want 30", got)
	}
}
