// Copyright (c) 2024 The Bitcoin Core developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
)

func stabilityTestParams() *chaincfg.Params {
	return &chaincfg.Params{
		TargetTimePerBlock:       150,
		PostBlossomTargetSpacing: 150,
		NewPowDiffHeight:         1000,
	}
}

// TestIsChainStuckNil ensures a nil tip is never reported stuck.
func TestIsChainStuckNil(t *testing.T) {
	if IsChainStuck(nil, 0, stabilityTestParams()) {
		t.Error("IsChainStuck(nil) = true, want false")
	}
}

// TestIsChainStuckPreAndPostAlgorithm ensures the multiplier used differs
// before and after NewPowDiffHeight.
func TestIsChainStuckPreAndPostAlgorithm(t *testing.T) {
	params := stabilityTestParams()

	legacyTip := &BlockNode{Height: 500, Timestamp: 0}
	if IsChainStuck(legacyTip, params.TargetTimePerBlock*3+1, params) {
		t.Error("legacy-era tip reported stuck at 3x spacing, want the 4x threshold")
	}
	if !IsChainStuck(legacyTip, params.TargetTimePerBlock*4+1, params) {
		t.Error("legacy-era tip not reported stuck past 4x spacing")
	}

	newTip := &BlockNode{Height: 2000, Timestamp: 0}
	if !IsChainStuck(newTip, params.TargetTimePerBlock*3+1, params) {
		t.Error("new-algorithm tip not reported stuck past 3x spacing")
	}
}

// TestDetectPotentialReorgAttackRequiresHeight ensures the detector declines
// to run before enough history exists.
func TestDetectPotentialReorgAttackRequiresHeight(t *testing.T) {
	tip := &BlockNode{Height: 50}
	if DetectPotentialReorgAttack(tip, stabilityTestParams()) {
		t.Error("DetectPotentialReorgAttack fired below the minimum height")
	}
}

// TestDetectPotentialReorgAttackFlagsRapidBlocks builds a chain where most
// of the last window's blocks arrive far faster than the target spacing and
// checks the detector flags it.
func TestDetectPotentialReorgAttackFlagsRapidBlocks(t *testing.T) {
	params := stabilityTestParams()

	var tip *BlockNode
	ts := int64(0)
	for h := int32(0); h <= 150; h++ {
		tip = &BlockNode{Height: h, Timestamp: ts, Parent: tip}
		ts += 1 // far faster than TargetTimePerBlock=150
	}

	if !DetectPotentialReorgAttack(tip, params) {
		t.Error("DetectPotentialReorgAttack did not flag a run of rapid blocks")
	}
}

// TestDetectPotentialReorgAttackHealthyChain ensures a normally-paced chain
// is not flagged.
func TestDetectPotentialReorgAttackHealthyChain(t *testing.T) {
	params := stabilityTestParams()

	var tip *BlockNode
	ts := int64(0)
	for h := int32(0); h <= 150; h++ {
		tip = &BlockNode{Height: h, Timestamp: ts, Parent: tip}
		ts += params.TargetTimePerBlock
	}

	if DetectPotentialReorgAttack(tip, params) {
		t.Error("DetectPotentialReorgAttack flagged a healthily-paced chain")
	}
}

// TestEstimateNetworkHashRateZeroCases ensures degenerate inputs return 0
// rather than panicking on a division by zero.
func TestEstimateNetworkHashRateZeroCases(t *testing.T) {
	if got := EstimateNetworkHashRate(nil, 10); got != 0 {
		t.Errorf("EstimateNetworkHashRate(nil) = %v, want 0", got)
	}

	shallow := &BlockNode{Height: 2}
	if got := EstimateNetworkHashRate(shallow, 10); got != 0 {
		t.Errorf("EstimateNetworkHashRate with too little history = %v, want 0", got)
	}

	if got := EstimateNetworkHashRate(&BlockNode{Height: 5}, 0); got != 0 {
		t.Errorf("EstimateNetworkHashRate with nBlocks=0 = %v, want 0", got)
	}
}

// TestEstimateNetworkHashRatePositive ensures a well-formed chain with
// distinct timestamps produces a positive estimate.
func TestEstimateNetworkHashRatePositive(t *testing.T) {
	bits := BigToCompact(new(big.Int).Lsh(big.NewInt(1), 230))

	var tip *BlockNode
	ts := int64(0)
	for h := int32(0); h <= 20; h++ {
		tip = &BlockNode{Height: h, Timestamp: ts, Bits: bits, Parent: tip}
		ts += 150
	}

	got := EstimateNetworkHashRate(tip, 10)
	if got <= 0 {
		t.Errorf("EstimateNetworkHashRate = %v, want positive", got)
	}
}

// TestShouldActivateEmergencyDifficulty ensures the check only applies at
// or after NewPowDiffHeight and only once the tip is stale enough.
func TestShouldActivateEmergencyDifficulty(t *testing.T) {
	params := stabilityTestParams()

	legacyTip := &BlockNode{Height: 500, Timestamp: 0}
	if ShouldActivateEmergencyDifficulty(legacyTip, params.TargetTimePerBlock*10, params) {
		t.Error("ShouldActivateEmergencyDifficulty fired before NewPowDiffHeight")
	}

	newTip := &BlockNode{Height: 2000, Timestamp: 0}
	if ShouldActivateEmergencyDifficulty(newTip, params.TargetTimePerBlock*6, params) {
		t.Error("ShouldActivateEmergencyDifficulty fired exactly at the 6x threshold")
	}
	if !ShouldActivateEmergencyDifficulty(newTip, params.TargetTimePerBlock*6+1, params) {
		t.Error("ShouldActivateEmergencyDifficulty did not fire past the 6x threshold")
	}
}

// TestLogChainStabilityMetricsNilTip ensures the logging helper tolerates a
// nil tip without panicking.
func TestLogChainStabilityMetricsNilTip(t *testing.T) {
	LogChainStabilityMetrics(nil, 0, stabilityTestParams())
}
