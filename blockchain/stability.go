// Copyright (c) 2024 The Bitcoin Core developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
)

// IsChainStuck reports whether the tip is older than the algorithm-
// appropriate multiple of the target block spacing would allow under
// healthy conditions. now is the caller's current wall-clock time (as a
// unix timestamp), passed in rather than read internally so this stays
// deterministic and testable. This is pure diagnostics — nothing here
// feeds back into NextWorkRequired or header acceptance.
func IsChainStuck(tip *BlockNode, now int64, params *chaincfg.Params) bool {
	if tip == nil {
		return false
	}
	timeSinceTip := now - tip.Timestamp
	if tip.Height < params.NewPowDiffHeight {
		return timeSinceTip > params.TargetTimePerBlock*4
	}
	return timeSinceTip > params.PostBlossomTargetSpacing*3
}

// DetectPotentialReorgAttack looks for a suspicious cluster of
// unusually fast blocks in the last 20 blocks before the tip, which can
// indicate a miner withholding blocks to mine a private fork.
func DetectPotentialReorgAttack(tip *BlockNode, params *chaincfg.Params) bool {
	if tip == nil || tip.Height < 100 {
		return false
	}

	const window = 20
	times := make([]int64, 0, window)
	node := tip
	for i := 0; i < window && node != nil; i++ {
		times = append(times, node.Timestamp)
		node = node.Parent
	}
	if len(times) < 10 {
		return false
	}

	targetSpacing := params.TargetTimePerBlock
	if tip.Height >= params.NewPowDiffHeight {
		targetSpacing = params.PostBlossomTargetSpacing
	}

	rapidBlocks := 0
	for i := 1; i < len(times); i++ {
		timeDiff := times[i-1] - times[i]
		if timeDiff < targetSpacing/3 {
			rapidBlocks++
		}
	}

	return rapidBlocks > len(times)*3/10
}

// EstimateNetworkHashRate derives a rough hash-rate estimate from the
// last nBlocks headers ending at tip. It is an estimate for operators, not
// a consensus quantity: it averages their decoded targets (not their
// work), and scales the compact encoding of that average (rather than the
// average itself) by nBlocks over the elapsed time, mirroring the
// reference client's EstimateNetworkHashRate, bugs and all.
func EstimateNetworkHashRate(tip *BlockNode, nBlocks int) float64 {
	if tip == nil || nBlocks <= 0 || int(tip.Height) < nBlocks {
		return 0
	}

	node := tip
	totalWork := big.NewInt(0)
	for i := 0; i < nBlocks && node.Parent != nil; i++ {
		totalWork.Add(totalWork, CompactToBig(node.Bits))
		node = node.Parent
	}

	timeDiff := tip.Timestamp - node.Timestamp
	if timeDiff <= 0 {
		return 0
	}

	avgWork := new(big.Int).Div(totalWork, big.NewInt(int64(nBlocks)))
	workDouble := float64(BigToCompact(avgWork))
	return workDouble / float64(timeDiff) * float64(nBlocks)
}

// ShouldActivateEmergencyDifficulty reports whether the tip is stale
// enough, under the new algorithm, to warrant a miner-side call to
// activate emergency low-difficulty retargeting.
func ShouldActivateEmergencyDifficulty(tip *BlockNode, now int64, params *chaincfg.Params) bool {
	if tip == nil || tip.Height < params.NewPowDiffHeight {
		return false
	}
	return now-tip.Timestamp > params.PostBlossomTargetSpacing*6
}

// LogChainStabilityMetrics logs a single-line summary of the diagnostics
// above, the Go equivalent of the reference client's periodic
// LogChainStabilityMetrics call.
func LogChainStabilityMetrics(tip *BlockNode, now int64, params *chaincfg.Params) {
	if tip == nil {
		return
	}

	stuck := IsChainStuck(tip, now, params)
	attack := DetectPotentialReorgAttack(tip, params)
	hashRate := EstimateNetworkHashRate(tip, 120)
	emergency := ShouldActivateEmergencyDifficulty(tip, now, params)

	log.Infof("chain stability: height=%d time_since_last=%ds hash_rate=%.2e "+
		"stuck=%t potential_attack=%t emergency_needed=%t",
		tip.Height, now-tip.Timestamp, hashRate, stuck, attack, emergency)
}
