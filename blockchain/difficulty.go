// Copyright (c) 2009-2010 Satoshi Nakamoto
// Copyright (c) 2009-2019 The Bitcoin Core developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
)

// difficultyAdjustmentInterval is the legacy algorithm's retarget period in
// blocks.
func difficultyAdjustmentInterval(params *chaincfg.Params) int64 {
	return params.TargetTimespan / params.TargetTimePerBlock
}

// averagingWindowTimespan is the new algorithm's ideal window duration.
func averagingWindowTimespan(params *chaincfg.Params) int64 {
	return params.AveragingWindow * params.PostBlossomTargetSpacing
}

func minActualTimespan(params *chaincfg.Params) int64 {
	w := averagingWindowTimespan(params)
	return w * (100 - params.MaxAdjustUp) / 100
}

func maxActualTimespan(params *chaincfg.Params) int64 {
	w := averagingWindowTimespan(params)
	return w * (100 + params.MaxAdjustDown) / 100
}

// NextWorkRequired computes the difficulty bits the block following last
// must carry, given the timestamp newBlockTime that candidate block
// claims. last is nil when the candidate is the genesis block itself. It cannot fail —
// every branch below returns a value, never an error, exactly mirroring
// GetNextWorkRequired.
func NextWorkRequired(last *BlockNode, newBlockTime int64, params *chaincfg.Params) uint32 {
	powLimitBits := BigToCompact(params.PowLimit)
	powMinBits := BigToCompact(params.PowNewLimit)

	// Historical one-off: fix the difficulty for a short band of blocks
	// that would otherwise retarget incorrectly during the chain's early
	// history. Reproduced exactly; see DESIGN.md.
	if last != nil && last.Height >= 122291 && last.Height <= 122310 {
		return powMinBits
	}

	if last != nil && last.Height >= params.NewPowDiffHeight {
		return nextWorkRequiredNew(last, newBlockTime, params)
	}

	if last == nil {
		return powLimitBits
	}

	if last.Height >= 112266 && last.Height <= 112300 {
		return powLimitBits
	}
	if last.Height >= 112301 && last.Height <= 112401 {
		return powMinBits
	}

	interval := difficultyAdjustmentInterval(params)
	if (int64(last.Height)+1)%interval != 0 {
		if params.PowAllowMinDifficultyBlocks {
			if newBlockTime > last.Timestamp+params.TargetTimePerBlock*2 {
				return powLimitBits
			}
			node := last
			for node.Parent != nil && int64(node.Height)%interval != 0 && node.Bits == powLimitBits {
				node = node.Parent
			}
			return node.Bits
		}
		return last.Bits
	}

	heightFirst := last.Height - int32(interval-1)
	firstNode := ancestorByHeight(last, heightFirst)
	return calculateNextWorkRequiredLegacy(last, firstNode.Timestamp, params)
}

// calculateNextWorkRequiredLegacy is the original Bitcoin retarget formula:
// scale the previous target by the ratio of actual to expected timespan,
// clamped to a 4x swing in either direction.
func calculateNextWorkRequiredLegacy(last *BlockNode, firstBlockTime int64, params *chaincfg.Params) uint32 {
	if params.PowNoRetargeting {
		return last.Bits
	}

	actualTimespan := last.Timestamp - firstBlockTime
	minSpan := params.TargetTimespan / params.RetargetAdjustmentFactor
	maxSpan := params.TargetTimespan * params.RetargetAdjustmentFactor
	if actualTimespan < minSpan {
		actualTimespan = minSpan
	}
	if actualTimespan > maxSpan {
		actualTimespan = maxSpan
	}

	newTarget := CompactToBig(last.Bits)
	newTarget.Mul(newTarget, big.NewInt(actualTimespan))
	newTarget.Div(newTarget, big.NewInt(params.TargetTimespan))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}

	return BigToCompact(newTarget)
}

// nextWorkRequiredNew computes the next target under the averaging-window
// algorithm, including every height-gated emergency rule the reference
// client accumulated over time. The emergency bands below are deliberately
// NOT unified into one clean branch: heights in [127928, HardForkHeight)
// must keep reproducing the historical bug where the emergency path always
// returns instead of falling through to the averaging calculation, and
// fixing that would change validation outcomes for blocks already on the
// chain. See DESIGN.md for why this stays as-is.
func nextWorkRequiredNew(last *BlockNode, newBlockTime int64, params *chaincfg.Params) uint32 {
	powLimitBits := BigToCompact(params.PowLimit)
	powMinBits := BigToCompact(params.PowNewLimit)
	powMaxBits := BigToCompact(params.PowMaxLimit)
	powMidBits := BigToCompact(params.PowDinLimit)

	if last == nil {
		return powLimitBits
	}
	if params.PowNoRetargeting {
		return last.Bits
	}
	if params.AveragingWindow <= 0 || params.PostBlossomTargetSpacing <= 0 {
		return powMinBits
	}

	spacing := params.PostBlossomTargetSpacing

	if last.Height < 126800 && newBlockTime > last.Timestamp+spacing*6 {
		return powMinBits
	}

	if last.Height >= 127464 && last.Height <= 127927 {
		timeDiff := newBlockTime - last.Timestamp
		lastTarget := CompactToBig(last.Bits)
		maxTarget := params.PowMaxLimit

		switch {
		case timeDiff > spacing*8:
			return powMaxBits
		case timeDiff > spacing*6:
			lastTarget.Mul(lastTarget, big.NewInt(100))
			lastTarget.Div(lastTarget, big.NewInt(35))
		case timeDiff > spacing*3:
			lastTarget.Mul(lastTarget, big.NewInt(100))
			lastTarget.Div(lastTarget, big.NewInt(50))
		}

		if lastTarget.Cmp(maxTarget) > 0 {
			return powMaxBits
		}
		return BigToCompact(lastTarget)
	}

	emergencyRuleHeight := int32(127928)
	if params.PowAllowMinDifficultyBlocks {
		emergencyRuleHeight = params.NewPowDiffHeight
	}

	if last.Height >= emergencyRuleHeight {
		timeDiff := newBlockTime - last.Timestamp
		lastTarget := CompactToBig(last.Bits)
		maxTarget := params.PowDinLimit

		if last.Height < params.HardForkHeight {
			switch {
			case timeDiff > spacing*8:
				return powMidBits
			case timeDiff > spacing*6:
				lastTarget.Mul(lastTarget, big.NewInt(100))
				lastTarget.Div(lastTarget, big.NewInt(35))
			case timeDiff > spacing*3:
				lastTarget.Mul(lastTarget, big.NewInt(100))
				lastTarget.Div(lastTarget, big.NewInt(50))
			}

			if lastTarget.Cmp(maxTarget) > 0 {
				return powMidBits
			}
			return BigToCompact(lastTarget)
		}

		if timeDiff < 120 {
			node := last
			var totalTime int64
			count := 0
			for i := int64(0); i < params.AveragingWindow && node != nil && node.Parent != nil; i++ {
				totalTime += node.Timestamp - node.Parent.Timestamp
				node = node.Parent
				count++
			}
			if count > 0 {
				avgBlockTime := totalTime / int64(count)
				if avgBlockTime < 300 {
					fastTarget := CompactToBig(last.Bits)
					fastTarget.Div(fastTarget, big.NewInt(2))
					return BigToCompact(fastTarget)
				}
			}
		}

		switch {
		case timeDiff > spacing*8:
			return powMidBits
		case timeDiff > spacing*6:
			lastTarget.Mul(lastTarget, big.NewInt(100))
			lastTarget.Div(lastTarget, big.NewInt(35))
			if lastTarget.Cmp(maxTarget) > 0 {
				return powMidBits
			}
			return BigToCompact(lastTarget)
		case timeDiff > spacing*4:
			lastTarget.Mul(lastTarget, big.NewInt(100))
			lastTarget.Div(lastTarget, big.NewInt(25))
			if lastTarget.Cmp(maxTarget) > 0 {
				return powMidBits
			}
			return BigToCompact(lastTarget)
		case timeDiff > spacing*3:
			lastTarget.Mul(lastTarget, big.NewInt(100))
			lastTarget.Div(lastTarget, big.NewInt(50))
			if lastTarget.Cmp(maxTarget) > 0 {
				return powMidBits
			}
			return BigToCompact(lastTarget)
		}
		// No emergency condition met: fall through to the averaging
		// calculation below.
	}

	node := last
	total := big.NewInt(0)
	for i := int64(0); node != nil && i < params.AveragingWindow; i++ {
		total.Add(total, CompactToBig(node.Bits))
		node = node.Parent
	}
	if node == nil {
		// Ran out of ancestors before completing a full averaging window.
		return powMinBits
	}

	avg := new(big.Int).Div(total, big.NewInt(params.AveragingWindow))

	return calculateNextWorkRequiredNew(avg, node.Timestamp, last.Timestamp, params)
}

// calculateNextWorkRequiredNew retargets the average target avg by the
// dampened ratio of actual to ideal averaging-window timespan.
func calculateNextWorkRequiredNew(avg *big.Int, firstBlockTime, lastBlockTime int64, params *chaincfg.Params) uint32 {
	windowSpan := averagingWindowTimespan(params)
	minSpan := minActualTimespan(params)
	maxSpan := maxActualTimespan(params)

	if windowSpan <= 0 {
		return BigToCompact(params.PowNewLimit)
	}

	actualTimespan := lastBlockTime - firstBlockTime
	actualTimespan = windowSpan + (actualTimespan-windowSpan)/4

	if actualTimespan < minSpan {
		actualTimespan = minSpan
	}
	if actualTimespan > maxSpan {
		actualTimespan = maxSpan
	}

	newTarget := new(big.Int).Set(avg)
	newTarget.Div(newTarget, big.NewInt(windowSpan))
	newTarget.Mul(newTarget, big.NewInt(actualTimespan))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}

	return BigToCompact(newTarget)
}

// PermittedDifficultyTransition reports whether moving from oldBits to
// newBits at the given height is a transition the retarget rules could
// have produced, without recomputing the exact expected value. height is
// the height of the block that carries newBits.
func PermittedDifficultyTransition(params *chaincfg.Params, height int64, oldBits, newBits uint32) bool {
	if params.PowAllowMinDifficultyBlocks {
		return true
	}

	if height >= int64(params.NewPowDiffHeight) {
		powLimit := params.PowLimit
		observed := CompactToBig(newBits)

		maxTarget := CompactToBig(oldBits)
		maxTarget.Mul(maxTarget, big.NewInt(100+params.MaxAdjustDown))
		maxTarget.Div(maxTarget, big.NewInt(100))
		if maxTarget.Cmp(powLimit) > 0 {
			maxTarget.Set(powLimit)
		}

		minTarget := CompactToBig(oldBits)
		if params.MaxAdjustUp >= 100 {
			minTarget.Div(minTarget, big.NewInt(100))
		} else {
			minTarget.Mul(minTarget, big.NewInt(100-params.MaxAdjustUp))
			minTarget.Div(minTarget, big.NewInt(100))
		}

		if observed.Cmp(maxTarget) > 0 || observed.Cmp(minTarget) < 0 {
			return false
		}
		return true
	}

	interval := difficultyAdjustmentInterval(params)
	if height%interval == 0 {
		smallestSpan := params.TargetTimespan / params.RetargetAdjustmentFactor
		largestSpan := params.TargetTimespan * params.RetargetAdjustmentFactor
		powLimit := params.PowLimit
		observed := CompactToBig(newBits)

		largest := CompactToBig(oldBits)
		largest.Mul(largest, big.NewInt(largestSpan))
		largest.Div(largest, big.NewInt(params.TargetTimespan))
		if largest.Cmp(powLimit) > 0 {
			largest.Set(powLimit)
		}
		maxNewTarget := CompactToBig(BigToCompact(largest))
		if maxNewTarget.Cmp(observed) < 0 {
			return false
		}

		smallest := CompactToBig(oldBits)
		smallest.Mul(smallest, big.NewInt(smallestSpan))
		smallest.Div(smallest, big.NewInt(params.TargetTimespan))
		if smallest.Cmp(powLimit) > 0 {
			smallest.Set(powLimit)
		}
		minNewTarget := CompactToBig(BigToCompact(smallest))
		if minNewTarget.Cmp(observed) > 0 {
			return false
		}
		return true
	}

	return oldBits == newBits
}

// CheckDifficultyTransition is the cheap bound check a headers-first sync
// runs before the full ancestor chain needed for NextWorkRequired's exact
// recomputation is available. It is strictly weaker than comparing against
// NextWorkRequired's result and must never replace that comparison once
// the chain is available; the historical bug-preservation bands in
// nextWorkRequiredNew fall outside the bound this checks and are callers'
// responsibility to special-case if they use this path that far back.
func CheckDifficultyTransition(params *chaincfg.Params, height int64, oldBits, newBits uint32) error {
	if !PermittedDifficultyTransition(params, height, oldBits, newBits) {
		return ruleError(ErrDifficultyTransitionTooLarge,
			"difficulty transition exceeds what the retarget rules permit")
	}
	return nil
}

func ancestorByHeight(node *BlockNode, height int32) *BlockNode {
	n := node
	for n != nil && n.Height > height {
		n = n.Parent
	}
	return n
}

