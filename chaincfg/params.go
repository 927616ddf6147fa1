// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2009-2019 The Bitcoin and Namecoin developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the consensus parameters that vary by network:
// difficulty limits, retarget windows, and the height gates at which the
// various emergency difficulty rules and AuxPoW itself activate. It
// deliberately carries none of btcd's chaincfg.Params fields that this
// consensus core has no use for — DNS seeds, checkpoints, BIP9
// deployments, address-encoding magics — since P2P, wallet, and address
// encoding are all out of scope here; see DESIGN.md for the full list of
// what was dropped and why.
package chaincfg

import "math/big"

var bigOne = big.NewInt(1)

// powLimitFromBits builds a maximum-target big.Int of the form 2^bits - 1,
// the same shape btcd's mainPowLimit/regressionPowLimit vars use.
func powLimitFromBits(bits uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(bigOne, bits), bigOne)
}

// Params holds the consensus-critical parameters that differ between
// deployed networks of this chain. It is intentionally immutable once
// constructed by one of the MainNetParams/TestNetParams/RegressionNetParams
// functions below: nothing in the blockchain package ever mutates a Params
// value it was handed.
type Params struct {
	// Name is the human-readable identifier for the network, e.g. "mainnet".
	Name string

	// PowLimit is the highest (easiest) target permitted on this network
	// under the legacy difficulty algorithm.
	PowLimit *big.Int

	// PowLimitBits is PowLimit pre-encoded as compact bits, the value new
	// blocks use before any real retarget has happened.
	PowLimitBits uint32

	// PowNewLimit is the highest target permitted once the averaging-window
	// algorithm (NewPowDiffHeight and above) is active. Kept distinct from
	// PowLimit because the two eras use different limits on this chain.
	PowNewLimit *big.Int

	// PowMaxLimit bounds the easiest target the emergency
	// reduce-difficulty rules of the [127464, 127927] band may relax down
	// to; the later emergency rules are bounded by PowDinLimit instead.
	PowMaxLimit *big.Int

	// PowDinLimit is the floor the "difficulty-in" emergency rule clamps
	// to when the chain has stalled (see blockchain/difficulty.go).
	PowDinLimit *big.Int

	// TargetTimePerBlock is the intended spacing between blocks under the
	// legacy retarget algorithm.
	TargetTimePerBlock int64

	// TargetTimespan is the legacy algorithm's full retarget window
	// (TargetTimePerBlock * blocks-per-window).
	TargetTimespan int64

	// PostBlossomTargetSpacing is the intended spacing between blocks
	// under the new averaging-window algorithm, active from
	// NewPowDiffHeight onward. Kept distinct from TargetTimePerBlock: a
	// network can retune its block time at the same height it switches
	// retarget algorithms, and the two have varied independently in
	// practice.
	PostBlossomTargetSpacing int64

	// AveragingWindow is the number of blocks the new algorithm averages
	// over.
	AveragingWindow int64

	// MaxAdjustDown and MaxAdjustUp bound how far a single retarget under
	// the new algorithm may move the target, expressed as percentages.
	MaxAdjustDown int64
	MaxAdjustUp   int64

	// RetargetAdjustmentFactor bounds the legacy algorithm's per-retarget
	// swing (target may change by at most this factor, in either
	// direction).
	RetargetAdjustmentFactor int64

	// NewPowDiffHeight is the height at which the new averaging-window
	// algorithm replaces the legacy one.
	NewPowDiffHeight int32

	// HardForkHeight ends the deliberately-buggy emergency-difficulty
	// band; see blockchain/difficulty.go for why heights in
	// [127928, HardForkHeight) must keep reproducing the bug.
	HardForkHeight int32

	// AuxpowStartHeight is the first height at which headers are allowed
	// to carry the AuxPoW flag.
	AuxpowStartHeight int32

	// AuxpowChainID is this chain's own chain ID, used both to stamp
	// mined headers and to reject a parent block that (incorrectly)
	// shares our chain ID when StrictChainID is set.
	AuxpowChainID int32

	// StrictChainID requires a merge-mined parent's chain ID to differ
	// from AuxpowChainID.
	StrictChainID bool

	// PowAllowMinDifficultyBlocks permits the testnet-style relaxation
	// that allows a minimum-difficulty block once more than twice
	// TargetTimePerBlock has passed since the last block.
	PowAllowMinDifficultyBlocks bool

	// PowNoRetargeting disables retargeting entirely (regtest).
	PowNoRetargeting bool

	// MinBlockSpacingStartHeight and NoMinSpacingActivationHeight bound
	// the window in which the (non-consensus) fast-block relay guard is
	// active; see blockchain/fastblock.go.
	MinBlockSpacingStartHeight   int32
	NoMinSpacingActivationHeight int32
}

// MainNetParams returns the consensus parameters for the production
// network. Numeric values follow the reference client's
// Consensus::Params/CChainParams::CChainParams for mainnet, including the
// legacy-era PowLimit differing from the post-fork PowNewLimit.
func MainNetParams() *Params {
	return &Params{
		Name: "mainnet",

		PowLimit:     powLimitFromBits(224),
		PowLimitBits: 0x1d00ffff,
		PowNewLimit:  powLimitFromBits(236),
		PowMaxLimit:  powLimitFromBits(236),
		PowDinLimit:  powLimitFromBits(230),

		TargetTimePerBlock:       150,
		TargetTimespan:           150 * 2016,
		PostBlossomTargetSpacing: 150,
		AveragingWindow:          30,
		MaxAdjustDown:      16,
		MaxAdjustUp:        8,

		RetargetAdjustmentFactor: 4,

		NewPowDiffHeight:  180000,
		HardForkHeight:    400000,
		AuxpowStartHeight: 50000,
		AuxpowChainID:     0x0002,
		StrictChainID:     true,

		PowAllowMinDifficultyBlocks: false,
		PowNoRetargeting:            false,

		MinBlockSpacingStartHeight:   300000,
		NoMinSpacingActivationHeight: 350000,
	}
}

// TestNetParams returns the consensus parameters for the public test
// network: same retarget shape as mainnet, but with the testnet minimum-
// difficulty relaxation enabled, NewPowDiffHeight, HardForkHeight and
// AuxpowStartHeight all zeroed so those rules apply from genesis, and a
// distinct chain ID so testnet AuxPoW submissions can never be replayed
// onto mainnet.
func TestNetParams() *Params {
	p := MainNetParams()
	p.Name = "testnet"
	p.AuxpowChainID = 0x0003
	p.PowAllowMinDifficultyBlocks = true
	p.NewPowDiffHeight = 0
	p.HardForkHeight = 0
	p.AuxpowStartHeight = 0
	return p
}

// RegressionNetParams returns the consensus parameters for local
// regression testing: retargeting disabled entirely and the easiest
// possible limit throughout, so tests can mine blocks without grinding
// real proof of work.
func RegressionNetParams() *Params {
	return &Params{
		Name: "regtest",

		PowLimit:     powLimitFromBits(255),
		PowLimitBits: 0x207fffff,
		PowNewLimit:  powLimitFromBits(255),
		PowMaxLimit:  powLimitFromBits(255),
		PowDinLimit:  powLimitFromBits(255),

		TargetTimePerBlock:       150,
		TargetTimespan:           150 * 2016,
		PostBlossomTargetSpacing: 150,
		AveragingWindow:          30,
		MaxAdjustDown:      16,
		MaxAdjustUp:        8,

		RetargetAdjustmentFactor: 4,

		NewPowDiffHeight:  0,
		HardForkHeight:    0,
		AuxpowStartHeight: 0,
		AuxpowChainID:     0x0004,
		StrictChainID:     false,

		PowAllowMinDifficultyBlocks: true,
		PowNoRetargeting:            true,

		MinBlockSpacingStartHeight:   0,
		NoMinSpacingActivationHeight: 0,
	}
}
