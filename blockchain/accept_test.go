// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
	"github.com/Bitcoinclassicxbt/classic2/chainhash"
	"github.com/Bitcoinclassicxbt/classic2/wire"
)

func acceptTestParams() *chaincfg.Params {
	return &chaincfg.Params{
		PowLimit:           new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)),
		PowNewLimit:        new(big.Int).Lsh(big.NewInt(1), 200),
		PowMaxLimit:        new(big.Int).Lsh(big.NewInt(1), 200),
		PowDinLimit:        new(big.Int).Lsh(big.NewInt(1), 200),
		TargetTimePerBlock:       150,
		TargetTimespan:           150 * 10,
		PostBlossomTargetSpacing: 150,
		AveragingWindow:          10,
		MaxAdjustDown:            16,
		MaxAdjustUp:              8,
		RetargetAdjustmentFactor: 4,
		NewPowDiffHeight:         1_000_000,
		HardForkHeight:           1_000_000,
		AuxpowStartHeight:        100,
		AuxpowChainID:            2,
		StrictChainID:            true,
		PowNoRetargeting:         true,
	}
}

func easyHeader(prevBlock chainhash.Hash, bits uint32, timestamp int64) *wire.BlockHeader {
	return &wire.BlockHeader{
		PureHeader: wire.PureHeader{
			Version:   1,
			PrevBlock: prevBlock,
			Bits:      bits,
			Timestamp: uint32(timestamp),
		},
	}
}

// mineHeader searches nonces until header.BlockHash satisfies its own Bits
// against powLimit, the same trial-and-error a real miner performs. The
// targets these tests use are deliberately loose (close to the 2^255
// ceiling a positive compact target can represent), so this converges in a
// handful of tries; the bound below only guards against a test param
// mistake making the target unreachable, not against normal variance.
func mineHeader(t *testing.T, header *wire.BlockHeader, powLimit *big.Int) {
	t.Helper()
	for nonce := uint32(0); nonce < 100000; nonce++ {
		header.Nonce = nonce
		if err := CheckProofOfWork(header.BlockHash(), header.Bits, powLimit); err == nil {
			return
		}
	}
	t.Fatalf("failed to find a satisfying nonce within the search bound")
}

// TestAcceptHeaderGenesisSucceeds ensures a header with a zero PrevBlock is
// treated as following genesis and accepted without a chain-index lookup.
func TestAcceptHeaderGenesisSucceeds(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	header := easyHeader(chainhash.Hash{}, bits, 1_600_000_000)
	mineHeader(t, header, params.PowLimit)

	node, err := AcceptHeader(ci, header, 1_600_000_000, params)
	if err != nil {
		t.Fatalf("AcceptHeader: unexpected error: %v", err)
	}
	if node.Height != 0 {
		t.Errorf("Height = %d, want 0", node.Height)
	}
	if _, ok := ci.LookupNode(node.Hash); !ok {
		t.Error("AcceptHeader did not record the new node in the chain index")
	}
}

// TestAcceptHeaderUnknownPrevRejected ensures a nonzero PrevBlock that isn't
// in the chain index is rejected with ErrPreviousHeaderUnknown, before any
// hash or difficulty check runs.
func TestAcceptHeaderUnknownPrevRejected(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	var unknownPrev chainhash.Hash
	unknownPrev[0] = 0xaa
	header := easyHeader(unknownPrev, bits, 1_600_000_000)

	_, err := AcceptHeader(ci, header, 1_600_000_000, params)
	if !errors.Is(err, ErrPreviousHeaderUnknown) {
		t.Errorf("error = %v, want ErrPreviousHeaderUnknown", err)
	}
}

// TestAcceptHeaderChainsOffAccepted ensures a second header correctly
// builds on the first once it has been accepted, advancing height and
// linking Parent.
func TestAcceptHeaderChainsOffAccepted(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	genesisHeader := easyHeader(chainhash.Hash{}, bits, 1_600_000_000)
	mineHeader(t, genesisHeader, params.PowLimit)
	genesis, err := AcceptHeader(ci, genesisHeader, 1_600_000_000, params)
	if err != nil {
		t.Fatalf("genesis AcceptHeader: unexpected error: %v", err)
	}

	child := easyHeader(genesis.Hash, bits, genesis.Timestamp+params.TargetTimePerBlock)
	mineHeader(t, child, params.PowLimit)
	childNode, err := AcceptHeader(ci, child, genesis.Timestamp+params.TargetTimePerBlock, params)
	if err != nil {
		t.Fatalf("child AcceptHeader: unexpected error: %v", err)
	}
	if childNode.Height != 1 {
		t.Errorf("Height = %d, want 1", childNode.Height)
	}
	if childNode.Parent != genesis {
		t.Error("child node's Parent does not point at the accepted genesis node")
	}
}

// TestAcceptHeaderTimestampTooOldRejected ensures a header whose timestamp
// does not exceed the median of its ancestors is rejected. The ancestor is
// inserted directly as a BlockNode rather than mined through AcceptHeader,
// since the rejection under test happens before any proof-of-work check
// runs and doesn't need a genuinely-mined predecessor.
func TestAcceptHeaderTimestampTooOldRejected(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	parent := &BlockNode{Hash: chainhash.HashH([]byte("parent")), Height: 0, Bits: bits, Timestamp: 1_600_000_000}
	ci.AddNode(parent)

	stale := easyHeader(parent.Hash, bits, parent.Timestamp)
	_, err := AcceptHeader(ci, stale, parent.Timestamp, params)
	if !errors.Is(err, ErrTimestampTooOld) {
		t.Errorf("error = %v, want ErrTimestampTooOld", err)
	}
}

// TestAcceptHeaderTimestampTooNewRejected ensures a header timestamped more
// than maxFutureBlockTime ahead of the validation clock is rejected, again
// before any proof-of-work check runs.
func TestAcceptHeaderTimestampTooNewRejected(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	now := int64(1_600_000_000)
	future := easyHeader(chainhash.Hash{}, bits, now+maxFutureBlockTime+10)
	_, err := AcceptHeader(ci, future, now, params)
	if !errors.Is(err, ErrTimestampTooNew) {
		t.Errorf("error = %v, want ErrTimestampTooNew", err)
	}
}

// TestAcceptHeaderDifficultyMismatchRejected ensures a header that passes
// proof of work but carries the wrong bits for its height is rejected with
// ErrUnexpectedDifficulty. Both the ancestor's and the child's targets are
// kept loose (just different from each other) so both are cheap to mine;
// height 1 is not a retarget boundary, so the expected bits at the child's
// height is simply the ancestor's own bits, and a different value is guaranteed to
// mismatch without needing a genuinely unreachable target.
func TestAcceptHeaderDifficultyMismatchRejected(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	genesisBits := BigToCompact(params.PowLimit)
	wrongBits := BigToCompact(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 254), big.NewInt(1)))

	genesisHeader := easyHeader(chainhash.Hash{}, genesisBits, 1_600_000_000)
	mineHeader(t, genesisHeader, params.PowLimit)
	genesis, err := AcceptHeader(ci, genesisHeader, 1_600_000_000, params)
	if err != nil {
		t.Fatalf("genesis AcceptHeader: unexpected error: %v", err)
	}

	child := easyHeader(genesis.Hash, wrongBits, genesis.Timestamp+params.TargetTimePerBlock)
	mineHeader(t, child, params.PowLimit)
	_, err = AcceptHeader(ci, child, genesis.Timestamp+params.TargetTimePerBlock, params)
	if !errors.Is(err, ErrUnexpectedDifficulty) {
		t.Errorf("error = %v, want ErrUnexpectedDifficulty", err)
	}
}

// TestAcceptHeaderProofOfWorkFailureRejected ensures a header whose hash
// doesn't satisfy an unreachably hard (but still in-range) target is
// rejected with ErrHighHash. No mining is attempted: the target is
// deliberately far too small for any nonce to plausibly satisfy.
func TestAcceptHeaderProofOfWorkFailureRejected(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()

	hardBits := BigToCompact(big.NewInt(1))
	header := easyHeader(chainhash.Hash{}, hardBits, 1_600_000_000)
	_, err := AcceptHeader(ci, header, 1_600_000_000, params)
	if !errors.Is(err, ErrHighHash) {
		t.Errorf("error = %v, want ErrHighHash", err)
	}
}

// TestAcceptHeaderAuxpowGatedByHeight ensures a header carrying the AuxPoW
// flag below AuxpowStartHeight is rejected without even inspecting the
// (absent) payload, so no proof-of-work search is needed to reach it.
func TestAcceptHeaderAuxpowGatedByHeight(t *testing.T) {
	params := acceptTestParams()
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	header := easyHeader(chainhash.Hash{}, bits, 1_600_000_000)
	header.Version = int32(2*(1<<16) + 0x101) // AuxPoW flag + nonzero chain ID

	_, err := AcceptHeader(ci, header, 1_600_000_000, params)
	if !errors.Is(err, ErrAuxpowNotAllowed) {
		t.Errorf("error = %v, want ErrAuxpowNotAllowed", err)
	}
}

// TestAcceptHeaderAuxpowMissingPayloadRejected ensures a header past
// AuxpowStartHeight that claims AuxPoW but carries no payload is rejected
// with ErrAuxpowMissing. AuxpowStartHeight is overridden to a small value
// so building the chain up to the gate only needs a few real minings.
func TestAcceptHeaderAuxpowMissingPayloadRejected(t *testing.T) {
	params := acceptTestParams()
	params.AuxpowStartHeight = 3
	ci := NewChainIndex()
	bits := BigToCompact(params.PowLimit)

	var prevHash chainhash.Hash
	ts := int64(1_600_000_000)
	for h := int32(0); h < params.AuxpowStartHeight; h++ {
		header := easyHeader(prevHash, bits, ts)
		mineHeader(t, header, params.PowLimit)
		node, err := AcceptHeader(ci, header, ts, params)
		if err != nil {
			t.Fatalf("height %d: unexpected error building up to the gate: %v", h, err)
		}
		prevHash = node.Hash
		ts += params.TargetTimePerBlock
	}

	header := easyHeader(prevHash, bits, ts)
	header.Version = int32(2*(1<<16) + 0x101)
	_, err := AcceptHeader(ci, header, ts, params)
	if !errors.Is(err, ErrAuxpowMissing) {
		t.Errorf("error = %v, want ErrAuxpowMissing", err)
	}
}

// mineAuxpowParent grinds the AuxPoW's parent block nonce until the parent
// hash satisfies bits against powLimit, the same trial-and-error mineHeader
// performs for a plain header.
func mineAuxpowParent(t *testing.T, ap *wire.AuxPow, bits uint32, powLimit *big.Int) {
	t.Helper()
	for nonce := uint32(0); nonce < 100000; nonce++ {
		ap.ParentBlock.Nonce = nonce
		if err := CheckProofOfWork(ap.ParentBlock.BlockHash(), bits, powLimit); err == nil {
			return
		}
	}
	t.Fatalf("failed to find a parent nonce satisfying the child's target within the search bound")
}

// TestAcceptHeaderAuxpowAcceptsOnceParentMeetsChildBits ensures a merge-
// mined header is accepted once its AuxPoW parent's own hash satisfies the
// *child's* bits; the parent's own bits (copied from the child by
// CreateAuxPow) play no part in the outcome.
func TestAcceptHeaderAuxpowAcceptsOnceParentMeetsChildBits(t *testing.T) {
	params := acceptTestParams()
	params.AuxpowStartHeight = 0
	bits := BigToCompact(params.PowLimit)
	ts := int64(1_600_000_000)

	header := easyHeader(chainhash.Hash{}, bits, ts)
	header.SetChainID(params.AuxpowChainID)
	header.SetAuxpowVersion(true)

	if _, err := wire.InitAuxPow(header); err != nil {
		t.Fatalf("InitAuxPow: unexpected error: %v", err)
	}
	mineAuxpowParent(t, header.AuxPow, bits, params.PowLimit)

	ci := NewChainIndex()
	if _, err := AcceptHeader(ci, header, ts, params); err != nil {
		t.Errorf("AcceptHeader on a properly mined AuxPoW header: unexpected error: %v", err)
	}
}

// TestAcceptHeaderAuxpowRejectsAgainstChildBitsNotParents is the regression
// case for checkAuxpowAndProofOfWork: it must check the AuxPoW parent's
// hash against the child header's own (hard) Bits, never against the
// parent's own claimed (easy) Bits. Checking the latter would let an
// attacker attach a trivially-easy parent and sail through with no real
// proof of work behind the child.
func TestAcceptHeaderAuxpowRejectsAgainstChildBitsNotParents(t *testing.T) {
	params := acceptTestParams()
	params.AuxpowStartHeight = 0
	hardBits := BigToCompact(big.NewInt(1))
	ts := int64(1_600_000_000)

	header := easyHeader(chainhash.Hash{}, hardBits, ts)
	header.SetChainID(params.AuxpowChainID)
	header.SetAuxpowVersion(true)

	if _, err := wire.InitAuxPow(header); err != nil {
		t.Fatalf("InitAuxPow: unexpected error: %v", err)
	}
	// The parent claims the loosest bits this network allows; under the
	// bug, checking against this instead of the child's hardBits would
	// pass for essentially any parent hash.
	header.AuxPow.ParentBlock.Bits = BigToCompact(params.PowLimit)

	ci := NewChainIndex()
	if _, err := AcceptHeader(ci, header, ts, params); !errors.Is(err, ErrAuxpowProofOfWork) {
		t.Errorf("AcceptHeader on an AuxPoW parent not meeting the child's bits = %v, want ErrAuxpowProofOfWork", err)
	}
}
