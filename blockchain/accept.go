// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
	"github.com/Bitcoinclassicxbt/classic2/chainhash"
	"github.com/Bitcoinclassicxbt/classic2/txscript"
	"github.com/Bitcoinclassicxbt/classic2/wire"
)

// medianTimeBlocks is the number of preceding headers averaged (by
// median, not mean) to bound how old a new header's timestamp may be.
const medianTimeBlocks = 11

// maxFutureBlockTime bounds how far a header's timestamp may sit ahead of
// the validation-time clock.
const maxFutureBlockTime = 2 * 60 * 60

// calcMedianTime returns the median timestamp of node and up to
// medianTimeBlocks-1 of its ancestors.
func calcMedianTime(node *BlockNode) int64 {
	timestamps := make([]int64, 0, medianTimeBlocks)
	for n := node; n != nil && len(timestamps) < medianTimeBlocks; n = n.Parent {
		timestamps = append(timestamps, n.Timestamp)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps[len(timestamps)/2]
}

// AcceptHeader validates header against the chain built so far in ci and,
// if it passes every check, records it as a new node and returns it. now
// is the validation-time clock, passed explicitly so this stays
// deterministic and testable. This is the entry point tying together
// every other component in this package: chain-index lookup, difficulty,
// AuxPoW (via wire), and proof of work.
func AcceptHeader(ci *ChainIndex, header *wire.BlockHeader, now int64, params *chaincfg.Params) (*BlockNode, error) {
	var prevNode *BlockNode
	var zero chainhash.Hash
	if header.PrevBlock != zero {
		node, ok := ci.LookupNode(header.PrevBlock)
		if !ok {
			str := fmt.Sprintf("previous header %s is unknown", header.PrevBlock)
			return nil, ruleError(ErrPreviousHeaderUnknown, str)
		}
		prevNode = node
	}

	height := int32(0)
	if prevNode != nil {
		height = prevNode.Height + 1
	}

	if prevNode != nil {
		medianTime := calcMedianTime(prevNode)
		if int64(header.Timestamp) <= medianTime {
			str := fmt.Sprintf("header timestamp %d is not after median time %d",
				header.Timestamp, medianTime)
			return nil, ruleError(ErrTimestampTooOld, str)
		}
	}
	if int64(header.Timestamp) > now+maxFutureBlockTime {
		str := fmt.Sprintf("header timestamp %d is too far in the future (now=%d)",
			header.Timestamp, now)
		return nil, ruleError(ErrTimestampTooNew, str)
	}

	if err := checkAuxpowAndProofOfWork(header, height, params); err != nil {
		return nil, err
	}

	expectedBits := NextWorkRequired(prevNode, int64(header.Timestamp), params)
	if header.Bits != expectedBits {
		str := fmt.Sprintf("header bits %08x at height %d does not match expected %08x",
			header.Bits, height, expectedBits)
		return nil, ruleError(ErrUnexpectedDifficulty, str)
	}

	newNode := &BlockNode{
		Hash:      header.BlockHash(),
		Height:    height,
		Version:   header.Version,
		Bits:      header.Bits,
		Timestamp: int64(header.Timestamp),
		Parent:    prevNode,
	}
	ci.AddNode(newNode)

	return newNode, nil
}

// checkAuxpowAndProofOfWork enforces the AuxPoW structural invariants and
// then checks proof of work against whichever hash actually carries it: the
// parent block's hash for a merge-mined header, or the header's own hash
// for a plain one. Either way the target checked against is always the
// child header's own bits — a merge-mined header's hash moves to the
// parent chain, but its difficulty target does not.
func checkAuxpowAndProofOfWork(header *wire.BlockHeader, height int32, params *chaincfg.Params) error {
	if !header.IsAuxpow() {
		if err := CheckProofOfWork(header.BlockHash(), header.Bits, params.PowLimit); err != nil {
			return err
		}
		return nil
	}

	if height < params.AuxpowStartHeight {
		str := fmt.Sprintf("AuxPoW is not allowed before height %d (header is at %d)",
			params.AuxpowStartHeight, height)
		return ruleError(ErrAuxpowNotAllowed, str)
	}
	if header.AuxPow == nil {
		return ruleError(ErrAuxpowMissing, "header claims AuxPoW but carries no payload")
	}

	auxHash := header.PureHeader.BlockHash()
	if err := header.AuxPow.Check(auxHash, params.AuxpowChainID, params.StrictChainID); err != nil {
		return ruleError(auxpowCheckErrorKind(err), err.Error())
	}

	// The hash that carries the parent chain's proof of work is the
	// parent block's own hash, but the target it must beat is still this
	// chain's: a merge-mined header's difficulty is set by this chain's
	// retarget rules, not the parent's.
	parentHash := header.AuxPow.ParentBlock.BlockHash()
	if err := CheckProofOfWork(parentHash, header.Bits, params.PowLimit); err != nil {
		return ruleError(ErrAuxpowProofOfWork, err.Error())
	}

	return nil
}

// auxpowCheckErrorKind maps an error returned by wire.AuxPow.Check onto the
// specific consensus-level ErrorKind for the invariant it violated. wire
// cannot import this package (blockchain already imports wire), so Check
// and the txscript search it delegates to report their failures as
// exported sentinel errors instead; this is where those sentinels get
// translated into the kinds callers of this package actually check
// against. A Check failure that doesn't match any known sentinel still
// gets reported, just under the generic AuxPoW-invalid kind.
func auxpowCheckErrorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, wire.ErrWrongChainID):
		return ErrWrongChainID
	case errors.Is(err, wire.ErrBranchTooLong):
		return ErrBranchTooLong
	case errors.Is(err, wire.ErrMerkleRootMismatch):
		return ErrMerkleRootMismatch
	case errors.Is(err, wire.ErrEmptyCoinbase):
		return ErrEmptyCoinbase
	case errors.Is(err, wire.ErrMissingSizeNonce):
		return ErrMissingSizeNonce
	case errors.Is(err, wire.ErrWrongMerkleSize):
		return ErrWrongMerkleSize
	case errors.Is(err, wire.ErrWrongIndex):
		return ErrWrongIndex
	case errors.Is(err, txscript.ErrMissingChainRoot):
		return ErrMissingChainRoot
	case errors.Is(err, txscript.ErrDuplicateMMHeader):
		return ErrDuplicateMMHeader
	case errors.Is(err, txscript.ErrMMHeaderNotBeforeRoot):
		return ErrMMHeaderNotBeforeRoot
	case errors.Is(err, txscript.ErrRootNotInPrefix):
		return ErrRootNotInPrefix
	default:
		return ErrAuxpowInvalid
	}
}
