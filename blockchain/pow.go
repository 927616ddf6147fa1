// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math/big"

	"github.com/Bitcoinclassicxbt/classic2/chainhash"
)

// checkProofOfWorkRange ensures target lies in (0, powLimit].
func checkProofOfWorkRange(target *big.Int, powLimit *big.Int) error {
	if target.Sign() <= 0 {
		str := fmt.Sprintf("target difficulty of %064x is too low", target)
		return ruleError(ErrUnexpectedDifficulty, str)
	}
	if target.Cmp(powLimit) > 0 {
		str := fmt.Sprintf("target difficulty of %064x is higher than max of %064x",
			target, powLimit)
		return ruleError(ErrUnexpectedDifficulty, str)
	}
	return nil
}

// CheckProofOfWorkRange ensures the provided compact target is in min/max
// range per the given proof-of-work limit.
func CheckProofOfWorkRange(bits uint32, powLimit *big.Int) error {
	return checkProofOfWorkRange(CompactToBig(bits), powLimit)
}

func checkProofOfWorkHash(powHash chainhash.Hash, target *big.Int) error {
	hashNum := HashToBig(powHash)
	if hashNum.Cmp(target) > 0 {
		str := fmt.Sprintf("proof of work hash %064x is higher than expected max of %064x",
			hashNum, target)
		return ruleError(ErrHighHash, str)
	}
	return nil
}

// CheckProofOfWorkHash ensures powHash is numerically less than or equal to
// the target encoded by bits.
func CheckProofOfWorkHash(powHash chainhash.Hash, bits uint32) error {
	return checkProofOfWorkHash(powHash, CompactToBig(bits))
}

// CheckProofOfWork ensures powHash is at or below the compact target bits encodes
// and that target itself lies within powLimit. It never inspects the AuxPoW
// payload itself, only the (possibly parent-chain) header hash and bits
// that accompany it.
func CheckProofOfWork(powHash chainhash.Hash, bits uint32, powLimit *big.Int) error {
	target := CompactToBig(bits)
	if err := checkProofOfWorkRange(target, powLimit); err != nil {
		return err
	}
	return checkProofOfWorkHash(powHash, target)
}
