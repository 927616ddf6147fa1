// Copyright (c) 2014-2019 Daniel Kraft
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "bytes"

// MergedMiningHeader is the four-byte magic that, when present in a parent
// coinbase's scriptSig, identifies where the merged-mining chain root
// begins. Its presence is optional — see FindChainMerkleRoot.
var MergedMiningHeader = []byte{0xfa, 0xbe, 'm', 'm'}

// RootPrefixLimit bounds how far into the script the chain root may start
// when no merged-mining header is present.
const RootPrefixLimit = 20

// FindChainMerkleRoot locates rootBytes within script and reports where the
// data immediately following it begins (the size/nonce pair). It enforces
// the same placement rules CAuxPow::check does, using nothing but raw byte
// search — there is no script interpretation here, consistent with this
// spec's byte-pattern-only treatment of coinbase scripts.
//
// foundMagic reports whether the merged-mining header preceded the root.
// err is non-nil (and the other returns zero) on any placement violation.
func FindChainMerkleRoot(script, rootBytes []byte) (afterRoot int, foundMagic bool, err error) {
	headIdx := bytes.Index(script, MergedMiningHeader)
	rootIdx := bytes.Index(script, rootBytes)

	if rootIdx < 0 {
		return 0, false, ErrMissingChainRoot
	}

	if headIdx >= 0 {
		second := bytes.Index(script[headIdx+len(MergedMiningHeader):], MergedMiningHeader)
		if second >= 0 {
			return 0, false, ErrDuplicateMMHeader
		}
		if headIdx+len(MergedMiningHeader) != rootIdx {
			return 0, false, ErrMMHeaderNotBeforeRoot
		}
		foundMagic = true
	} else {
		if rootIdx > RootPrefixLimit {
			return 0, false, ErrRootNotInPrefix
		}
	}

	return rootIdx + len(rootBytes), foundMagic, nil
}

// these sentinel errors are exported so callers (wire.AuxPow.Check, and
// through it blockchain.checkAuxpowAndProofOfWork) can recover the specific
// invariant that failed with errors.Is and report their own consensus-level
// error kind for it, without FindChainMerkleRoot itself importing blockchain.
var (
	ErrMissingChainRoot      = scriptError("chain merkle root not found in coinbase script")
	ErrDuplicateMMHeader     = scriptError("multiple merged mining headers in coinbase script")
	ErrMMHeaderNotBeforeRoot = scriptError("merged mining header is not immediately before chain merkle root")
	ErrRootNotInPrefix       = scriptError("chain merkle root does not start within the first bytes of the coinbase script")
)

type scriptError string

func (e scriptError) Error() string { return string(e) }
