// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	sha256 "github.com/minio/sha256-simd"
)

// HashB calculates sha256(sha256(b)) and returns the resulting bytes.
func HashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// HashH calculates sha256(sha256(b)) and returns the resulting bytes as a
// Hash.
func HashH(b []byte) Hash {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return Hash(second)
}

// DoubleHashB calculates sha256(sha256(concat(b...))) over one or more byte
// slices treated as a single contiguous range, and returns the resulting
// bytes. This is the primitive the 80-byte pure header hash and every
// merkle fold step are built from.
func DoubleHashB(b ...[]byte) []byte {
	h := sha256.New()
	for _, part := range b {
		h.Write(part)
	}
	first := h.Sum(nil)
	second := sha256.Sum256(first)
	return second[:]
}

// DoubleHashH is DoubleHashB but returns a Hash.
func DoubleHashH(b ...[]byte) Hash {
	var h Hash
	copy(h[:], DoubleHashB(b...))
	return h
}
