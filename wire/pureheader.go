// Copyright (c) 2009-2013 The Bitcoin developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/Bitcoinclassicxbt/classic2/chainhash"
)

// versionAuxpow is the bit in a header's version field that marks the header
// as merge-mined (bit 8, i.e. 0x100).
const versionAuxpow = int32(1) << 8

// versionChainStart is the divisor separating the chain ID (high 16 bits)
// from the base version and AuxPoW flag (low 16 bits).
const versionChainStart = int32(1) << 16

// PureHeaderSize is the number of bytes in the serialized form of a
// PureHeader: 4 + 32 + 32 + 4 + 4 + 4.
const PureHeaderSize = 80

// PureHeader is the 80-byte Bitcoin-compatible block header with no AuxPoW
// payload attached. It exists separately from BlockHeader so the parent
// chain's header embedded inside an AuxPoW payload can be represented
// without creating a cycle back to AuxPoW itself.
type PureHeader struct {
	// Version encodes, from low to high bits: the base version (bits
	// 0-7), the AuxPoW flag (bit 8), and the chain ID (bits 16-31).
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// BaseVersion returns the low 8 bits of the version field, stripped of the
// AuxPoW flag and chain ID.
func (h *PureHeader) BaseVersion() int32 {
	return h.Version % versionAuxpow
}

// ChainID returns the high 16 bits of the version field.
func (h *PureHeader) ChainID() int32 {
	return h.Version / versionChainStart
}

// SetChainID overwrites the high 16 bits of the version field, leaving the
// base version and AuxPoW flag untouched.
func (h *PureHeader) SetChainID(chainID int32) {
	h.Version %= versionChainStart
	h.Version |= chainID * versionChainStart
}

// IsAuxpow reports whether the merge-mining flag (bit 8) is set.
func (h *PureHeader) IsAuxpow() bool {
	return h.Version&versionAuxpow != 0
}

// SetAuxpowVersion sets or clears the merge-mining flag without disturbing
// the base version or chain ID.
func (h *PureHeader) SetAuxpowVersion(auxpow bool) {
	if auxpow {
		h.Version |= versionAuxpow
	} else {
		h.Version &^= versionAuxpow
	}
}

// IsLegacy reports whether this is a pre-chain-ID version-1 header.
func (h *PureHeader) IsLegacy() bool {
	return h.Version == 1
}

// BlockHash returns the double-SHA256 of the 80-byte serialized header.
// AuxPoW payloads never participate in this hash — a header's identity
// depends only on its own 80 bytes, regardless of whether it carries an
// attached AuxPoW or not.
func (h *PureHeader) BlockHash() chainhash.Hash {
	buf := make([]byte, 0, PureHeaderSize)
	var scratch [4]byte

	littleEndian.PutUint32(scratch[:], uint32(h.Version))
	buf = append(buf, scratch[:]...)
	buf = append(buf, h.PrevBlock[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	littleEndian.PutUint32(scratch[:], h.Timestamp)
	buf = append(buf, scratch[:]...)
	littleEndian.PutUint32(scratch[:], h.Bits)
	buf = append(buf, scratch[:]...)
	littleEndian.PutUint32(scratch[:], h.Nonce)
	buf = append(buf, scratch[:]...)

	return chainhash.DoubleHashH(buf)
}

// Serialize writes the 80-byte wire form of the header to w.
func (h *PureHeader) Serialize(w io.Writer) error {
	if err := writeInt32LE(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Timestamp); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Bits); err != nil {
		return err
	}
	return writeUint32LE(w, h.Nonce)
}

// Deserialize reads the 80-byte wire form of a header from r.
func (h *PureHeader) Deserialize(r io.Reader) error {
	if err := readInt32LE(r, &h.Version); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := readUint32LE(r, &h.Timestamp); err != nil {
		return err
	}
	if err := readUint32LE(r, &h.Bits); err != nil {
		return err
	}
	return readUint32LE(r, &h.Nonce)
}
