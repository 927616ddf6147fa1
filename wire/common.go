// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the wire-level encoding of the consensus-core
// data structures: the 80-byte pure header, the AuxPoW payload, the
// full (possibly merge-mined) header, and the minimal transaction shape
// needed to host a coinbase for merkle folding. There is no P2P protocol
// version negotiation here — that transport layer is out of scope — so
// these helpers take no pver argument.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

var (
	littleEndian = binary.LittleEndian
)

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

// MaxMerkleBranchLength is the consensus cap on the AuxPoW chain merkle
// branch: at most 30 levels.
const MaxMerkleBranchLength = 30

// MaxCoinbaseScriptLen bounds how large a coinbase scriptSig we'll decode;
// real limits live with transaction serialization (out of scope here), this
// is only a decode-time sanity bound.
const MaxCoinbaseScriptLen = 10000

func readUint32LE(r io.Reader, value *uint32) error {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	*value = littleEndian.Uint32(buf[:])
	return nil
}

func writeUint32LE(w io.Writer, value uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], value)
	_, err := w.Write(buf[:])
	return err
}

func readInt32LE(r io.Reader, value *int32) error {
	var u uint32
	if err := readUint32LE(r, &u); err != nil {
		return err
	}
	*value = int32(u)
	return nil
}

func writeInt32LE(w io.Writer, value int32) error {
	return writeUint32LE(w, uint32(value))
}

func readUint64LE(r io.Reader, value *uint64) error {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	*value = littleEndian.Uint64(buf[:])
	return nil
}

func readInt64LE(r io.Reader, value *int64) error {
	var u uint64
	if err := readUint64LE(r, &u); err != nil {
		return err
	}
	*value = int64(u)
	return nil
}

func writeInt64LE(w io.Writer, value int64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], uint64(value))
	_, err := w.Write(buf[:])
	return err
}

// ReadVarInt reads a Bitcoin CompactSize variable length integer from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	var discriminant [1]byte
	if _, err := io.ReadFull(r, discriminant[:]); err != nil {
		return 0, err
	}

	switch discriminant[0] {
	case 0xff:
		var v uint64
		if err := readUint64LE(r, &v); err != nil {
			return 0, err
		}
		return v, nil
	case 0xfe:
		var v uint32
		if err := readUint32LE(r, &v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(littleEndian.Uint16(buf[:])), nil
	default:
		return uint64(discriminant[0]), nil
	}
}

// WriteVarInt serializes val to w as a Bitcoin CompactSize integer.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{byte(val)})
		return err
	case val <= math.MaxUint16:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	case val <= math.MaxUint32:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		littleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf)
		return err
	}
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a CompactSize integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= math.MaxUint16:
		return 3
	case val <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a varint-prefixed byte array, erroring if the declared
// length exceeds maxAllowed. fieldName is used only for the error message.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > uint64(maxAllowed) {
		return nil, fmt.Errorf("%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed)
	}
	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes a varint-prefixed byte array to w.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
