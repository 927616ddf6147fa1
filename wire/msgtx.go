// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/Bitcoinclassicxbt/classic2/chainhash"
)

// MaxTxInPerTx / MaxTxOutPerTx bound the vectors we'll decode off the wire;
// full transaction validation (fees, scripts, signatures) is out of scope,
// these are only decode-time sanity limits.
const (
	MaxTxInPerTx  = 100000
	MaxTxOutPerTx = 100000
)

// OutPoint identifies a transaction output consumed by a transaction input.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// Serialize writes the 36-byte wire form of the outpoint to w.
func (o *OutPoint) Serialize(w io.Writer) error {
	if _, err := w.Write(o.Hash[:]); err != nil {
		return err
	}
	return writeUint32LE(w, o.Index)
}

// Deserialize reads the 36-byte wire form of an outpoint from r.
func (o *OutPoint) Deserialize(r io.Reader) error {
	if _, err := io.ReadFull(r, o.Hash[:]); err != nil {
		return err
	}
	return readUint32LE(r, &o.Index)
}

// TxIn is a transaction input. For the coinbase that AuxPoW inspects, the
// only fields that matter are PreviousOutPoint (null) and SignatureScript
// (where the merge-mining magic and chain root are embedded).
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// Serialize writes the wire form of the input to w.
func (ti *TxIn) Serialize(w io.Writer) error {
	if err := ti.PreviousOutPoint.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeUint32LE(w, ti.Sequence)
}

// Deserialize reads the wire form of an input from r.
func (ti *TxIn) Deserialize(r io.Reader) error {
	if err := ti.PreviousOutPoint.Deserialize(r); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxCoinbaseScriptLen, "signature script")
	if err != nil {
		return err
	}
	ti.SignatureScript = script
	return readUint32LE(r, &ti.Sequence)
}

// TxOut is a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// Serialize writes the wire form of the output to w.
func (to *TxOut) Serialize(w io.Writer) error {
	if err := writeInt64LE(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}

// Deserialize reads the wire form of an output from r.
func (to *TxOut) Deserialize(r io.Reader) error {
	if err := readInt64LE(r, &to.Value); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxCoinbaseScriptLen, "pk script")
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}

// MsgTx is the minimal transaction shape the consensus core needs: enough
// to serialize a coinbase, hash it, and inspect its first input's script.
// Full transaction semantics (fee accounting, script execution, the UTXO
// set) are out of scope.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new transaction with the given protocol version and
// empty input/output vectors, ready to be populated.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{Version: version}
}

// AddTxIn adds the given input to the transaction.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds the given output to the transaction.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash returns the double-SHA256 of the serialized transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize writes the wire form of the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeInt32LE(w, msg.Version); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := ti.Serialize(w); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := to.Serialize(w); err != nil {
			return err
		}
	}
	return writeUint32LE(w, msg.LockTime)
}

// Deserialize reads the wire form of a transaction from r.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	if err := readInt32LE(r, &msg.Version); err != nil {
		return err
	}

	txInCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txInCount > MaxTxInPerTx {
		return io.ErrUnexpectedEOF
	}
	msg.TxIn = make([]*TxIn, txInCount)
	for i := range msg.TxIn {
		ti := new(TxIn)
		if err := ti.Deserialize(r); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	txOutCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txOutCount > MaxTxOutPerTx {
		return io.ErrUnexpectedEOF
	}
	msg.TxOut = make([]*TxOut, txOutCount)
	for i := range msg.TxOut {
		to := new(TxOut)
		if err := to.Deserialize(r); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	return readUint32LE(r, &msg.LockTime)
}
