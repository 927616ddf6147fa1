// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/Bitcoinclassicxbt/classic2/chainhash"
)

// MaxTxPerBlock bounds the transaction vector decoded off the wire. Full
// block validation (fees, weight limits) is out of scope; this is only a
// decode-time sanity bound.
const MaxTxPerBlock = 1000000

// Block is a full block: its (possibly merge-mined) header plus the
// transactions it commits to via Header.MerkleRoot. Transactions[0] is
// this block's own coinbase — distinct from any AuxPoW parent coinbase
// embedded in Header.AuxPow, which belongs to a different chain entirely.
type Block struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// ComputeMerkleRoot folds the block's transaction hashes up to a single
// root using the same pairwise double-SHA256 scheme AuxPoW's merkle
// branches rely on, just applied to every leaf at once instead of a
// single proof path. A block with no transactions has the zero hash as
// its root; an odd level duplicates its last node, matching the reference
// client's CBlock::BuildMerkleTree.
func (b *Block) ComputeMerkleRoot() chainhash.Hash {
	if len(b.Transactions) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		level[i] = tx.TxHash()
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			next[i] = chainhash.DoubleHashH(level[2*i][:], level[2*i+1][:])
		}
		level = next
	}

	return level[0]
}

// Serialize writes the wire form of the block to w.
func (b *Block) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads the wire form of a block from r.
func (b *Block) Deserialize(r io.Reader) error {
	if err := b.Header.Deserialize(r); err != nil {
		return err
	}
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxTxPerBlock {
		return io.ErrUnexpectedEOF
	}
	b.Transactions = make([]*MsgTx, count)
	for i := range b.Transactions {
		tx := new(MsgTx)
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		b.Transactions[i] = tx
	}
	return nil
}
