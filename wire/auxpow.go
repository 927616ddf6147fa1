// Copyright (c) 2014-2019 Daniel Kraft
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/Bitcoinclassicxbt/classic2/chainhash"
	"github.com/Bitcoinclassicxbt/classic2/txscript"
)

// CheckErrorKind identifies which AuxPoW structural invariant a failing
// Check call violated. Callers outside this package (blockchain, which
// cannot be imported here without a cycle) use errors.Is against these
// values to recover the specific invariant and report their own
// consensus-level error kind for it, instead of collapsing every failure
// into one generic error.
type CheckErrorKind string

// Error satisfies the error interface.
func (k CheckErrorKind) Error() string { return string(k) }

// These are the AuxPoW-specific invariants Check enforces beyond what
// txscript.FindChainMerkleRoot already reports (ErrMissingChainRoot,
// ErrDuplicateMMHeader, ErrMMHeaderNotBeforeRoot, ErrRootNotInPrefix).
const (
	// ErrWrongChainID indicates the parent block carries this chain's own
	// chain ID while strict chain ID checking is in effect.
	ErrWrongChainID = CheckErrorKind("auxpow: parent block carries our own chain ID")

	// ErrBranchTooLong indicates the chain merkle branch exceeds
	// MaxMerkleBranchLength.
	ErrBranchTooLong = CheckErrorKind("auxpow: chain merkle branch too long")

	// ErrMerkleRootMismatch indicates the coinbase transaction's merkle
	// branch does not fold up to the parent block's claimed merkle root.
	ErrMerkleRootMismatch = CheckErrorKind("auxpow: parent merkle root mismatch")

	// ErrEmptyCoinbase indicates the parent coinbase transaction has no
	// inputs, so it carries no scriptSig to search for the chain root.
	ErrEmptyCoinbase = CheckErrorKind("auxpow: parent coinbase transaction has no inputs")

	// ErrMissingSizeNonce indicates the coinbase scriptSig ends before the
	// 8-byte size/nonce pair that must follow the chain merkle root.
	ErrMissingSizeNonce = CheckErrorKind("auxpow: parent coinbase missing size/nonce after chain merkle root")

	// ErrWrongMerkleSize indicates the size value recovered from the
	// coinbase scriptSig does not match 2^len(ChainMerkleBranch).
	ErrWrongMerkleSize = CheckErrorKind("auxpow: chain merkle branch size mismatch")

	// ErrWrongIndex indicates ChainIndex does not equal the index
	// ExpectedIndex derives from the recovered nonce and chain ID.
	ErrWrongIndex = CheckErrorKind("auxpow: wrong chain merkle tree index")
)

// AuxPow is the merge-mining proof: a parent-chain block whose coinbase
// transaction commits to this (child) block's hash, together with the two
// merkle branches needed to prove that commitment back up to the parent
// block's own header.
type AuxPow struct {
	// CoinbaseTx is the parent chain's coinbase transaction, which embeds
	// the child block hash (or its chain merkle root) in its scriptSig.
	CoinbaseTx *MsgTx

	// MerkleBranch proves CoinbaseTx.TxHash() folds up to ParentBlock's
	// merkle root.
	MerkleBranch []chainhash.Hash

	// Index is a reserved slot in the wire shape inherited from the
	// generic merkle-tx encoding this payload piggybacks on. The coinbase
	// is always the first transaction, so there is nothing to index; this
	// field is written as zero and never consulted on read.
	Index int32

	// ChainMerkleBranch proves the child block's hash folds up to the
	// chain merkle root embedded in the parent coinbase.
	ChainMerkleBranch []chainhash.Hash

	// ChainIndex is this chain's slot in the chain merkle tree. It must
	// equal ExpectedIndex(nonce, chainID, len(ChainMerkleBranch)) for the
	// nonce recovered from the parent coinbase.
	ChainIndex int32

	// ParentBlock is the parent chain's own (non-AuxPoW) header.
	ParentBlock PureHeader
}

// Check verifies every AuxPoW invariant against the given auxiliary block
// hash and chain ID. It reproduces CAuxPow::check from the reference
// merge-mining implementation byte for byte: a passing Check is necessary
// and sufficient AuxPoW validity, independent of proof-of-work itself
// (callers still separately check ParentBlock's hash against the child
// header's target, its Bits).
func (ap *AuxPow) Check(hashAuxBlock chainhash.Hash, chainID int32, strictChainID bool) error {
	if strictChainID && ap.ParentBlock.ChainID() == chainID {
		return fmt.Errorf("%w (%d)", ErrWrongChainID, chainID)
	}

	if len(ap.ChainMerkleBranch) > MaxMerkleBranchLength {
		return fmt.Errorf("%w (%d > %d)", ErrBranchTooLong,
			len(ap.ChainMerkleBranch), MaxMerkleBranchLength)
	}

	rootHash := chainhash.FoldMerkleBranch(hashAuxBlock, ap.ChainMerkleBranch, int(ap.ChainIndex))
	rootBytes := reversedBytes(rootHash[:])

	coinbaseRoot := chainhash.FoldMerkleBranch(ap.CoinbaseTx.TxHash(), ap.MerkleBranch, 0)
	if coinbaseRoot != ap.ParentBlock.MerkleRoot {
		return ErrMerkleRootMismatch
	}

	if len(ap.CoinbaseTx.TxIn) == 0 {
		return ErrEmptyCoinbase
	}
	script := ap.CoinbaseTx.TxIn[0].SignatureScript
	afterRoot, _, err := txscript.FindChainMerkleRoot(script, rootBytes)
	if err != nil {
		return fmt.Errorf("auxpow: %w", err)
	}

	if len(script)-afterRoot < 8 {
		return ErrMissingSizeNonce
	}
	size := littleEndian.Uint32(script[afterRoot : afterRoot+4])
	nonce := littleEndian.Uint32(script[afterRoot+4 : afterRoot+8])

	merkleHeight := uint(len(ap.ChainMerkleBranch))
	if size != uint32(1)<<merkleHeight {
		return fmt.Errorf("%w (got %d, want %d)", ErrWrongMerkleSize, size, uint32(1)<<merkleHeight)
	}

	if uint32(ap.ChainIndex) != ExpectedIndex(nonce, chainID, merkleHeight) {
		return ErrWrongIndex
	}

	return nil
}

// ExpectedIndex derives which slot in an h-level chain merkle tree a given
// chain ID should occupy for a parent block mined with the given nonce.
// This is the reference implementation's pseudo-random slot assignment —
// a 32-bit linear congruential generator, not a cryptographic primitive —
// so every arithmetic step must wrap at 32 bits exactly as it does in C.
func ExpectedIndex(nonce uint32, chainID int32, h uint) uint32 {
	r := nonce
	r = r*1103515245 + 12345
	r += uint32(chainID)
	r = r*1103515245 + 12345
	return r % (uint32(1) << h)
}

// CreateAuxPow synthesizes a minimal, self-contained AuxPoW for header: a
// one-transaction parent block whose sole coinbase commits directly to
// header's hash (an empty chain merkle branch, chain index zero). This is
// the "solo merge-mine" path from the reference client's createAuxPow,
// used when there is no real parent-chain block to merge into — the
// caller still has to grind ParentBlock.Nonce until it meets the parent
// target before the result is a valid proof of work.
func CreateAuxPow(header *PureHeader) (*AuxPow, error) {
	childHash := header.BlockHash()
	inputData := reversedBytes(childHash[:])
	inputData = append(inputData, 1, 0, 0, 0, 0, 0, 0, 0)

	scriptSig, err := txscript.NewScriptBuilder().AddData(inputData).Script()
	if err != nil {
		return nil, fmt.Errorf("auxpow: building coinbase script: %w", err)
	}

	coinbase := NewMsgTx(1)
	coinbase.AddTxIn(&TxIn{SignatureScript: scriptSig, Sequence: 0xffffffff})
	coinbase.AddTxOut(&TxOut{Value: 0, PkScript: nil})

	parent := *header
	parent.Version = 1
	parent.MerkleRoot = coinbase.TxHash()
	parent.Nonce = 0

	return &AuxPow{
		CoinbaseTx:  coinbase,
		ParentBlock: parent,
	}, nil
}

// InitAuxPow ensures header carries an AuxPoW payload, synthesizing one
// with CreateAuxPow on first use, and returns the parent header so a miner
// can grind its nonce. It is idempotent: a header that already carries an
// AuxPoW is returned unchanged.
func InitAuxPow(header *BlockHeader) (*PureHeader, error) {
	if header.AuxPow == nil {
		header.SetAuxpowVersion(true)
		ap, err := CreateAuxPow(&header.PureHeader)
		if err != nil {
			return nil, err
		}
		header.AuxPow = ap
	}
	return &header.AuxPow.ParentBlock, nil
}

func reversedBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// Serialize writes the wire form of the AuxPoW payload to w: the coinbase
// transaction, a reserved 32-byte slot (always zero, ignored on read),
// the two merkle branches and their indices, and the parent header.
func (ap *AuxPow) Serialize(w io.Writer) error {
	if err := ap.CoinbaseTx.Serialize(w); err != nil {
		return err
	}
	var zero chainhash.Hash
	if _, err := w.Write(zero[:]); err != nil {
		return err
	}
	if err := writeHashBranch(w, ap.MerkleBranch); err != nil {
		return err
	}
	if err := writeInt32LE(w, ap.Index); err != nil {
		return err
	}
	if err := writeHashBranch(w, ap.ChainMerkleBranch); err != nil {
		return err
	}
	if err := writeInt32LE(w, ap.ChainIndex); err != nil {
		return err
	}
	return ap.ParentBlock.Serialize(w)
}

// Deserialize reads the wire form of an AuxPoW payload from r.
func (ap *AuxPow) Deserialize(r io.Reader) error {
	ap.CoinbaseTx = new(MsgTx)
	if err := ap.CoinbaseTx.Deserialize(r); err != nil {
		return err
	}
	var discard chainhash.Hash
	if _, err := io.ReadFull(r, discard[:]); err != nil {
		return err
	}
	branch, err := readHashBranch(r)
	if err != nil {
		return err
	}
	ap.MerkleBranch = branch
	if err := readInt32LE(r, &ap.Index); err != nil {
		return err
	}
	chainBranch, err := readHashBranch(r)
	if err != nil {
		return err
	}
	ap.ChainMerkleBranch = chainBranch
	if err := readInt32LE(r, &ap.ChainIndex); err != nil {
		return err
	}
	return ap.ParentBlock.Deserialize(r)
}

func writeHashBranch(w io.Writer, branch []chainhash.Hash) error {
	if err := WriteVarInt(w, uint64(len(branch))); err != nil {
		return err
	}
	for _, h := range branch {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	return nil
}

func readHashBranch(r io.Reader) ([]chainhash.Hash, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > MaxMerkleBranchLength {
		return nil, fmt.Errorf("auxpow: merkle branch length %d exceeds max %d",
			count, MaxMerkleBranchLength)
	}
	branch := make([]chainhash.Hash, count)
	for i := range branch {
		if _, err := io.ReadFull(r, branch[i][:]); err != nil {
			return nil, err
		}
	}
	return branch, nil
}
