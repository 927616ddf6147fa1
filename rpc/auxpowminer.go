// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc provides the external-collaborator surface a merge-mining
// pool driver talks to: a cache of outstanding AuxPoW block templates and
// the submit path that turns a mined AuxPoW back into an accepted header.
// There is no JSON-RPC/HTTP transport here — that wire format is out of
// scope — callers get and return typed Go values directly.
package rpc

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/Bitcoinclassicxbt/classic2/blockchain"
	"github.com/Bitcoinclassicxbt/classic2/chaincfg"
	"github.com/Bitcoinclassicxbt/classic2/chainhash"
	"github.com/Bitcoinclassicxbt/classic2/wire"
	"github.com/btcsuite/btcutil"
)

// templateRefreshInterval bounds how long a handed-out template is reused
// before a fresh one is built, mirroring the reference client's 60-second
// staleness window. There is no mempool here to additionally invalidate
// on, since transaction relay is out of scope; tip movement and this
// timeout are the only refresh triggers.
const templateRefreshInterval = 60

// TemplateBuilder constructs a candidate block paying its coinbase to
// payoutScript. Block assembly (transaction selection, fee calculation)
// is out of scope for this module; callers supply their own.
type TemplateBuilder func(payoutScript []byte) (*wire.Block, error)

// AcceptFunc hands a fully-mined block (AuxPoW attached) to whatever
// validation/storage pipeline the caller runs. Out of scope for this
// module; AuxpowMiner only wires the submission path up to this call.
type AcceptFunc func(block *wire.Block) error

// AuxpowMiner is the template cache and mutex discipline an external
// merge-miner collaborator talks to: CreateAuxBlock hands out a block to
// mine against, SubmitAuxBlock takes the mined AuxPoW back. A single mutex
// guards the struct's cache state. CreateAuxBlock holds it for the whole
// call; SubmitAuxBlock holds it only while looking up and copying the saved
// block, and decodes the AuxPoW and calls the AcceptFunc without it.
type AuxpowMiner struct {
	mu sync.Mutex

	build  TemplateBuilder
	accept AcceptFunc
	params *chaincfg.Params

	blocks    map[chainhash.Hash]*wire.Block
	curBlocks map[string]*wire.Block

	extraNonce uint32
	prevHash   chainhash.Hash
	startTime  int64
}

// NewAuxpowMiner returns an empty template cache that builds templates via
// build and hands accepted blocks to accept.
func NewAuxpowMiner(build TemplateBuilder, accept AcceptFunc, params *chaincfg.Params) *AuxpowMiner {
	return &AuxpowMiner{
		build:     build,
		accept:    accept,
		params:    params,
		blocks:    make(map[chainhash.Hash]*wire.Block),
		curBlocks: make(map[string]*wire.Block),
	}
}

// AuxBlockTemplate is the typed equivalent of the reference client's
// createauxblock RPC result.
type AuxBlockTemplate struct {
	Hash              chainhash.Hash
	ChainID           int32
	PreviousBlockHash chainhash.Hash
	CoinbaseValue     int64
	Bits              uint32
	Height            int32
	Target            chainhash.Hash
}

// CreateAuxBlock returns a template paying its coinbase to payoutScript,
// reusing a cached template for the same script and tip when one is still
// fresh, or building (and AuxPoW-initializing) a new one otherwise.
// tipHash/tipHeight describe the current best header; now is the caller's
// clock.
func (m *AuxpowMiner) CreateAuxBlock(payoutScript []byte, tipHash chainhash.Hash, tipHeight int32, now int64) (*AuxBlockTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	block, err := m.currentBlock(payoutScript, tipHash, now)
	if err != nil {
		return nil, err
	}

	if block.Header.AuxPow == nil {
		return nil, fmt.Errorf("rpc: auxpow data missing from constructed block")
	}
	if len(block.Transactions) == 0 || len(block.Transactions[0].TxOut) == 0 {
		return nil, fmt.Errorf("rpc: constructed block has invalid coinbase")
	}

	target := blockchain.CompactToBig(block.Header.Bits)
	if target.Sign() <= 0 {
		return nil, fmt.Errorf("rpc: invalid difficulty bits in block")
	}
	// target.Bytes() is big-endian; a chainhash.Hash is stored
	// little-endian (the inverse of blockchain.HashToBig), so the bytes
	// are reversed and left-aligned, leaving the zero padding at the
	// high-index end.
	var targetHash chainhash.Hash
	targetBytes := target.Bytes()
	for i, b := range targetBytes {
		targetHash[len(targetBytes)-1-i] = b
	}

	return &AuxBlockTemplate{
		Hash:              block.Header.BlockHash(),
		ChainID:           block.Header.ChainID(),
		PreviousBlockHash: tipHash,
		CoinbaseValue:     block.Transactions[0].TxOut[0].Value,
		Bits:              block.Header.Bits,
		Height:            tipHeight + 1,
		Target:            targetHash,
	}, nil
}

// currentBlock returns the cached template for payoutScript, rebuilding
// it when the tip has moved or the cache entry is stale. Must be called
// with mu held.
func (m *AuxpowMiner) currentBlock(payoutScript []byte, tipHash chainhash.Hash, now int64) (*wire.Block, error) {
	key := string(payoutScript)
	cur := m.curBlocks[key]

	if cur == nil || m.prevHash != tipHash || now-m.startTime > templateRefreshInterval {
		if m.prevHash != tipHash {
			m.blocks = make(map[chainhash.Hash]*wire.Block)
			m.curBlocks = make(map[string]*wire.Block)
			m.extraNonce = 0
		}

		newBlock, err := m.build(payoutScript)
		if err != nil {
			return nil, fmt.Errorf("rpc: building template: %w", err)
		}

		m.extraNonce++
		m.prevHash = tipHash
		m.startTime = now

		cur = newBlock
		m.curBlocks[key] = cur

		if len(cur.Transactions) > 0 && len(cur.Transactions[0].TxOut) > 0 {
			value := btcutil.Amount(cur.Transactions[0].TxOut[0].Value)
			log.Debugf("rpc: built auxpow template paying %s to %x", value, payoutScript)
		}
	}

	if !cur.Header.IsAuxpow() || cur.Header.AuxPow == nil {
		if _, err := wire.InitAuxPow(&cur.Header); err != nil {
			return nil, fmt.Errorf("rpc: initializing auxpow: %w", err)
		}
	}

	// Keyed by the hash after InitAuxPow has possibly flipped the AuxPoW
	// version bit, so this always matches what CreateAuxBlock hands out.
	m.blocks[cur.Header.BlockHash()] = cur

	return cur, nil
}

// SubmitAuxBlock attaches the AuxPoW serialized in auxpowHex to the
// previously handed-out block identified by hashHex and passes the result
// to the configured AcceptFunc.
func (m *AuxpowMiner) SubmitAuxBlock(hashHex, auxpowHex string) error {
	block, err := m.lookupSavedBlock(hashHex)
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(auxpowHex)
	if err != nil || len(raw) == 0 {
		return fmt.Errorf("rpc: invalid auxpow data")
	}

	ap := new(wire.AuxPow)
	if err := ap.Deserialize(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("rpc: deserializing auxpow: %w", err)
	}
	block.Header.AuxPow = ap
	block.Header.SetAuxpowVersion(true)

	gotHash := block.Header.BlockHash().String()
	if gotHash != hashHex {
		return fmt.Errorf("rpc: submitted auxpow changed the block hash (got %s, want %s)",
			gotHash, hashHex)
	}

	return m.accept(block)
}

func (m *AuxpowMiner) lookupSavedBlock(hashHex string) (*wire.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash, err := chainhash.NewHashFromStr(hashHex)
	if err != nil {
		return nil, fmt.Errorf("rpc: invalid block hash: %w", err)
	}

	block, ok := m.blocks[*hash]
	if !ok {
		return nil, fmt.Errorf("rpc: block hash unknown")
	}

	// Submission mutates AuxPow/version below; hand back a shallow copy
	// so the cached template (and any other outstanding submission for
	// the same hash) isn't corrupted by a partially-applied attempt.
	copied := *block
	return &copied, nil
}
