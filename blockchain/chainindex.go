// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/Bitcoinclassicxbt/classic2/chainhash"
	"github.com/decred/dcrd/lru"
)

// BlockNode is a read-only view of one header's position in the chain: just
// enough of its header fields, plus a link to its parent, for the
// difficulty engine and header-acceptance checks to walk backward through.
// It intentionally carries no transaction or AuxPoW data — those belong to
// wire.Block/wire.BlockHeader, not to the index.
type BlockNode struct {
	Hash      chainhash.Hash
	Height    int32
	Version   int32
	Bits      uint32
	Timestamp int64
	Parent    *BlockNode
}

// ChainID returns the high 16 bits of the node's version field, the same
// bitfield wire.PureHeader.ChainID reads.
func (n *BlockNode) ChainID() int32 {
	return n.Version / (1 << 16)
}

// ancestorKey is the lookup key for ChainIndex's ancestor memoization
// cache: a node is uniquely identified by hash, but height is included so
// a single cache entry answers "the ancestor of this node at this height"
// without re-walking Parent pointers.
type ancestorKey struct {
	hash   chainhash.Hash
	height int32
}

// ChainIndex is the in-memory view of every header accepted so far, keyed
// by hash, with a bounded LRU memoizing recent ancestor-at-height lookups.
// It is a read-only ancestor view over the accepted chain, used by the
// difficulty engine to reach back through its averaging/retarget windows.
type ChainIndex struct {
	nodes     map[chainhash.Hash]*BlockNode
	ancestors lru.KVCache
}

// NewChainIndex returns an empty chain index with an ancestor cache sized
// for a handful of in-flight retarget/averaging windows.
func NewChainIndex() *ChainIndex {
	return &ChainIndex{
		nodes:     make(map[chainhash.Hash]*BlockNode),
		ancestors: lru.NewKVCache(4096),
	}
}

// LookupNode returns the node for hash, if the index has accepted it.
func (ci *ChainIndex) LookupNode(hash chainhash.Hash) (*BlockNode, bool) {
	node, ok := ci.nodes[hash]
	return node, ok
}

// AddNode records node in the index, making it reachable by hash. Its
// ancestors are not added here; Ancestor reaches them through Parent
// links.
func (ci *ChainIndex) AddNode(node *BlockNode) {
	ci.nodes[node.Hash] = node
}

// Ancestor returns node's ancestor at the given height, or nil if height
// is negative or above node's own height. The underlying walk is O(depth)
// the first time a given (node, height) pair is asked for and O(1)
// afterward courtesy of the LRU memoization.
func (ci *ChainIndex) Ancestor(node *BlockNode, height int32) *BlockNode {
	if node == nil || height < 0 || height > node.Height {
		return nil
	}
	if height == node.Height {
		return node
	}

	key := ancestorKey{hash: node.Hash, height: height}
	if cached, ok := ci.ancestors.Lookup(key); ok {
		return cached.(*BlockNode)
	}

	n := node
	for n != nil && n.Height > height {
		n = n.Parent
	}
	ci.ancestors.Add(key, n)
	return n
}
