package hashtrie

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/npillmayer/persistent"
)

const (
	chunkBits uint   = 5 // consume the hash 5 bits per level ⇒ branching degree 32
	nodeCap   uint32 = 1 << chunkBits
	chunkMask uint64 = uint64(nodeCap) - 1
)

// node is the closed variant of trie node kinds: a bitmap-indexed branch
// (bitmapNode) or a bucket of fully hash-colliding pairs (collisionNode).
// A single-pair leaf is not a node of its own, but an inline entry of a
// bitmapNode.
//
// Nodes are immutable once constructed and may be shared by any number of map
// values. Modifying operations return a new incarnation of the node; an
// unchanged receiver is returned as-is, so that callers can detect no-ops by
// the reported flag.
type node[K, V any] interface {
	// find locates the value stored under key, if any.
	find(shift uint, hash uint64, key K, h persistent.Hasher[K]) (V, bool)
	// assoc stores a pair, cloning the path to it. The flag reports whether the
	// pair was added (false: an existing value was replaced).
	assoc(shift uint, hash uint64, key K, value V, h persistent.Hasher[K]) (node[K, V], bool)
	// without removes a pair, cloning the path to it. A nil node together with
	// flag true means the subtree became empty. The flag reports whether a pair
	// was indeed removed.
	without(shift uint, hash uint64, key K, h persistent.Hasher[K]) (node[K, V], bool)
	// singlePair reports whether the subtree holds exactly one inline pair, to
	// be collapsed into the parent after a removal.
	singlePair() (entry[K, V], bool)
	// each walks all pairs of the subtree; stops early when yield returns false.
	each(yield func(K, V) bool) bool
}

// entry is a slot of a bitmapNode: either an inline key/value pair, or a link
// to a sub-node (child != nil; key and value are unused then). Collision
// buckets reuse entry with child == nil for their pairs.
type entry[K, V any] struct {
	key   K
	value V
	child node[K, V]
}

func chunk(shift uint, hash uint64) uint32 {
	return uint32((hash >> shift) & chunkMask)
}

func bitpos(shift uint, hash uint64) uint32 {
	return 1 << chunk(shift, hash)
}

// index maps a bit position to a slot index in the sparse entries array.
func index(bitmap, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}

// --- Bitmap-indexed branch node --------------------------------------------

type bitmapNode[K, V any] struct {
	bitmap  uint32
	entries []entry[K, V]
}

func (n *bitmapNode[K, V]) find(shift uint, hash uint64, key K, h persistent.Hasher[K]) (V, bool) {
	bit := bitpos(shift, hash)
	if n.bitmap&bit == 0 {
		var none V
		return none, false
	}
	ent := n.entries[index(n.bitmap, bit)]
	if ent.child != nil {
		return ent.child.find(shift+chunkBits, hash, key, h)
	}
	if h.Equal(key, ent.key) {
		return ent.value, true
	}
	var none V
	return none, false
}

func (n *bitmapNode[K, V]) assoc(shift uint, hash uint64, key K, value V, h persistent.Hasher[K]) (node[K, V], bool) {
	bit := bitpos(shift, hash)
	idx := index(n.bitmap, bit)
	if n.bitmap&bit == 0 { // free slot ⇒ insert an inline pair
		newEntries := make([]entry[K, V], len(n.entries)+1)
		copy(newEntries[:idx], n.entries[:idx])
		newEntries[idx] = entry[K, V]{key: key, value: value}
		copy(newEntries[idx+1:], n.entries[idx:])
		return &bitmapNode[K, V]{n.bitmap | bit, newEntries}, true
	}
	ent := n.entries[idx]
	if ent.child != nil { // occupied by a sub-node ⇒ descend
		newChild, added := ent.child.assoc(shift+chunkBits, hash, key, value, h)
		return n.withReplacedEntry(idx, entry[K, V]{child: newChild}), added
	}
	if h.Equal(key, ent.key) { // same key ⇒ replace value
		return n.withReplacedEntry(idx, entry[K, V]{key: key, value: value}), false
	}
	// slot taken by a different key ⇒ push both pairs one level down
	tracer().Debugf("hashtrie: slot clash of %v and %v at shift %d", ent.key, key, shift)
	newChild := combine(shift+chunkBits, ent.key, ent.value, hash, key, value, h)
	return n.withReplacedEntry(idx, entry[K, V]{child: newChild}), true
}

func (n *bitmapNode[K, V]) without(shift uint, hash uint64, key K, h persistent.Hasher[K]) (node[K, V], bool) {
	bit := bitpos(shift, hash)
	if n.bitmap&bit == 0 {
		return n, false
	}
	idx := index(n.bitmap, bit)
	ent := n.entries[idx]
	if ent.child != nil {
		newChild, deleted := ent.child.without(shift+chunkBits, hash, key, h)
		if !deleted {
			return n, false
		}
		if newChild == nil { // sub-tree became empty
			if n.bitmap == bit {
				return nil, true
			}
			return n.withoutEntry(bit, idx), true
		}
		if pair, ok := newChild.singlePair(); ok {
			// collapse a now-singleton subtree back into an inline pair,
			// keeping the trie minimal
			tracer().Debugf("hashtrie: collapsing singleton subtree at shift %d", shift)
			return n.withReplacedEntry(idx, pair), true
		}
		return n.withReplacedEntry(idx, entry[K, V]{child: newChild}), true
	}
	if h.Equal(key, ent.key) {
		if n.bitmap == bit {
			return nil, true
		}
		return n.withoutEntry(bit, idx), true
	}
	return n, false
}

func (n *bitmapNode[K, V]) singlePair() (entry[K, V], bool) {
	if len(n.entries) == 1 && n.entries[0].child == nil {
		return n.entries[0], true
	}
	return entry[K, V]{}, false
}

func (n *bitmapNode[K, V]) each(yield func(K, V) bool) bool {
	for _, ent := range n.entries {
		if ent.child != nil {
			if !ent.child.each(yield) {
				return false
			}
		} else if !yield(ent.key, ent.value) {
			return false
		}
	}
	return true
}

func (n *bitmapNode[K, V]) withReplacedEntry(idx int, ent entry[K, V]) *bitmapNode[K, V] {
	return &bitmapNode[K, V]{n.bitmap, replaceEntry(n.entries, idx, ent)}
}

func (n *bitmapNode[K, V]) withoutEntry(bit uint32, idx int) *bitmapNode[K, V] {
	return &bitmapNode[K, V]{n.bitmap ^ bit, cutEntry(n.entries, idx)}
}

// combine builds the smallest subtree holding two pairs with distinct keys.
// For fully identical hashes this is a collision bucket; otherwise the pairs
// part ways at the first level where their hash chunks differ.
func combine[K, V any](shift uint, k1 K, v1 V, h2 uint64, k2 K, v2 V, h persistent.Hasher[K]) node[K, V] {
	h1 := h.Hash(k1)
	if h1 == h2 {
		tracer().Debugf("hashtrie: full hash collision of %v and %v on %#x", k1, k2, h1)
		return &collisionNode[K, V]{h1, []entry[K, V]{{key: k1, value: v1}, {key: k2, value: v2}}}
	}
	var n node[K, V] = &bitmapNode[K, V]{}
	n, _ = n.assoc(shift, h1, k1, v1, h)
	n, _ = n.assoc(shift, h2, k2, v2, h)
	return n
}

// --- Collision bucket -------------------------------------------------------

// collisionNode buckets pairs whose keys all hash to the same full 64-bit
// code. Invariant: at least two pairs, pairwise distinct keys.
type collisionNode[K, V any] struct {
	hash    uint64
	entries []entry[K, V]
}

func (n *collisionNode[K, V]) find(shift uint, hash uint64, key K, h persistent.Hasher[K]) (V, bool) {
	if idx := n.findIndex(key, h); idx >= 0 {
		return n.entries[idx].value, true
	}
	var none V
	return none, false
}

func (n *collisionNode[K, V]) assoc(shift uint, hash uint64, key K, value V, h persistent.Hasher[K]) (node[K, V], bool) {
	if hash == n.hash {
		if idx := n.findIndex(key, h); idx >= 0 {
			return &collisionNode[K, V]{n.hash, replaceEntry(n.entries, idx, entry[K, V]{key: key, value: value})}, false
		}
		newEntries := make([]entry[K, V], len(n.entries)+1)
		copy(newEntries, n.entries)
		newEntries[len(n.entries)] = entry[K, V]{key: key, value: value}
		return &collisionNode[K, V]{n.hash, newEntries}, true
	}
	// differing hash ⇒ wrap the bucket into a branch and retry there
	wrap := &bitmapNode[K, V]{bitpos(shift, n.hash), []entry[K, V]{{child: n}}}
	return wrap.assoc(shift, hash, key, value, h)
}

func (n *collisionNode[K, V]) without(shift uint, hash uint64, key K, h persistent.Hasher[K]) (node[K, V], bool) {
	idx := n.findIndex(key, h)
	if idx < 0 {
		return n, false
	}
	if len(n.entries) == 1 {
		return nil, true
	}
	return &collisionNode[K, V]{n.hash, cutEntry(n.entries, idx)}, true
}

func (n *collisionNode[K, V]) singlePair() (entry[K, V], bool) {
	if len(n.entries) == 1 {
		return n.entries[0], true
	}
	return entry[K, V]{}, false
}

func (n *collisionNode[K, V]) each(yield func(K, V) bool) bool {
	for _, ent := range n.entries {
		if !yield(ent.key, ent.value) {
			return false
		}
	}
	return true
}

func (n *collisionNode[K, V]) findIndex(key K, h persistent.Hasher[K]) int {
	for i, ent := range n.entries {
		if h.Equal(key, ent.key) {
			return i
		}
	}
	return -1
}

// --- Helpers ----------------------------------------------------------------

func replaceEntry[K, V any](entries []entry[K, V], idx int, ent entry[K, V]) []entry[K, V] {
	newEntries := append([]entry[K, V](nil), entries...)
	newEntries[idx] = ent
	return newEntries
}

func cutEntry[K, V any](entries []entry[K, V], idx int) []entry[K, V] {
	newEntries := make([]entry[K, V], len(entries)-1)
	copy(newEntries[:idx], entries[:idx])
	copy(newEntries[idx:], entries[idx+1:])
	return newEntries
}

func (n *bitmapNode[K, V]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, ent := range n.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		if ent.child != nil {
			b.WriteString("▪︎")
		} else {
			b.WriteString(fmt.Sprintf("%v", ent.key))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func (n *collisionNode[K, V]) String() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("coll(%#x)[", n.hash))
	for i, ent := range n.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(fmt.Sprintf("%v", ent.key))
	}
	b.WriteByte(']')
	return b.String()
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("hashtrie: "+msg, msgargs...)
		panic(msg)
	}
}
