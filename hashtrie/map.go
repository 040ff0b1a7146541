package hashtrie

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/persistent/maybe"
)

// Map is a persistent associative container mapping keys to values. Every
// modifying operation returns a new incarnation of the map and leaves the
// receiver — and every other map sharing nodes with it — untouched, making
// maps safe for any number of concurrent readers.
//
// Create maps with Immutable, New, From or Convert. Lookups on the zero value
// behave like lookups on an empty map, but inserting requires a configured
// hasher.
//
// Map deliberately has no hash code of its own: a type with an insert/remove
// vocabulary reads as mutable, and clients should not be tempted to use maps
// as keys of other maps. Stacks do hash, see package stack.
type Map[K, V any] struct {
	hasher persistent.Hasher[K]
	eqv    func(a, b V) bool
	count  int
	root   node[K, V]
}

// Immutable constructs an empty persistent map for comparable keys, hashing
// with the module's default hasher. Use it like this:
//
//	m := hashtrie.Immutable[string, int]()
//	m = m.Insert("magic", 42)
//	value, found := m.Find("magic")
func Immutable[K comparable, V any](opts ...Option[K, V]) Map[K, V] {
	m := Map[K, V]{hasher: persistent.Comparable[K]()}
	for _, option := range opts {
		m = option(m)
	}
	return m
}

// New constructs an empty persistent map with a client-provided hasher. This
// is the constructor for key types which are not comparable, or which need a
// non-standard equality relation.
func New[K, V any](hasher persistent.Hasher[K], opts ...Option[K, V]) Map[K, V] {
	assertThat(hasher != nil, "hasher must not be nil")
	m := Map[K, V]{hasher: hasher}
	for _, option := range opts {
		m = option(m)
	}
	return m
}

// Option is a type to help initializing maps at creation time.
type Option[K, V any] func(Map[K, V]) Map[K, V]

// WithHasher is an option to replace the hasher of a map at creation time.
func WithHasher[K, V any](hasher persistent.Hasher[K]) Option[K, V] {
	return func(m Map[K, V]) Map[K, V] {
		assertThat(hasher != nil, "hasher must not be nil")
		m.hasher = hasher
		return m
	}
}

// WithValueEquality is an option to set the equality relation on values, used
// by Map.Equal and by the no-op detection of Map.Insert. The default relation
// compares values as interfaces, treating values of uncomparable dynamic type
// as never equal.
func WithValueEquality[K, V any](eq func(a, b V) bool) Option[K, V] {
	return func(m Map[K, V]) Map[K, V] {
		m.eqv = eq
		return m
	}
}

// From builds a persistent map holding all pairs of a native Go map.
func From[K comparable, V any](src map[K]V) Map[K, V] {
	m := Immutable[K, V]()
	for k, v := range src {
		m = m.Insert(k, v)
	}
	return m
}

// Convert rehomes a map-shaped source into a persistent map. A source which
// already is a Map of matching type is returned unchanged, without any
// allocation; a native Go map is copied pair by pair. Any other source fails
// with ErrUnconvertible.
func Convert[K comparable, V any](source any) (Map[K, V], error) {
	switch src := source.(type) {
	case Map[K, V]:
		return src, nil
	case map[K]V:
		return From(src), nil
	}
	return Map[K, V]{}, fmt.Errorf("%w: %T", ErrUnconvertible, source)
}

// --- API -------------------------------------------------------------------

// Len returns the number of pairs in the map, in O(1).
func (m Map[K, V]) Len() int {
	return m.count
}

// Has tells whether a value is stored under key.
func (m Map[K, V]) Has(key K) bool {
	_, found := m.Find(key)
	return found
}

// Find locates a key in the map, if present, and returns the value associated
// with it. If key is not found, the zero value for type V is returned,
// together with found=false.
func (m Map[K, V]) Find(key K) (V, bool) {
	if m.root == nil {
		var none V
		return none, false
	}
	return m.root.find(0, m.hasher.Hash(key), key, m.hasher)
}

// Lookup is Find with an optional-value result.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	return maybe.FromFound(m.Find(key))
}

// Get returns the value stored under key, or a missing-key error carrying the
// offending key (see KeyError). Callers which prefer not to handle an error
// should pre-check with Has or use Find or Lookup.
func (m Map[K, V]) Get(key K) (V, error) {
	if value, found := m.Find(key); found {
		return value, nil
	}
	var none V
	return none, KeyError[K]{Key: key}
}

// Insert returns a copy of the map with a new pair inserted. If a value is
// already stored under key, it is replaced (in a new incarnation of the map,
// nevertheless). Inserting a value equal to the one already present returns
// the receiver unchanged.
func (m Map[K, V]) Insert(key K, value V) Map[K, V] {
	assertThat(m.hasher != nil, "map has no hasher; create it with Immutable or New")
	hash := m.hasher.Hash(key)
	root := m.root
	if root == nil {
		root = &bitmapNode[K, V]{}
	} else if old, found := root.find(0, hash, key, m.hasher); found && m.valueEq()(old, value) {
		return m // no need for modification
	}
	newRoot, added := root.assoc(0, hash, key, value, m.hasher)
	newCount := m.count
	if added {
		newCount++
	}
	tracer().Debugf("map.insert %v: size %d → %d", key, m.count, newCount)
	return Map[K, V]{hasher: m.hasher, eqv: m.eqv, count: newCount, root: newRoot}
}

// Remove returns a copy of the map with the pair stored under key removed.
// If key is absent, the receiver is returned together with a missing-key
// error. Use Discard for removal as a silent no-op.
func (m Map[K, V]) Remove(key K) (Map[K, V], error) {
	if !m.Has(key) {
		return m, KeyError[K]{Key: key}
	}
	return m.Discard(key), nil
}

// Discard returns a copy of the map with the pair stored under key removed,
// if present. If key is absent, the receiver is returned unchanged.
func (m Map[K, V]) Discard(key K) Map[K, V] {
	if m.root == nil {
		return m
	}
	newRoot, deleted := m.root.without(0, m.hasher.Hash(key), key, m.hasher)
	if !deleted {
		return m
	}
	tracer().Debugf("map.discard %v: size %d → %d", key, m.count, m.count-1)
	return Map[K, V]{hasher: m.hasher, eqv: m.eqv, count: m.count - 1, root: newRoot}
}

// Update merges maps into the receiver, left to right: on key conflicts the
// rightmost source wins. Update without arguments returns the receiver.
func (m Map[K, V]) Update(others ...Map[K, V]) Map[K, V] {
	result := m
	for _, other := range others {
		for k, v := range other.All() {
			result = result.Insert(k, v)
		}
	}
	return result
}

// --- Iteration views -------------------------------------------------------

// All returns an iterator over all pairs of the map. The sequence is lazy and
// restartable; its order is unspecified, but stable for one map value.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.root != nil {
			m.root.each(yield)
		}
	}
}

// Keys returns an iterator over the keys of the map. Key membership is
// consistent with Has.
func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		if m.root != nil {
			m.root.each(func(k K, _ V) bool { return yield(k) })
		}
	}
}

// Values returns an iterator over the values of the map.
func (m Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		if m.root != nil {
			m.root.each(func(_ K, v V) bool { return yield(v) })
		}
	}
}

// --- Equality and rendering ------------------------------------------------

// Equal tells whether two maps hold equal pairs: same size, and every key of
// the receiver maps to an equal value in other. Equality is independent of
// insertion history and of the internal trie shape. Values compare with the
// relation configured by WithValueEquality.
func (m Map[K, V]) Equal(other Map[K, V]) bool {
	if m.count != other.count {
		return false
	}
	eqv := m.valueEq()
	for k, v := range m.All() {
		w, found := other.Find(k)
		if !found || !eqv(v, w) {
			return false
		}
	}
	return true
}

func (m Map[K, V]) valueEq() func(a, b V) bool {
	if m.eqv != nil {
		return m.eqv
	}
	return eqAny[V]
}

// eqAny compares two values as interfaces. Values with uncomparable dynamic
// types never compare equal.
func eqAny[V any](a, b V) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if !reflect.TypeOf(x).Comparable() {
		return false
	}
	return x == y
}

// String renders all pairs of the map in an unspecified order. The rendering
// is meant for debugging; it is not part of the equality contract.
func (m Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("HashTrieMap{")
	sep := ""
	for k, v := range m.All() {
		fmt.Fprintf(&sb, "%s%v: %v", sep, k, v)
		sep = ", "
	}
	sb.WriteByte('}')
	return sb.String()
}
