package persistent

import "hash/maphash"

// Hasher is the capability pair which the persistent collections are generic
// over: a hash function together with an equality relation consistent with it.
// Clients may provide their own Hasher to control how keys are located, e.g.
// for key types which are not comparable, or for case-insensitive string keys.
//
// Implementations must guarantee
//
//	Equal(a, b)  ⇒  Hash(a) == Hash(b)
//
// Mutating a key in a way that changes its hash while it is stored in a
// collection is undefined behaviour.
type Hasher[K any] interface {
	// Hash returns a 64-bit hash code for a key.
	Hash(key K) uint64
	// Equal tells whether two keys are to be considered the same.
	Equal(a, b K) bool
}

// seed makes hash codes stable within a process, but deliberately not across
// processes (snapshots re-hash on decoding, see package hashtrie).
var seed = maphash.MakeSeed()

// Comparable returns a Hasher for any comparable key type, hashing with
// hash/maphash and comparing with ==. This is the default hasher of the
// collection types in this module.
//
// Note that for interface-typed keys the comparable constraint is fulfilled
// statically, but hashing a value with an uncomparable dynamic type (a slice,
// say) will panic at runtime, just as inserting it into a native Go map would.
func Comparable[K comparable]() Hasher[K] {
	return comparableHasher[K]{}
}

type comparableHasher[K comparable] struct{}

func (comparableHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(seed, key)
}

func (comparableHasher[K]) Equal(a, b K) bool {
	return a == b
}

// constants for the FNV-1a hash algorithm
const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Strings returns a Hasher for string keys which hashes with FNV-1a. Unlike
// Comparable, its hash codes are stable across processes.
func Strings() Hasher[string] {
	return stringHasher{}
}

type stringHasher struct{}

func (stringHasher) Hash(key string) uint64 {
	hash := offset64
	for _, codepoint := range key {
		hash ^= uint64(codepoint)
		hash *= prime64
	}
	return hash
}

func (stringHasher) Equal(a, b string) bool {
	return a == b
}

// HasherFunc bundles an ad-hoc hash function and equality relation into a
// Hasher. If eq is nil, keys hash to equal codes iff they are equal, i.e.
// equality is derived from the hash function alone.
func HasherFunc[K any](hash func(K) uint64, eq func(a, b K) bool) Hasher[K] {
	if eq == nil {
		eq = func(a, b K) bool { return hash(a) == hash(b) }
	}
	return funcHasher[K]{hash: hash, eq: eq}
}

type funcHasher[K any] struct {
	hash func(K) uint64
	eq   func(a, b K) bool
}

func (h funcHasher[K]) Hash(key K) uint64 {
	return h.hash(key)
}

func (h funcHasher[K]) Equal(a, b K) bool {
	return h.eq(a, b)
}
