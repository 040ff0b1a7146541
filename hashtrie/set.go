package hashtrie

import (
	"fmt"
	"iter"
	"strings"

	"github.com/npillmayer/persistent"
)

// Set is a persistent collection of unique elements, layered on Map with
// empty-struct values. Like Map, every modifying operation returns a new
// incarnation of the set, sharing structure with the receiver.
type Set[K any] struct {
	m Map[K, struct{}]
}

// ImmutableSet constructs an empty persistent set for comparable elements.
func ImmutableSet[K comparable]() Set[K] {
	return Set[K]{m: Immutable[K, struct{}]()}
}

// NewSet constructs an empty persistent set with a client-provided hasher.
func NewSet[K any](hasher persistent.Hasher[K]) Set[K] {
	return Set[K]{m: New[K, struct{}](hasher)}
}

// SetOf builds a persistent set holding the given elements.
func SetOf[K comparable](elems ...K) Set[K] {
	s := ImmutableSet[K]()
	for _, el := range elems {
		s = s.Insert(el)
	}
	return s
}

// Len returns the number of elements in the set, in O(1).
func (s Set[K]) Len() int {
	return s.m.Len()
}

// Has tells whether the set contains an element.
func (s Set[K]) Has(el K) bool {
	return s.m.Has(el)
}

// Insert returns a copy of the set with el added. Inserting an element
// already present returns the receiver unchanged.
func (s Set[K]) Insert(el K) Set[K] {
	s.m = s.m.Insert(el, struct{}{})
	return s
}

// Remove returns a copy of the set with el removed, or the receiver together
// with a missing-key error if el is not an element.
func (s Set[K]) Remove(el K) (Set[K], error) {
	m, err := s.m.Remove(el)
	if err != nil {
		return s, err
	}
	return Set[K]{m: m}, nil
}

// Discard returns a copy of the set with el removed, if present; the receiver
// unchanged otherwise.
func (s Set[K]) Discard(el K) Set[K] {
	s.m = s.m.Discard(el)
	return s
}

// All returns a lazy, restartable iterator over the elements of the set, in
// unspecified order.
func (s Set[K]) All() iter.Seq[K] {
	return s.m.Keys()
}

// Equal tells whether two sets hold the same elements.
func (s Set[K]) Equal(other Set[K]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for el := range s.All() {
		if !other.Has(el) {
			return false
		}
	}
	return true
}

// Union returns the set of elements present in either set.
func (s Set[K]) Union(other Set[K]) Set[K] {
	result := s
	for el := range other.All() {
		result = result.Insert(el)
	}
	return result
}

// Intersection returns the set of elements present in both sets.
func (s Set[K]) Intersection(other Set[K]) Set[K] {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	result := Set[K]{m: Map[K, struct{}]{hasher: s.m.hasher}}
	for el := range small.All() {
		if large.Has(el) {
			result = result.Insert(el)
		}
	}
	return result
}

// String renders the elements of the set in an unspecified order.
func (s Set[K]) String() string {
	var sb strings.Builder
	sb.WriteString("HashTrieSet{")
	sep := ""
	for el := range s.All() {
		fmt.Fprintf(&sb, "%s%v", sep, el)
		sep = ", "
	}
	sb.WriteByte('}')
	return sb.String()
}
