package hashtrie

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Maps and sets support opaque snapshots via encoding/gob: a snapshot records
// the logical pairs only, never the internal trie shape, and decoding rebuilds
// the trie through the hasher of the decode target. Snapshots therefore
// round-trip to an equal collection even across differing hash seeds.
//
// The decode target must carry a hasher, i.e. it must have been created with
// Immutable or New (the hasher itself is not part of the snapshot).

// GobEncode serializes the pairs of the map.
func (m Map[K, V]) GobEncode() ([]byte, error) {
	keys := make([]K, 0, m.count)
	values := make([]V, 0, m.count)
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(keys); err != nil {
		return nil, fmt.Errorf("hashtrie: encoding snapshot: %w", err)
	}
	if err := enc.Encode(values); err != nil {
		return nil, fmt.Errorf("hashtrie: encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode replaces the contents of m with the pairs of a snapshot. The
// receiver keeps its hasher and value equality; data not encoding a valid
// snapshot fails with ErrMalformedSnapshot, leaving the receiver unchanged.
func (m *Map[K, V]) GobDecode(data []byte) error {
	if m.hasher == nil {
		return ErrNoHasher
	}
	dec := gob.NewDecoder(bytes.NewReader(data))
	var keys []K
	var values []V
	if err := dec.Decode(&keys); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if err := dec.Decode(&values); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if len(keys) != len(values) {
		return fmt.Errorf("%w: %d keys for %d values", ErrMalformedSnapshot, len(keys), len(values))
	}
	decoded := Map[K, V]{hasher: m.hasher, eqv: m.eqv}
	for i, k := range keys {
		decoded = decoded.Insert(k, values[i])
	}
	*m = decoded
	return nil
}

// GobEncode serializes the elements of the set.
func (s Set[K]) GobEncode() ([]byte, error) {
	elems := make([]K, 0, s.Len())
	for el := range s.All() {
		elems = append(elems, el)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(elems); err != nil {
		return nil, fmt.Errorf("hashtrie: encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode replaces the contents of s with the elements of a snapshot. The
// receiver must carry a hasher, like the Map decode target.
func (s *Set[K]) GobDecode(data []byte) error {
	if s.m.hasher == nil {
		return ErrNoHasher
	}
	var elems []K
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&elems); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	decoded := Set[K]{m: Map[K, struct{}]{hasher: s.m.hasher}}
	for _, el := range elems {
		decoded = decoded.Insert(el)
	}
	*s = decoded
	return nil
}
