package stack

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Stacks support opaque snapshots via encoding/gob. A snapshot records the
// elements bottom to top; decoding rebuilds the stack by pushing them in that
// order, so a snapshot round-trips to an equal stack.

// GobEncode serializes the elements of the stack, bottom to top.
func (s Stack[T]) GobEncode() ([]byte, error) {
	elems := make([]T, s.length)
	i := s.length
	for cell := s.head; cell != nil; cell = cell.rest {
		i--
		elems[i] = cell.value
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(elems); err != nil {
		return nil, fmt.Errorf("stack: encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode replaces the contents of s with the elements of a snapshot. Data
// not encoding a valid snapshot fails, leaving the receiver unchanged.
func (s *Stack[T]) GobDecode(data []byte) error {
	var elems []T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&elems); err != nil {
		return fmt.Errorf("stack: malformed snapshot: %w", err)
	}
	*s = From(elems...)
	return nil
}
