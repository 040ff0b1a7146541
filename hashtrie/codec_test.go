package hashtrie

import (
	"bytes"
	"encoding/gob"
	"errors"
	"testing"
)

func TestMapGobRoundTrip(t *testing.T) {
	m := Immutable[int, int]().Insert(1, 2).Insert(3, 4)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		t.Fatalf("unexpected encoding error: %v", err)
	}
	restored := Immutable[int, int]()
	if err := gob.NewDecoder(&buf).Decode(&restored); err != nil {
		t.Fatalf("unexpected decoding error: %v", err)
	}
	if !restored.Equal(m) {
		t.Errorf("expected snapshot to round-trip to an equal map, got %v", restored)
	}
}

func TestMapGobRoundTripAfterRemovals(t *testing.T) {
	// differing trie histories must not leak into the snapshot
	m := Immutable[string, int]().Insert("a", 1).Insert("b", 2).Insert("c", 3).Discard("b")
	data, err := m.GobEncode()
	if err != nil {
		t.Fatalf("unexpected encoding error: %v", err)
	}
	restored := Immutable[string, int]()
	if err := restored.GobDecode(data); err != nil {
		t.Fatalf("unexpected decoding error: %v", err)
	}
	if !restored.Equal(m) || restored.Has("b") {
		t.Errorf("expected snapshot to round-trip to an equal map, got %v", restored)
	}
}

func TestMapGobMalformed(t *testing.T) {
	m := Immutable[int, int]().Insert(1, 2)
	err := m.GobDecode([]byte("this is not a snapshot"))
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("expected a malformed-snapshot error, got %v", err)
	}
	if v, _ := m.Find(1); v != 2 {
		t.Error("expected a failed decode to leave the receiver unchanged, didn't")
	}
}

func TestMapGobNeedsHasher(t *testing.T) {
	var m Map[int, int]
	data, _ := Immutable[int, int]().Insert(1, 2).GobEncode()
	if err := m.GobDecode(data); !errors.Is(err, ErrNoHasher) {
		t.Errorf("expected decoding into a hasherless map to fail, got %v", err)
	}
}

func TestSetGobRoundTrip(t *testing.T) {
	s := SetOf("a", "b", "c")
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		t.Fatalf("unexpected encoding error: %v", err)
	}
	restored := ImmutableSet[string]()
	if err := gob.NewDecoder(&buf).Decode(&restored); err != nil {
		t.Fatalf("unexpected decoding error: %v", err)
	}
	if !restored.Equal(s) {
		t.Errorf("expected snapshot to round-trip to an equal set, got %v", restored)
	}
}

func TestSetGobMalformed(t *testing.T) {
	s := ImmutableSet[string]()
	if err := s.GobDecode([]byte{0xff, 0x00, 0x33}); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("expected a malformed-snapshot error, got %v", err)
	}
}
