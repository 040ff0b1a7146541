package hashtrie

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestMapEmpty(t *testing.T) {
	m := Immutable[string, int]()
	if m.Len() != 0 {
		t.Errorf("expected empty map to have length 0, has %d", m.Len())
	}
	if m.Has("a") {
		t.Error("did not expect to find 'a' in empty map")
	}
	if m.String() != "HashTrieMap{}" {
		t.Errorf("expected empty map to render as HashTrieMap{}, is %q", m)
	}
}

func TestMapOneElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hashtrie")
	defer teardown()
	//
	m := From(map[string]int{"a": 2})
	if m.Len() != 1 {
		t.Fatalf("expected map of length 1, has %d", m.Len())
	}
	if v, err := m.Get("a"); err != nil || v != 2 {
		t.Errorf("expected m[a] to be 2, is %d (err=%v)", v, err)
	}
	if !m.Has("a") {
		t.Error("expected to find 'a' in map, didn't")
	}
	empty, err := m.Remove("a")
	if err != nil {
		t.Fatalf("unexpected error removing 'a': %v", err)
	}
	if empty.Len() != 0 || empty.Has("a") {
		t.Error("expected map without 'a' to be empty, isn't")
	}
}

func TestMapGetMissingKey(t *testing.T) {
	m := Immutable[string, int]()
	_, err := m.Get("foo")
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected a missing-key error, got %v", err)
	}
	var keyerr KeyError[string]
	if !errors.As(err, &keyerr) || keyerr.Key != "foo" {
		t.Errorf("expected error to carry key 'foo', carries %v", keyerr.Key)
	}
	if !strings.Contains(err.Error(), "'foo'") {
		t.Errorf("expected error message to name the key, is %q", err.Error())
	}
}

func TestMapRemoveMissingKey(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1)
	same, err := m.Remove("b")
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected a missing-key error, got %v", err)
	}
	if !same.Equal(m) {
		t.Error("expected failed removal to leave the map unchanged, didn't")
	}
	if discarded := m.Discard("b"); discarded.root != m.root {
		t.Error("expected discard of an absent key to return the receiver, didn't")
	}
}

func TestMapInsertPersistence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hashtrie")
	defer teardown()
	//
	m := Immutable[string, int]().Insert("a", 1).Insert("b", 2)
	modified := m.Insert("c", 3).Insert("a", 99)
	if m.Len() != 2 {
		t.Errorf("expected original map to still have length 2, has %d", m.Len())
	}
	if v, _ := m.Find("a"); v != 1 {
		t.Errorf("expected original m[a] to still be 1, is %d", v)
	}
	if m.Has("c") {
		t.Error("did not expect original map to contain 'c'")
	}
	if v, _ := modified.Find("a"); v != 99 {
		t.Errorf("expected modified m[a] to be 99, is %d", v)
	}
}

func TestMapInsertRemoveInverse(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1).Insert("b", 2)
	roundabout, err := m.Insert("c", 3).Remove("c")
	if err != nil {
		t.Fatalf("unexpected error removing 'c': %v", err)
	}
	if !roundabout.Equal(m) {
		t.Error("expected insert+remove of 'c' to equal the original map, doesn't")
	}
}

func TestMapNoOpInsert(t *testing.T) {
	m := Immutable[string, int]().Insert("256", 256)
	same := m.Insert("256", 256)
	if same.root != m.root {
		t.Error("expected insert of a present pair to return the receiver, didn't")
	}
	if !same.Equal(m) {
		t.Error("expected no-op insert to be equal to the original, isn't")
	}
}

func TestMapOrderIndependentEquality(t *testing.T) {
	forward := Immutable[int, int]()
	for i := 0; i < 50; i++ {
		forward = forward.Insert(i, i)
	}
	reverse := Immutable[int, int]()
	for i := 49; i >= 0; i-- {
		reverse = reverse.Insert(i, i)
	}
	if !forward.Equal(reverse) {
		t.Error("expected maps built in opposite insertion order to be equal, aren't")
	}
	if !reverse.Equal(forward) {
		t.Error("expected map equality to be symmetric, isn't")
	}
}

func TestMapDivergentHistoryEquality(t *testing.T) {
	a := Immutable[string, int]().Insert("x", 1).Insert("y", 2)
	b := Immutable[string, int]().Insert("y", 2).Insert("z", 3).Insert("x", 1).Discard("z")
	if !a.Equal(b) {
		t.Error("expected maps with divergent histories but equal content to be equal, aren't")
	}
	if a.Equal(b.Insert("y", 99)) {
		t.Error("did not expect maps with differing values to be equal")
	}
}

// colliding hashes every key to the same code, forcing all pairs into one
// collision bucket.
var colliding = persistent.HasherFunc(
	func(string) uint64 { return 33 },
	func(a, b string) bool { return a == b },
)

func TestMapFullCollisions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hashtrie")
	defer teardown()
	//
	m := New[string, int](colliding)
	m = m.Insert("a", 1).Insert("b", 2).Insert("c", 3)
	if m.Len() != 3 {
		t.Fatalf("expected 3 colliding keys to yield length 3, is %d", m.Len())
	}
	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if v, found := m.Find(key); !found || v != want {
			t.Errorf("expected colliding key %q to map to %d, is %d (found=%v)", key, want, v, found)
		}
	}
	m = m.Discard("b")
	if m.Len() != 2 || m.Has("b") {
		t.Error("expected 'b' to be gone after discard, isn't")
	}
	if v, _ := m.Find("c"); v != 3 {
		t.Errorf("expected m[c] to survive the removal of 'b', is %d", v)
	}
}

func TestMapPartialCollisions(t *testing.T) {
	// keys sharing their bottom 10 hash bits diverge only at the third level
	deep := persistent.HasherFunc(
		func(n uint64) uint64 { return n<<10 | 0x3ff },
		func(a, b uint64) bool { return a == b },
	)
	m := New[uint64, string](deep)
	for i := uint64(0); i < 8; i++ {
		m = m.Insert(i, strconv.FormatUint(i, 10))
	}
	if m.Len() != 8 {
		t.Fatalf("expected 8 deep-colliding keys, have %d", m.Len())
	}
	for i := uint64(0); i < 8; i++ {
		if v, _ := m.Find(i); v != strconv.FormatUint(i, 10) {
			t.Errorf("expected m[%d] to be %q, is %q", i, strconv.FormatUint(i, 10), v)
		}
	}
}

func TestMapUpdate(t *testing.T) {
	a := Immutable[string, int]().Insert("x", 1).Insert("y", 2)
	b := Immutable[string, int]().Insert("y", 20).Insert("z", 30)
	c := Immutable[string, int]().Insert("z", 300)
	merged := a.Update(b, c)
	if merged.Len() != 3 {
		t.Fatalf("expected merged map of length 3, has %d", merged.Len())
	}
	for key, want := range map[string]int{"x": 1, "y": 20, "z": 300} {
		if v, _ := merged.Find(key); v != want {
			t.Errorf("expected merged[%s] to be %d (rightmost source wins), is %d", key, want, v)
		}
	}
	if same := a.Update(); same.root != a.root {
		t.Error("expected zero-argument update to return the receiver, didn't")
	}
}

func TestMapConvert(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1)
	same, err := Convert[string, int](m)
	if err != nil {
		t.Fatalf("unexpected conversion error: %v", err)
	}
	if same.root != m.root {
		t.Error("expected conversion of a map to be the identity, isn't")
	}
	rehomed, err := Convert[string, int](map[string]int{"a": 1, "b": 2})
	if err != nil || rehomed.Len() != 2 {
		t.Errorf("expected native map to convert to length 2, is %d (err=%v)", rehomed.Len(), err)
	}
	_, err = Convert[string, int]("not a mapping")
	if !errors.Is(err, ErrUnconvertible) {
		t.Errorf("expected conversion of a string to fail with ErrUnconvertible, got %v", err)
	}
}

func TestMapViews(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1).Insert("b", 2).Insert("c", 3)
	seen := map[string]bool{}
	for k := range m.Keys() {
		seen[k] = true
		if !m.Has(k) {
			t.Errorf("expected key view member %q to be in the map, isn't", k)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected key view to yield 3 keys, yielded %d", len(seen))
	}
	// views are restartable
	sum := 0
	for range 2 {
		for v := range m.Values() {
			sum += v
		}
	}
	if sum != 12 {
		t.Errorf("expected two passes over values to sum to 12, is %d", sum)
	}
	count := 0
	for k, v := range m.All() {
		if w, _ := m.Find(k); w != v {
			t.Errorf("expected All() pair (%s, %d) to agree with Find, doesn't", k, v)
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected All() to yield 3 pairs, yielded %d", count)
	}
}

func TestMapLookupMaybe(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1)
	if v := m.Lookup("a").WithDefault(99); v != 1 {
		t.Errorf("expected Lookup of a present key to be Just(1), defaults to %d", v)
	}
	if v := m.Lookup("b").WithDefault(99); v != 99 {
		t.Errorf("expected Lookup of a missing key to be Nothing, defaults to %d", v)
	}
}

func TestMapValueEqualityOption(t *testing.T) {
	m := Immutable[string, []int](WithValueEquality[string](func(a, b []int) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}))
	m = m.Insert("a", []int{1, 2})
	if same := m.Insert("a", []int{1, 2}); same.root != m.root {
		t.Error("expected insert of slice-equal value to be a no-op, isn't")
	}
	other := m.Insert("a", []int{1, 2, 3})
	if m.Equal(other) {
		t.Error("did not expect maps with differing slice values to be equal")
	}
}

func TestMapString(t *testing.T) {
	m := Immutable[string, int]().Insert("a", 1)
	if m.String() != "HashTrieMap{a: 1}" {
		t.Errorf("expected single-pair rendering, is %q", m)
	}
	m = m.Insert("b", 2)
	s := m.String()
	if !strings.Contains(s, "a: 1") || !strings.Contains(s, "b: 2") {
		t.Errorf("expected rendering to list both pairs, is %q", s)
	}
}

func TestMapScale(t *testing.T) {
	m := Immutable[string, int]()
	for i := 0; i < 1700; i++ {
		m = m.Insert(strconv.Itoa(i), i)
	}
	require.Equal(t, 1700, m.Len())
	v, err := m.Get("16")
	require.NoError(t, err)
	require.Equal(t, 16, v)
	v, err = m.Get("1699")
	require.NoError(t, err)
	require.Equal(t, 1699, v)

	m, err = m.Remove("1600")
	require.NoError(t, err)
	require.Equal(t, 1699, m.Len())
	require.False(t, m.Has("1600"))
	v, err = m.Get("1601")
	require.NoError(t, err)
	require.Equal(t, 1601, v)
}
