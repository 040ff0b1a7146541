/*
Package maybe provides an optional-value type.

A Maybe either holds a value ("Just v") or holds nothing. The persistent
collection types of this module return Maybe values from their non-failing
accessor variants, e.g. hashtrie.Map.Lookup and stack.Stack.Top.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package maybe

// Maybe is an optional value of type T.
type Maybe[T any] interface {
	// Value returns the contained value, together with a flag telling whether
	// there is one.
	Value() (T, bool)
	// WithDefault returns the contained value, or def for Nothing.
	WithDefault(def T) T
	// Map applies f to the contained value, if any.
	Map(f func(T) T) Maybe[T]
	// Match supports pattern-matching style case distinction; see Matcher.
	Match() Matcher[T]
}

type maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps a value into a Maybe.
func Just[T any](x T) Maybe[T] {
	return maybe[T]{value: x, tag: true}
}

// Nothing returns the empty Maybe for type T.
func Nothing[T any]() Maybe[T] {
	return maybe[T]{tag: false}
}

// FromFound converts Go's idiomatic (value, ok) pair into a Maybe.
func FromFound[T any](x T, found bool) Maybe[T] {
	if !found {
		return Nothing[T]()
	}
	return Just(x)
}

func (m maybe[T]) Value() (T, bool) {
	return m.value, m.tag
}

func (m maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

func (m maybe[T]) Map(f func(T) T) Maybe[T] {
	if m.tag {
		return Just(f(m.value))
	}
	return m
}

func (m maybe[T]) Match() Matcher[T] {
	return matcher[T]{m: m}
}

// AndThen chains a Maybe into a computation which itself may come up empty.
func AndThen[T, S any](f func(T) Maybe[S], x Maybe[T]) Maybe[S] {
	if v, ok := x.Value(); ok {
		return f(v)
	}
	return Nothing[S]()
}

// Map applies f to the value contained in x, if any, possibly changing the
// value's type.
func Map[T, S any](f func(T) S, x Maybe[T]) Maybe[S] {
	if v, ok := x.Value(); ok {
		return Just(f(v))
	}
	return Nothing[S]()
}

// --- Matching --------------------------------------------------------------

// Matcher lets clients distinguish the two cases of a Maybe with a
// switch statement:
//
//	var v int
//	switch m := x.Match(); m {
//	case m.Just(&v):
//	    // use v
//	case m.Nothing():
//	    // no value
//	}
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

type matcher[T any] struct {
	m maybe[T]
}

func (mm matcher[T]) Just(v *T) Matcher[T] {
	if mm.m.tag {
		*v = mm.m.value
		return mm
	}
	return nil
}

func (mm matcher[T]) Nothing() Matcher[T] {
	if !mm.m.tag {
		return mm
	}
	return nil
}
