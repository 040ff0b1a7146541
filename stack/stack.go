/*
Package stack implements a persistent (immutable) LIFO stack.

A persistent stack is a singly linked list whose cells are never modified:
pushing allocates one new cell pointing at the old top, popping returns the
old rest. All stacks derived from a common tail share that tail, so “copies”
are O(1) in time and space and safe for concurrent readers.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package stack

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/persistent/maybe"
)

// ErrEmptyStack signals Pop or Peek on an empty stack.
var ErrEmptyStack = errors.New("stack: empty stack")

// Stack is a persistent LIFO stack. The zero value is an empty stack, ready
// to use:
//
//	s := stack.Stack[int]{}.Push(7)
//	top, _ := s.Peek()   // 7
type Stack[T any] struct {
	head   *cons[T]
	length int
}

// cons is one immutable cell of the backing linked list; rest is shared by
// every stack derived from a common tail.
type cons[T any] struct {
	value T
	rest  *cons[T]
}

// From builds a stack from elements in one pass, equivalent to pushing them
// in argument order: the last element ends up on top.
func From[T any](elems ...T) Stack[T] {
	var s Stack[T]
	for _, el := range elems {
		s = s.Push(el)
	}
	return s
}

// Collect builds a stack from a finite sequence, equivalent to pushing the
// elements in sequence order.
func Collect[T any](seq iter.Seq[T]) Stack[T] {
	var s Stack[T]
	for el := range seq {
		s = s.Push(el)
	}
	tracer().Debugf("stack.collect: %d elements", s.length)
	return s
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements on the stack, in O(1).
func (s Stack[T]) Len() int {
	return s.length
}

// IsEmpty tells whether the stack holds no elements.
func (s Stack[T]) IsEmpty() bool {
	return s.head == nil
}

// Push returns a stack with value on top of the receiver's elements, in O(1).
func (s Stack[T]) Push(value T) Stack[T] {
	return Stack[T]{head: &cons[T]{value: value, rest: s.head}, length: s.length + 1}
}

// Pop returns the stack below the top element. Popping an empty stack fails
// with ErrEmptyStack.
func (s Stack[T]) Pop() (Stack[T], error) {
	if s.head == nil {
		return s, ErrEmptyStack
	}
	return Stack[T]{head: s.head.rest, length: s.length - 1}, nil
}

// Peek returns the top element. Peeking at an empty stack fails with
// ErrEmptyStack.
func (s Stack[T]) Peek() (T, error) {
	if s.head == nil {
		var none T
		return none, ErrEmptyStack
	}
	return s.head.value, nil
}

// Top is Peek with an optional-value result.
func (s Stack[T]) Top() maybe.Maybe[T] {
	if s.head == nil {
		return maybe.Nothing[T]()
	}
	return maybe.Just(s.head.value)
}

// All returns a lazy, restartable iterator over the elements, top of stack
// first (LIFO order).
func (s Stack[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for cell := s.head; cell != nil; cell = cell.rest {
			if !yield(cell.value) {
				return
			}
		}
	}
}

// --- Equality, hashing and rendering ---------------------------------------

// Equal tells whether two stacks hold pairwise equal elements in the same
// order. Elements compare as interfaces; uncomparable element types never
// compare equal — use EqualFunc for those.
func (s Stack[T]) Equal(other Stack[T]) bool {
	return EqualFunc(s, other, eqAny[T])
}

// EqualFunc compares two stacks element-wise with a client-provided equality
// relation.
func EqualFunc[T any](a, b Stack[T], eq func(x, y T) bool) bool {
	if a.length != b.length {
		return false
	}
	ca, cb := a.head, b.head
	for ca != nil {
		if ca == cb { // shared tail ⇒ remainders are identical
			return true
		}
		if !eq(ca.value, cb.value) {
			return false
		}
		ca, cb = ca.rest, cb.rest
	}
	return true
}

func eqAny[T any](a, b T) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if !reflect.TypeOf(x).Comparable() {
		return false
	}
	return x == y
}

// Hash returns an order-sensitive hash code consistent with Stack.Equal:
// equal stacks hash equally, and stacks differing in order, length or content
// hash differently in the common case. Computed as an FNV-style fold over the
// element hashes, top of stack first.
func Hash[T comparable](s Stack[T]) uint64 {
	return HashFunc(s, persistent.Comparable[T]())
}

// HashFunc is Hash with a client-provided element hasher, for element types
// which are not comparable.
func HashFunc[T any](s Stack[T], hasher persistent.Hasher[T]) uint64 {
	const prime64 uint64 = 1099511628211
	hash := uint64(14695981039346656037)
	for el := range s.All() {
		hash ^= hasher.Hash(el)
		hash *= prime64
	}
	return hash
}

// String renders the elements from bottom to top, i.e. in push order:
//
//	stack.From(1, 2, 3).String() == "Stack([1, 2, 3])"
//
// The rendering is meant for debugging; it is not part of the equality
// contract.
func (s Stack[T]) String() string {
	elems := make([]string, s.length)
	i := s.length
	for cell := s.head; cell != nil; cell = cell.rest {
		i--
		elems[i] = fmt.Sprintf("%v", cell.value)
	}
	return "Stack([" + strings.Join(elems, ", ") + "])"
}
