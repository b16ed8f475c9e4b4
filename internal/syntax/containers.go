package syntax

import (
	"github.com/lumen-lang/lumen/internal/position"
)

// Located attaches a source span to a tree node. The dumper renders a
// located value as an "L" node so location information survives into
// the serialized tree.
type Located[T any] struct {
	Span  position.Span
	Value T
}

// L wraps v with the given span.
func L[T any](span position.Span, v T) Located[T] {
	return Located[T]{Span: span, Value: v}
}

// GetSpan returns the span of the located value.
func (l Located[T]) GetSpan() position.Span { return l.Span }

// Locus exposes the span/value pair without the instantiated type.
// The generic tree traversal dispatches on this method.
func (l Located[T]) Locus() (position.Span, any) { return l.Span, l.Value }

// Pair is a generic two-element tuple.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// MkPair builds a Pair.
func MkPair[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{Fst: a, Snd: b} }

// PairItems exposes both elements without the instantiated types.
func (p Pair[A, B]) PairItems() (any, any) { return p.Fst, p.Snd }

// Bag is an unordered collection that permits duplicates. The type
// checker collects bindings into a Bag; keeping it distinct from a
// slice preserves the multiset semantics in dumped trees.
type Bag[T any] struct {
	Items []T
}

// ListToBag builds a Bag from a slice.
func ListToBag[T any](items []T) Bag[T] { return Bag[T]{Items: items} }

// List returns the bag contents in insertion order.
func (b Bag[T]) List() []T { return b.Items }

// Len returns the number of items in the bag.
func (b Bag[T]) Len() int { return len(b.Items) }

// BagItems exposes the contents without the instantiated type.
func (b Bag[T]) BagItems() []any {
	out := make([]any, len(b.Items))
	for i, it := range b.Items {
		out[i] = it
	}
	return out
}

// PostTc is a slot that is only populated by a later compiler phase.
// Forcing an unfilled slot panics with the slot's marker in the message;
// the dumper catches that panic and renders a placeholder leaf instead.
type PostTc[T any] struct {
	val    T
	filled bool
	what   string
}

// Deferred returns an unfilled slot carrying the given marker
// (for example "PostTcType").
func Deferred[T any](what string) PostTc[T] {
	return PostTc[T]{what: what}
}

// Resolved returns a filled slot.
func Resolved[T any](v T) PostTc[T] {
	return PostTc[T]{val: v, filled: true}
}

// IsFilled reports whether the slot has been populated.
func (p PostTc[T]) IsFilled() bool { return p.filled }

// Get returns the slot value and whether it was populated.
func (p PostTc[T]) Get() (T, bool) { return p.val, p.filled }

// Force returns the slot value, panicking if the slot was never filled.
func (p PostTc[T]) Force() any {
	if !p.filled {
		panic("forced unfilled compiler slot: " + p.what)
	}
	return p.val
}
