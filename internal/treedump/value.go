// Package treedump renders compiler syntax trees as a small generic
// value tree that can be serialized to JSON or structured text.
//
// The conversion engine is deliberately ignorant of the tree shapes it
// walks: it mirrors structure generically via reflection, consults an
// override table for the handful of types that need bespoke rendering
// (identifiers, locations, placeholder slots), and contains evaluation
// faults at the single node where they occur. A separate cleanup pass
// canonicalizes the generic list/tuple/bag encodings into first-class
// container values.
package treedump

import "fmt"

// Value is the generic serializable tree. It is a closed sum: Leaf,
// Node, Record, Tuple and List are the only variants.
type Value interface {
	valueNode()
}

// Leaf is an opaque pretty-printed string. Raw traversal only produces
// leaves for types declared non-traversable and for contained faults.
type Leaf struct {
	Text string
}

// Node is a generic constructor application: the runtime shape name of
// the original value plus its immediate substructures in source order.
type Node struct {
	Tag      string
	Children []Value
}

// Field is one named field of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a named-field aggregate. Label is empty for a plain field
// bag; the serialization sinks require it to be empty by encoding time.
type Record struct {
	Label  string
	Fields []Field
}

// Tuple is a canonical fixed-width container, produced only by cleanup.
type Tuple struct {
	Items []Value
}

// List is a canonical sequence container, produced only by cleanup.
type List struct {
	Items []Value
}

func (Leaf) valueNode()   {}
func (Node) valueNode()   {}
func (Record) valueNode() {}
func (Tuple) valueNode()  {}
func (List) valueNode()   {}

// fatalError marks an unrecoverable contract violation: malformed
// container encodings in cleanup, unrecognized identifier namespaces or
// name sorts, labeled records reaching the JSON encoder. It is panicked
// through the per-node fault containment (which re-raises it) and
// converted to an ordinary error only at the per-unit dump boundary.
type fatalError struct {
	msg string
}

func (e fatalError) Error() string { return e.msg }

func fatalf(format string, args ...any) {
	panic(fatalError{msg: fmt.Sprintf(format, args...)})
}

// asFatal converts a recovered panic value into an error if it is a
// fatalError, re-panicking otherwise.
func asFatal(r any) error {
	if fe, ok := r.(fatalError); ok {
		return fe
	}
	panic(r)
}
