package treedump

import (
	"reflect"
	"strings"
)

// TreeSet aggregates the four canonicalized trees of one compilation
// unit. Trees only live for the duration of one dump pass.
type TreeSet struct {
	Module      string
	Parsed      Value
	Renamed     Value
	Typechecked Value
	Exports     Value
}

// UnitInput is what the compiler front end hands the dumper for one
// compilation unit. The tree fields are opaque to the engine. Renamed,
// Typechecked and Exports may be nil when the phase produced nothing;
// a non-empty Diagnostics list means the front end failed after
// parsing, degrading everything past the parsed tree.
type UnitInput struct {
	ModuleName  string
	Parsed      any
	Renamed     any
	Typechecked any
	Exports     any
	Diagnostics []string
}

// notAvailable is the placeholder leaf for phases that legitimately
// produced no information.
const notAvailable = "<not available>"

// DumpUnit converts and canonicalizes one unit's trees. Node-local
// faults have already been contained as leaves by the converter; only
// fatal structural contract violations surface here, as an error that
// aborts this unit while leaving other units untouched.
func (c *Converter) DumpUnit(in UnitInput) (ts TreeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			ts, err = TreeSet{}, asFatal(r)
		}
	}()

	ts.Module = in.ModuleName
	ts.Parsed = c.tree(in.Parsed)

	if len(in.Diagnostics) > 0 {
		diag := Leaf{Text: strings.Join(in.Diagnostics, "\n")}
		ts.Renamed = diag
		ts.Typechecked = diag
		ts.Exports = diag
		return ts, nil
	}

	ts.Renamed = c.treeOr(in.Renamed)
	ts.Typechecked = c.treeOr(in.Typechecked)
	ts.Exports = c.treeOr(in.Exports)
	return ts, nil
}

// tree converts and canonicalizes a single phase tree. Fatal contract
// violations panic through to DumpUnit's boundary.
func (c *Converter) tree(v any) Value {
	return cleanupValue(c.Convert(v))
}

func (c *Converter) treeOr(v any) Value {
	if isNilTree(v) {
		return Leaf{Text: notAvailable}
	}
	return c.tree(v)
}

func isNilTree(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}
