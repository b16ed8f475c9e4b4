package treedump

import (
	"reflect"
	"testing"

	"github.com/lumen-lang/lumen/internal/syntax"
)

func TestDumpUnit(t *testing.T) {
	c := NewConverter()
	ts, err := c.DumpUnit(UnitInput{
		ModuleName:  "Demo",
		Parsed:      []string{"a", "b"},
		Renamed:     []string{"a"},
		Typechecked: true,
		Exports:     []syntax.Avail{},
	})
	if err != nil {
		t.Fatalf("DumpUnit failed: %v", err)
	}
	if ts.Module != "Demo" {
		t.Errorf("module = %q, want Demo", ts.Module)
	}
	wantParsed := List{Items: []Value{Leaf{Text: "a"}, Leaf{Text: "b"}}}
	if !reflect.DeepEqual(ts.Parsed, wantParsed) {
		t.Errorf("parsed = %#v, want %#v", ts.Parsed, wantParsed)
	}
	if !reflect.DeepEqual(ts.Typechecked, Node{Tag: "True"}) {
		t.Errorf("typechecked = %#v, want True node", ts.Typechecked)
	}
	// An empty export list is still a list, not a missing phase.
	if !reflect.DeepEqual(ts.Exports, List{}) {
		t.Errorf("exports = %#v, want empty List", ts.Exports)
	}
}

func TestDumpUnitMissingPhases(t *testing.T) {
	c := NewConverter()
	ts, err := c.DumpUnit(UnitInput{
		ModuleName:  "Partial",
		Parsed:      []string{"a"},
		Renamed:     nil,
		Typechecked: (*syntax.CheckedModule)(nil),
		Exports:     []syntax.Avail(nil),
	})
	if err != nil {
		t.Fatalf("DumpUnit failed: %v", err)
	}
	na := Leaf{Text: notAvailable}
	for name, v := range map[string]Value{
		"renamed":     ts.Renamed,
		"typechecked": ts.Typechecked,
		"exports":     ts.Exports,
	} {
		if !reflect.DeepEqual(v, na) {
			t.Errorf("%s = %#v, want %#v", name, v, na)
		}
	}
}

func TestDumpUnitDiagnosticsDegradeLaterPhases(t *testing.T) {
	c := NewConverter()
	ts, err := c.DumpUnit(UnitInput{
		ModuleName:  "Failing",
		Parsed:      []string{"tree"},
		Renamed:     []string{"should", "not", "appear"},
		Diagnostics: []string{"demo.lum:2:1: not in scope: \"x\"", "demo.lum:3:1: not in scope: \"y\""},
	})
	if err != nil {
		t.Fatalf("DumpUnit failed: %v", err)
	}

	wantParsed := List{Items: []Value{Leaf{Text: "tree"}}}
	if !reflect.DeepEqual(ts.Parsed, wantParsed) {
		t.Errorf("parsed = %#v, want %#v", ts.Parsed, wantParsed)
	}

	diag := Leaf{Text: "demo.lum:2:1: not in scope: \"x\"\ndemo.lum:3:1: not in scope: \"y\""}
	for name, v := range map[string]Value{
		"renamed":     ts.Renamed,
		"typechecked": ts.Typechecked,
		"exports":     ts.Exports,
	} {
		if !reflect.DeepEqual(v, diag) {
			t.Errorf("%s = %#v, want the diagnostics leaf", name, v)
		}
	}
}
