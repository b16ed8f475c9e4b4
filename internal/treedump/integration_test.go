package treedump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/internal/frontend"
)

const demoSource = `module Demo where

main : String
main = append (show 42) "!"
`

func dumpDemo(t *testing.T) TreeSet {
	t.Helper()
	sess := frontend.NewSession()
	defer sess.Close()

	unit, err := sess.CompileSource("demo.lum", demoSource)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	ts, err := NewConverter().DumpUnit(UnitInput{
		ModuleName:  unit.ModuleName,
		Parsed:      unit.Parsed,
		Renamed:     unit.Renamed,
		Typechecked: unit.Typechecked,
		Exports:     unit.Exports,
		Diagnostics: unit.Diagnostics,
	})
	if err != nil {
		t.Fatalf("DumpUnit failed: %v", err)
	}
	return ts
}

func TestDumpPipeline(t *testing.T) {
	ts := dumpDemo(t)

	parsed := encodeToString(t, ts.Parsed)
	for _, want := range []string{
		"<<fixity>>",
		"<<placeHolderNames>>",
		"<<PostTcType>>",
		"<<PostTcKind>>",
		`"location"`,
		`"VarName":"main"`,
	} {
		if !strings.Contains(parsed, want) {
			t.Errorf("parsed tree missing %s", want)
		}
	}

	renamed := encodeToString(t, ts.Renamed)
	for _, want := range []string{
		`"n_uniq"`,
		"Internal",
		`"WiredIn"`,
	} {
		if !strings.Contains(renamed, want) {
			t.Errorf("renamed tree missing %s", want)
		}
	}
	if strings.Contains(renamed, "<<fixity>>") {
		t.Error("renamed tree still carries the unfilled fixity marker")
	}

	checked := encodeToString(t, ts.Typechecked)
	if !strings.Contains(checked, `"varType"`) {
		t.Error("typechecked tree has no typed variables")
	}
	if strings.Contains(checked, "<<PostTc") {
		t.Error("typechecked tree still carries unfilled slot markers")
	}

	exports := encodeToString(t, ts.Exports)
	if !strings.Contains(exports, "Avail") {
		t.Error("export list has no availability entries")
	}
}

func TestDumpPipelineJSONStream(t *testing.T) {
	ts := dumpDemo(t)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, []TreeSet{ts}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `[{"module":"Demo","parsed":`) {
		t.Errorf("stream does not open with the module object: %.60s", out)
	}
	if !strings.HasSuffix(out, "]") {
		t.Error("stream is not a closed JSON array")
	}

	var txt bytes.Buffer
	if err := WriteText(&txt, []TreeSet{ts}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !strings.HasPrefix(txt.String(), "==== Demo ====\n") {
		t.Error("text dump does not open with the module heading")
	}
}
