package treedump

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

// encodeToString runs a single Value through the staged JSON encoder.
func encodeToString(t *testing.T, v Value) string {
	t.Helper()
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := writeJSONValue(bw, encodeValue(v)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	return buf.String()
}

func TestJSONEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"leaf", Leaf{Text: "hello"}, `"hello"`},
		{"leaf escaping", Leaf{Text: "a\"b\nc"}, `"a\"b\nc"`},
		{"true node", Node{Tag: "True"}, `true`},
		{"false node", Node{Tag: "False"}, `false`},
		{"empty node is its tag", Node{Tag: "ImportDecl"}, `"ImportDecl"`},
		{
			"node with children",
			Node{Tag: "Foo", Children: []Value{Leaf{Text: "x"}, Node{Tag: "True"}}},
			`{"Foo":["x",true]}`,
		},
		{"empty list", List{}, `[]`},
		{
			"tuple",
			Tuple{Items: []Value{Leaf{Text: "k"}, Leaf{Text: "v"}}},
			`["k","v"]`,
		},
		{
			"bag wrapper is transparent",
			Node{Tag: "Bag.listToBag", Children: []Value{List{Items: []Value{Leaf{Text: "b"}}}}},
			`["b"]`,
		},
		{
			"location injected into object payloads",
			Node{Tag: "L", Children: []Value{
				Leaf{Text: "demo.lum:1:1-4"},
				Node{Tag: "Foo", Children: []Value{Leaf{Text: "x"}}},
			}},
			`{"Foo":["x"],"location":"demo.lum:1:1-4"}`,
		},
		{
			"location dropped for non-object payloads",
			Node{Tag: "L", Children: []Value{Leaf{Text: "demo.lum:1:1-4"}, Leaf{Text: "bar"}}},
			`"bar"`,
		},
		{
			"record keys keep first-seen order",
			Record{Fields: []Field{
				{Name: "a", Value: Leaf{Text: "1"}},
				{Name: "b", Value: Leaf{Text: "2"}},
			}},
			`{"a":"1","b":"2"}`,
		},
		{
			"duplicate keys overwrite in place",
			Record{Fields: []Field{
				{Name: "a", Value: Leaf{Text: "1"}},
				{Name: "b", Value: Leaf{Text: "2"}},
				{Name: "a", Value: Leaf{Text: "3"}},
			}},
			`{"a":"3","b":"2"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeToString(t, tt.in)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteJSONStream(t *testing.T) {
	sets := []TreeSet{
		{
			Module: "Demo",
			Parsed: Node{Tag: "L", Children: []Value{
				Leaf{Text: "demo.lum:1:1-4"},
				Node{Tag: "Foo", Children: []Value{Leaf{Text: "x"}}},
			}},
			Renamed:     Node{Tag: "True"},
			Typechecked: Leaf{Text: "<not available>"},
			Exports:     List{},
		},
		{
			Module:      "Other",
			Parsed:      Leaf{Text: "p"},
			Renamed:     Leaf{Text: "r"},
			Typechecked: Leaf{Text: "t"},
			Exports:     List{Items: []Value{Leaf{Text: "e"}}},
		},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sets); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	want := `[{"module":"Demo","parsed":{"Foo":["x"],"location":"demo.lum:1:1-4"},` +
		`"renamed":true,"typechecked":"<not available>","exports":[]},` +
		`{"module":"Other","parsed":"p","renamed":"r","typechecked":"t","exports":["e"]}]`
	if got := buf.String(); got != want {
		t.Errorf("stream mismatch:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestWriteJSONRejectsLabeledRecords(t *testing.T) {
	sets := []TreeSet{{
		Module:      "Bad",
		Parsed:      Record{Label: "Qual", Fields: []Field{{Name: "x", Value: Leaf{Text: "1"}}}},
		Renamed:     Leaf{Text: "r"},
		Typechecked: Leaf{Text: "t"},
		Exports:     List{},
	}}
	err := WriteJSON(&bytes.Buffer{}, sets)
	if err == nil {
		t.Fatal("expected an error for a labeled record")
	}
	if !strings.Contains(err.Error(), "labeled record") {
		t.Errorf("error %q does not mention the labeled record", err)
	}
}
