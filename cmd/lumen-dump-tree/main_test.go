package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const demoSource = `module Demo where

main : String
main = append (show 42) "!"
`

func TestDumpOnceJSON(t *testing.T) {
	src := writeSource(t, "demo.lum", demoSource)
	out := filepath.Join(t.TempDir(), "trees.json")

	err := dumpOnce([]string{src}, options{jsonOut: true, outPath: out})
	if err != nil {
		t.Fatalf("dumpOnce failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, `[{"module":"Demo"`) {
		t.Errorf("output does not open with the module object: %.60s", text)
	}
	if !strings.HasSuffix(text, "]") {
		t.Error("output is not a closed JSON array")
	}
}

func TestDumpOnceText(t *testing.T) {
	src := writeSource(t, "demo.lum", demoSource)
	out := filepath.Join(t.TempDir(), "trees.txt")

	err := dumpOnce([]string{src}, options{outPath: out})
	if err != nil {
		t.Fatalf("dumpOnce failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "==== Demo ====\n") {
		t.Errorf("output does not open with the module heading: %.40s", data)
	}
}

func TestDumpOnceGzip(t *testing.T) {
	src := writeSource(t, "demo.lum", demoSource)
	out := filepath.Join(t.TempDir(), "trees.json.gz")

	err := dumpOnce([]string{src}, options{jsonOut: true, gzipOut: true, outPath: out})
	if err != nil {
		t.Fatalf("dumpOnce failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not gzip: %v", err)
	}
	defer zr.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(zr); err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `[{"module":"Demo"`) {
		t.Error("decompressed output does not open with the module object")
	}
}

func TestDumpOnceSkipsFailedUnits(t *testing.T) {
	good := writeSource(t, "good.lum", demoSource)
	bad := writeSource(t, "bad.lum", "this is not a module\n")
	out := filepath.Join(t.TempDir(), "trees.json")

	err := dumpOnce([]string{bad, good}, options{jsonOut: true, outPath: out})
	if err == nil {
		t.Fatal("expected an error reporting the failed unit")
	}
	if !strings.Contains(err.Error(), "1 unit(s) failed") {
		t.Errorf("error = %v", err)
	}

	data, readErr := os.ReadFile(out)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !strings.Contains(string(data), `"module":"Demo"`) {
		t.Error("the good unit should still be dumped")
	}
}
