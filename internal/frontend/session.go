// Package frontend drives the Lumen compiler phases and packages their
// per-unit results for consumers such as the tree dumper. It owns no
// dumping logic itself: it hands out the raw phase trees and lets the
// consumer decide how to render them.
package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/position"
	"github.com/lumen-lang/lumen/internal/resolver"
	"github.com/lumen-lang/lumen/internal/syntax"
	"github.com/lumen-lang/lumen/internal/typechecker"
)

// Version is the front-end version consumers can gate on.
const Version = "0.4.0"

// UnitResult is the outcome of compiling one source file. Parsed is
// always present. When Diagnostics is non-empty the later phases
// failed and Renamed/Typechecked/Exports are nil: the renamed tree is
// only meaningful as part of a successful check.
type UnitResult struct {
	ModuleName  string
	Parsed      *syntax.File
	Renamed     *syntax.File
	Typechecked *syntax.CheckedModule
	Exports     []syntax.Avail
	Diagnostics []string
}

// Session is one front-end run. It caches source files for the
// duration of a dump and must be closed on every exit path.
type Session struct {
	sources *position.SourceMap
	closed  bool
}

// NewSession starts a front-end session.
func NewSession() *Session {
	return &Session{sources: position.NewSourceMap()}
}

// Close releases the session. Further compiles fail.
func (s *Session) Close() error {
	s.closed = true
	return nil
}

// Sources returns the session's source map.
func (s *Session) Sources() *position.SourceMap { return s.sources }

// CompileFile compiles one file through all phases.
func (s *Session) CompileFile(path string) (*UnitResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.CompileSource(path, string(data))
}

// CompileSource compiles source text through all phases. A parse
// failure is a hard error: there is no tree to dump at all. Rename and
// check failures degrade to diagnostics on the result instead.
func (s *Session) CompileSource(filename, src string) (*UnitResult, error) {
	if s.closed {
		return nil, errors.New("frontend: session is closed")
	}
	s.sources.AddFile(filename, src)

	l := lexer.NewWithFilename(src, filename)
	p := parser.NewParser(l, filename)
	file := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse %s: %s", filename, strings.Join(errs, "; "))
	}

	moduleName := file.Name.Value
	if moduleName == "" {
		moduleName = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	res := &UnitResult{ModuleName: moduleName, Parsed: file}

	renamed, diags := resolver.Resolve(file)
	if len(diags) > 0 {
		res.Diagnostics = diags
		return res, nil
	}

	checked, avails, diags := typechecker.Check(renamed)
	if len(diags) > 0 {
		res.Diagnostics = diags
		return res, nil
	}

	res.Renamed = renamed
	res.Typechecked = checked
	res.Exports = avails
	return res, nil
}
