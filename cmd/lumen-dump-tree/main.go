// Package main provides the entry point for lumen-dump-tree, the tool
// that renders the compiler front end's internal trees as JSON or text.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/lumen-lang/lumen/internal/cli"
	"github.com/lumen-lang/lumen/internal/frontend"
	"github.com/lumen-lang/lumen/internal/treedump"
	"github.com/lumen-lang/lumen/internal/watch"
)

type options struct {
	jsonOut  bool
	gzipOut  bool
	outPath  string
	watching bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		versionJSON = flag.Bool("version-json", false, "show version information as JSON")
		jsonOut     = flag.Bool("json", false, "emit one compact JSON array instead of text")
		gzipOut     = flag.Bool("gzip", false, "gzip-compress the output stream")
		outPath     = flag.String("out", "", "write output to file instead of stdout")
		watchFlag   = flag.Bool("watch", false, "watch the source files and re-dump on change")
		requireFE   = flag.String("require-frontend", "", "semver constraint the front end must satisfy")
	)
	flag.Usage = showUsage
	flag.Parse()

	if *showVersion || *versionJSON {
		cli.PrintVersion("lumen-dump-tree", *versionJSON)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files specified")
		showUsage()
		os.Exit(1)
	}

	if *requireFE != "" {
		if err := cli.CheckConstraint(*requireFE, frontend.Version); err != nil {
			log.Fatalf("front end rejected: %v", err)
		}
	}

	opts := options{
		jsonOut:  *jsonOut,
		gzipOut:  *gzipOut,
		outPath:  *outPath,
		watching: *watchFlag,
	}
	if err := run(paths, opts); err != nil {
		log.Fatalf("dump failed: %v", err)
	}
}

func showUsage() {
	fmt.Println("lumen-dump-tree - dump the compiler front end's syntax trees")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    lumen-dump-tree [OPTIONS] <FILE.lum>...")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --json              Emit one compact JSON array instead of text")
	fmt.Println("    --out FILE          Write output to file instead of stdout")
	fmt.Println("    --gzip              Gzip-compress the output stream")
	fmt.Println("    --watch             Watch the source files and re-dump on change")
	fmt.Println("    --require-frontend  Semver constraint the front end must satisfy")
	fmt.Println("    --version           Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    lumen-dump-tree hello.lum")
	fmt.Println("    lumen-dump-tree --json --gzip --out trees.json.gz hello.lum")
}

func run(paths []string, opts options) error {
	if err := dumpOnce(paths, opts); err != nil {
		if !opts.watching {
			return err
		}
		fmt.Fprintf(os.Stderr, "dump error: %v\n", err)
	}
	if !opts.watching {
		return nil
	}

	w, err := watch.New(paths)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	for {
		select {
		case ev := <-w.Events():
			fmt.Fprintf(os.Stderr, "changed: %s\n", ev.Path)
			if err := dumpOnce(paths, opts); err != nil {
				fmt.Fprintf(os.Stderr, "dump error: %v\n", err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// dumpOnce compiles every input file and writes one complete dump.
// Unit-level failures are reported and skipped; the remaining units
// still dump.
func dumpOnce(paths []string, opts options) error {
	sess := frontend.NewSession()
	defer sess.Close()

	conv := treedump.NewConverter()
	var sets []treedump.TreeSet
	failed := 0
	for _, path := range paths {
		unit, err := sess.CompileFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		ts, err := conv.DumpUnit(treedump.UnitInput{
			ModuleName:  unit.ModuleName,
			Parsed:      unit.Parsed,
			Renamed:     unit.Renamed,
			Typechecked: unit.Typechecked,
			Exports:     unit.Exports,
			Diagnostics: unit.Diagnostics,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		sets = append(sets, ts)
	}

	if err := writeDump(sets, opts); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d unit(s) failed", failed)
	}
	return nil
}

func writeDump(sets []treedump.TreeSet, opts options) error {
	var out io.Writer = os.Stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if opts.gzipOut {
		zw := gzip.NewWriter(out)
		defer zw.Close()
		out = zw
	}
	if opts.jsonOut {
		return treedump.WriteJSON(out, sets)
	}
	return treedump.WriteText(out, sets)
}
