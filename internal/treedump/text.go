package treedump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText emits the tree sets as structured, indented text: one
// heading per compilation unit followed by the four phase sections.
func WriteText(w io.Writer, sets []TreeSet) error {
	bw := bufio.NewWriter(w)
	for i, ts := range sets {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "==== %s ====\n", ts.Module)
		writeSection(bw, "Parsed", ts.Parsed)
		writeSection(bw, "Renamed", ts.Renamed)
		writeSection(bw, "Typechecked", ts.Typechecked)
		writeSection(bw, "Exports", ts.Exports)
	}
	return bw.Flush()
}

func writeSection(bw *bufio.Writer, label string, v Value) {
	bw.WriteByte('\n')
	bw.WriteString(label)
	bw.WriteByte('\n')
	renderText(bw, v, 1)
}

func renderText(bw *bufio.Writer, v Value, indent int) {
	pad := strings.Repeat("  ", indent)
	switch x := v.(type) {
	case Leaf:
		for _, line := range strings.Split(x.Text, "\n") {
			bw.WriteString(pad)
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	case Node:
		bw.WriteString(pad)
		bw.WriteString(x.Tag)
		bw.WriteByte('\n')
		for _, ch := range x.Children {
			renderText(bw, ch, indent+1)
		}
	case Record:
		fieldIndent := indent
		if x.Label != "" {
			bw.WriteString(pad)
			bw.WriteString(x.Label)
			bw.WriteByte('\n')
			fieldIndent++
			pad = strings.Repeat("  ", fieldIndent)
		}
		for _, f := range x.Fields {
			if leaf, ok := f.Value.(Leaf); ok && !strings.Contains(leaf.Text, "\n") {
				fmt.Fprintf(bw, "%s%s: %s\n", pad, f.Name, leaf.Text)
				continue
			}
			fmt.Fprintf(bw, "%s%s:\n", pad, f.Name)
			renderText(bw, f.Value, fieldIndent+1)
		}
	case Tuple:
		if len(x.Items) == 0 {
			bw.WriteString(pad)
			bw.WriteString("()\n")
			return
		}
		bw.WriteString(pad)
		bw.WriteString("tuple\n")
		for _, it := range x.Items {
			renderText(bw, it, indent+1)
		}
	case List:
		if len(x.Items) == 0 {
			bw.WriteString(pad)
			bw.WriteString("[]\n")
			return
		}
		bw.WriteString(pad)
		bw.WriteString("list\n")
		for _, it := range x.Items {
			renderText(bw, it, indent+1)
		}
	}
}
