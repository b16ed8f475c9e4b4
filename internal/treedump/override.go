package treedump

import (
	"github.com/lumen-lang/lumen/internal/position"
	"github.com/lumen-lang/lumen/internal/syntax"
)

// renderDual handles nodes with a meaningful source-level textual form:
// the node renders as an anonymous record pairing its pretty form with
// its generic tree. Dual-rendering is suppressed for the whole subtree
// so nested pretty-printable nodes render generically only. A panic
// while pretty-printing surfaces to the node's fault containment and
// renders the node purely as the caught-fault leaf.
func renderDual(c *Converter, v any, noDual bool) (Value, bool) {
	p, ok := v.(syntax.Pretty)
	if !ok || noDual {
		return nil, false
	}
	text := p.Pretty()
	return Record{Fields: []Field{{Name: text, Value: c.convert(v, true)}}}, true
}

// renderOpaque handles types with no informative structural
// decomposition: they render as pretty-printed leaves.
func renderOpaque(_ *Converter, v any, _ bool) (Value, bool) {
	switch x := v.(type) {
	case position.Span:
		return Leaf{Text: x.String()}, true
	case syntax.Unique:
		return Leaf{Text: x.String()}, true
	}
	return nil, false
}

// renderIdent handles the identifier family. Each phase's identifier
// kind renders as a record with well-known field names so consumers can
// correlate identifiers across phases.
func renderIdent(c *Converter, v any, noDual bool) (Value, bool) {
	switch x := v.(type) {
	case syntax.OccName:
		return occRecord(x), true
	case syntax.Unqual:
		return occRecord(x.Name), true
	case syntax.Qual:
		rec := occRecord(x.Name)
		rec.Fields = append([]Field{{Name: "Qual", Value: Leaf{Text: x.Module}}}, rec.Fields...)
		return rec, true
	case syntax.Orig:
		rec := occRecord(x.Name)
		rec.Fields = append([]Field{{Name: "Orig", Value: c.convert(x.Module, noDual)}}, rec.Fields...)
		return rec, true
	case syntax.Exact:
		return c.nameRecord(x.Name, noDual), true
	case *syntax.Name:
		return c.nameRecord(x, noDual), true
	case *syntax.Var:
		rec := c.nameRecord(x.Name, noDual)
		rec.Fields = append([]Field{{Name: "varType", Value: c.convert(x.Type, noDual)}}, rec.Fields...)
		return rec, true
	}
	return nil, false
}

// occRecord renders an occurrence name keyed by its namespace label.
// The namespace set is a closed design assumption: anything else is a
// fatal contract violation, not expected data variation.
func occRecord(o syntax.OccName) Record {
	label := o.Space.Label()
	if label == "" {
		fatalf("unrecognized namespace %d for occurrence %q", int(o.Space), o.Text)
	}
	return Record{Fields: []Field{{Name: label, Value: Leaf{Text: o.Text}}}}
}

// nameRecord renders a resolved name: location, sort and uniqueness
// token ahead of the occurrence field. Sort wrappers are anonymous
// records so no labeled record ever reaches the JSON encoder.
func (c *Converter) nameRecord(n *syntax.Name, noDual bool) Record {
	rec := occRecord(n.Occ)

	var sortVal Value
	switch n.Sort {
	case syntax.WiredInSort:
		sortVal = Record{Fields: []Field{{Name: "WiredIn", Value: c.convert(n.Module, noDual)}}}
	case syntax.ExternalSort:
		sortVal = Record{Fields: []Field{{Name: "External", Value: c.convert(n.Module, noDual)}}}
	case syntax.InternalSort:
		sortVal = Leaf{Text: "Internal"}
	case syntax.SystemSort:
		sortVal = Leaf{Text: "System"}
	default:
		fatalf("unrecognized name sort %d for %q", int(n.Sort), n.Occ.Text)
	}

	lead := []Field{
		{Name: "n_loc", Value: Leaf{Text: n.Loc.String()}},
		{Name: "n_sort", Value: sortVal},
		{Name: "n_uniq", Value: Leaf{Text: n.Uniq.String()}},
	}
	rec.Fields = append(lead, rec.Fields...)
	return rec
}

// forcer matches placeholder slots that may only be populated by a
// later compiler phase. Forcing an unfilled slot panics; the fault
// containment turns that into the slot's marker leaf.
type forcer interface {
	Force() any
}

func renderPlaceholder(c *Converter, v any, noDual bool) (Value, bool) {
	f, ok := v.(forcer)
	if !ok {
		return nil, false
	}
	return c.convert(f.Force(), noDual), true
}
