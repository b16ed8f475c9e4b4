package treedump

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/lumen-lang/lumen/internal/position"
)

// benignMarkers are substrings of fault messages that denote fields
// which are legitimately unpopulated at an earlier compiler phase.
// Faults matching one of them render as "<<marker>>" leaves.
var benignMarkers = []string{
	"PostTcExpr",
	"PostTcKind",
	"PostTcType",
	"fixity",
	"placeHolderNames",
}

// Converter turns arbitrary front-end values into generic Values. It is
// stateless apart from its read-only rule table and safe for concurrent
// use across compilation units.
type Converter struct {
	rules []rule
}

// rule is one entry of the type-directed override table. Rules are
// consulted in order before generic decomposition; the first one that
// reports handled wins.
type rule struct {
	name   string
	render func(c *Converter, v any, noDual bool) (Value, bool)
}

// NewConverter builds a converter with the standard override table:
// dual-render nodes, opaque types, the identifier family, placeholder
// slots, then generic decomposition.
func NewConverter() *Converter {
	return &Converter{
		rules: []rule{
			{name: "dual-render", render: renderDual},
			{name: "opaque", render: renderOpaque},
			{name: "identifier", render: renderIdent},
			{name: "placeholder", render: renderPlaceholder},
		},
	}
}

// Convert renders v as a raw generic Value. Faults raised while
// inspecting a single node are contained at that node; only fatal
// contract violations escape (as panics caught by DumpUnit).
func (c *Converter) Convert(v any) Value {
	return c.convert(v, false)
}

// convert is the recursive engine. noDual suppresses dual-render
// wrapping for the rest of the path once an ancestor has wrapped.
func (c *Converter) convert(v any, noDual bool) (out Value) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(fatalError); ok {
				panic(r)
			}
			out = faultLeaf(r)
		}
	}()

	if v == nil {
		return Leaf{Text: "nil"}
	}
	for _, rl := range c.rules {
		if val, handled := rl.render(c, v, noDual); handled {
			return val
		}
	}
	return c.generic(v, noDual)
}

// faultLeaf converts a recovered panic value into a diagnostic leaf,
// using the canonical marker form for known-benign placeholder faults.
func faultLeaf(r any) Leaf {
	msg := fmt.Sprint(r)
	for _, marker := range benignMarkers {
		if strings.Contains(msg, marker) {
			return Leaf{Text: "<<" + marker + ">>"}
		}
	}
	return Leaf{Text: msg}
}

// locusHolder, pairHolder and bagHolder are the structural hooks the
// shared container types expose so the traversal can mirror them
// without knowing their instantiated element types.
type locusHolder interface {
	Locus() (position.Span, any)
}

type pairHolder interface {
	PairItems() (any, any)
}

type bagHolder interface {
	BagItems() []any
}

// generic decomposes a value by its runtime structure. Raw traversal
// never emits Tuple or List: sequences use the cons encoding and pairs
// the "(,)" tag, both canonicalized later by cleanup.
func (c *Converter) generic(v any, noDual bool) Value {
	switch x := v.(type) {
	case locusHolder:
		span, inner := x.Locus()
		return Node{Tag: "L", Children: []Value{
			c.convert(span, noDual),
			c.convert(inner, noDual),
		}}
	case pairHolder:
		fst, snd := x.PairItems()
		return Node{Tag: "(,)", Children: []Value{
			c.convert(fst, noDual),
			c.convert(snd, noDual),
		}}
	case bagHolder:
		items := x.BagItems()
		vals := make([]Value, len(items))
		for i, it := range items {
			vals[i] = c.convert(it, noDual)
		}
		return Node{Tag: "Bag", Children: []Value{consList(vals)}}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Leaf{Text: "nil"}
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return Node{Tag: "True"}
		}
		return Node{Tag: "False"}
	case reflect.String:
		return Leaf{Text: rv.String()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Leaf{Text: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Leaf{Text: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		return Leaf{Text: strconv.FormatFloat(rv.Float(), 'g', -1, 64)}
	case reflect.Slice, reflect.Array:
		vals := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			vals[i] = c.convert(rv.Index(i).Interface(), noDual)
		}
		return consList(vals)
	case reflect.Map:
		return c.mapValue(rv, noDual)
	case reflect.Struct:
		return c.structNode(rv, noDual)
	}
	return Leaf{Text: fmt.Sprint(v)}
}

var spanType = reflect.TypeOf(position.Span{})

// structNode mirrors a struct as a tagged node over its exported
// fields. Span fields are skipped: node locations are dumped through
// their Located wrappers, not repeated on every node.
func (c *Converter) structNode(rv reflect.Value, noDual bool) Value {
	t := rv.Type()
	tag := t.Name()
	if i := strings.IndexByte(tag, '['); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		tag = t.String()
	}
	var children []Value
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == spanType {
			continue
		}
		children = append(children, c.convert(rv.Field(i).Interface(), noDual))
	}
	return Node{Tag: tag, Children: children}
}

// mapValue mirrors a map as a cons-encoded list of key/value pairs,
// sorted by key text for deterministic output.
func (c *Converter) mapValue(rv reflect.Value, noDual bool) Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	vals := make([]Value, len(keys))
	for i, k := range keys {
		vals[i] = Node{Tag: "(,)", Children: []Value{
			c.convert(k.Interface(), noDual),
			c.convert(rv.MapIndex(k).Interface(), noDual),
		}}
	}
	return consList(vals)
}

// consList encodes a sequence of already-converted values as a chain of
// "(:)" nodes terminated by "[]".
func consList(vals []Value) Value {
	out := Value(Node{Tag: "[]"})
	for i := len(vals) - 1; i >= 0; i-- {
		out = Node{Tag: "(:)", Children: []Value{vals[i], out}}
	}
	return out
}
