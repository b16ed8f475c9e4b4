package treedump

// Cleanup canonicalizes a raw Value tree: cons-encoded sequences become
// List values, tuple-tagged nodes become Tuple values, and bag wrappers
// are rewritten to the canonical "Bag.listToBag" tag. The traversal
// engine mirrors structure without knowing what any constructor means;
// this pass is the single place that semantic container knowledge
// lives.
//
// Malformed list encodings are fatal structural-invariant violations:
// they indicate the input no longer matches the assumed shape contract
// and abort the dump for that unit.
func Cleanup(v Value) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, asFatal(r)
		}
	}()
	return cleanupValue(v), nil
}

func cleanupValue(v Value) Value {
	switch x := v.(type) {
	case Leaf:
		return x
	case Record:
		if len(x.Fields) == 0 {
			return Record{Label: x.Label}
		}
		fields := make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Field{Name: f.Name, Value: cleanupValue(f.Value)}
		}
		return Record{Label: x.Label, Fields: fields}
	case Node:
		return cleanupNode(x)
	case Tuple:
		// Containers should not appear pre-cleanup; recursing keeps
		// the pass idempotent on its own output.
		if len(x.Items) == 0 {
			return x
		}
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			items[i] = cleanupValue(it)
		}
		return Tuple{Items: items}
	case List:
		if len(x.Items) == 0 {
			return x
		}
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			items[i] = cleanupValue(it)
		}
		return List{Items: items}
	}
	fatalf("cleanup: unknown value variant %T", v)
	return nil
}

func cleanupNode(n Node) Value {
	switch {
	case n.Tag == "[]":
		if len(n.Children) != 0 {
			fatalf("cleanup: list terminator with %d children", len(n.Children))
		}
		return List{}
	case n.Tag == "(:)":
		if len(n.Children) != 2 {
			fatalf("cleanup: cons cell with %d children", len(n.Children))
		}
		head := cleanupValue(n.Children[0])
		tail, ok := cleanupValue(n.Children[1]).(List)
		if !ok {
			fatalf("cleanup: cons tail did not canonicalize to a list")
		}
		return List{Items: append([]Value{head}, tail.Items...)}
	case isTupleTag(n.Tag):
		items := make([]Value, len(n.Children))
		for i, ch := range n.Children {
			items[i] = cleanupValue(ch)
		}
		return Tuple{Items: items}
	case n.Tag == "Bag" && len(n.Children) == 1:
		return Node{Tag: "Bag.listToBag", Children: []Value{cleanupValue(n.Children[0])}}
	}
	if len(n.Children) == 0 {
		return Node{Tag: n.Tag}
	}
	children := make([]Value, len(n.Children))
	for i, ch := range n.Children {
		children[i] = cleanupValue(ch)
	}
	return Node{Tag: n.Tag, Children: children}
}

// isTupleTag reports whether tag matches the tuple constructor naming
// pattern: an opening paren, zero or more commas, a closing paren.
// Deliberately permissive: a tag like "(,," without the closing paren
// falls through to generic node handling.
func isTupleTag(tag string) bool {
	if len(tag) < 2 || tag[0] != '(' || tag[len(tag)-1] != ')' {
		return false
	}
	for i := 1; i < len(tag)-1; i++ {
		if tag[i] != ',' {
			return false
		}
	}
	return true
}
