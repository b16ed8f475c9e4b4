package treedump

import (
	"bufio"
	"encoding/json"
	"io"
)

// jsonValue is the staged JSON form of a Value. Staging is needed
// because location injection has to know whether the wrapped value
// rendered to an object before deciding where the location key goes.
// A jsonValue is one of: bool, string, []jsonValue, *jsonObject.
type jsonValue any

// jsonObject is a JSON object with stable key order. Later duplicate
// keys overwrite earlier values in place.
type jsonObject struct {
	keys []string
	vals map[string]jsonValue
}

func newJSONObject() *jsonObject {
	return &jsonObject{vals: make(map[string]jsonValue)}
}

func (o *jsonObject) set(key string, v jsonValue) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// encodeValue renders a canonicalized Value to its staged JSON form.
func encodeValue(v Value) jsonValue {
	switch x := v.(type) {
	case Leaf:
		return x.Text
	case List:
		return encodeItems(x.Items)
	case Tuple:
		return encodeItems(x.Items)
	case Record:
		if x.Label != "" {
			fatalf("json: labeled record %q reached the encoder", x.Label)
		}
		obj := newJSONObject()
		for _, f := range x.Fields {
			obj.set(f.Name, encodeValue(f.Value))
		}
		return obj
	case Node:
		return encodeNode(x)
	}
	fatalf("json: unknown value variant %T", v)
	return nil
}

func encodeNode(n Node) jsonValue {
	switch {
	case n.Tag == "False" && len(n.Children) == 0:
		return false
	case n.Tag == "True" && len(n.Children) == 0:
		return true
	case n.Tag == "Bag.listToBag" && len(n.Children) == 1:
		// The bag wrapper is transparent in JSON.
		return encodeValue(n.Children[0])
	case n.Tag == "L" && len(n.Children) == 2:
		inner := encodeValue(n.Children[1])
		if obj, ok := inner.(*jsonObject); ok {
			obj.set("location", encodeValue(n.Children[0]))
			return obj
		}
		// Non-object payloads drop the location. Known lossy case.
		return inner
	case len(n.Children) == 0:
		return n.Tag
	}
	obj := newJSONObject()
	obj.set(n.Tag, encodeItems(n.Children))
	return obj
}

func encodeItems(items []Value) []jsonValue {
	out := make([]jsonValue, len(items))
	for i, it := range items {
		out[i] = encodeValue(it)
	}
	return out
}

// WriteJSON emits the tree sets as one compact top-level JSON array,
// one object per compilation unit.
func WriteJSON(w io.Writer, sets []TreeSet) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asFatal(r)
		}
	}()

	bw := bufio.NewWriter(w)
	bw.WriteByte('[')
	for i, ts := range sets {
		if i > 0 {
			bw.WriteByte(',')
		}
		obj := newJSONObject()
		obj.set("module", jsonValue(ts.Module))
		obj.set("parsed", encodeValue(ts.Parsed))
		obj.set("renamed", encodeValue(ts.Renamed))
		obj.set("typechecked", encodeValue(ts.Typechecked))
		obj.set("exports", encodeValue(ts.Exports))
		if err := writeJSONValue(bw, obj); err != nil {
			return err
		}
	}
	bw.WriteByte(']')
	return bw.Flush()
}

func writeJSONValue(bw *bufio.Writer, v jsonValue) error {
	switch x := v.(type) {
	case bool:
		if x {
			_, err := bw.WriteString("true")
			return err
		}
		_, err := bw.WriteString("false")
		return err
	case string:
		return writeJSONString(bw, x)
	case []jsonValue:
		bw.WriteByte('[')
		for i, it := range x {
			if i > 0 {
				bw.WriteByte(',')
			}
			if err := writeJSONValue(bw, it); err != nil {
				return err
			}
		}
		return bw.WriteByte(']')
	case *jsonObject:
		bw.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				bw.WriteByte(',')
			}
			if err := writeJSONString(bw, k); err != nil {
				return err
			}
			bw.WriteByte(':')
			if err := writeJSONValue(bw, x.vals[k]); err != nil {
				return err
			}
		}
		return bw.WriteByte('}')
	}
	fatalf("json: unknown staged value %T", v)
	return nil
}

func writeJSONString(bw *bufio.Writer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = bw.Write(b)
	return err
}
