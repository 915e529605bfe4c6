// Package jsonutil implements a tagged JSON value with the coercion and
// deep-merge helpers used by settings and JSON columns.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	// Undefined is the zero Kind. It marks an absent value, e.g. a missing key.
	Undefined Kind = iota
	// Null is the JSON null literal.
	Null
	// Scalar is a string, bool or number.
	Scalar
	// Array is an ordered list of values.
	Array
	// Object is a string keyed map of values.
	Object
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "undefined"
	}
}

// Value is a JSON value. The zero Value is Undefined.
type Value struct {
	kind   Kind
	scalar any // string, bool or json.Number
	arr    []Value
	obj    map[string]Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{kind: Null} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: Scalar, scalar: s} }

// Bool returns a bool scalar.
func Bool(b bool) Value { return Value{kind: Scalar, scalar: b} }

// Number returns a number scalar keeping its literal text.
func Number(n json.Number) Value { return Value{kind: Scalar, scalar: n} }

// Int returns a number scalar.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// ArrayOf returns an array of the given items.
func ArrayOf(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: Array, arr: items}
}

// ObjectOf returns an object holding m. A nil map yields {}.
func ObjectOf(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}

	return Value{kind: Object, obj: m}
}

// EmptyObject returns {}.
func EmptyObject() Value { return ObjectOf(nil) }

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is absent.
func (v Value) IsUndefined() bool { return v.kind == Undefined }

// IsNull reports whether v is absent or JSON null.
func (v Value) IsNull() bool { return v.kind == Undefined || v.kind == Null }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == Object }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == Array }

// Str returns the string scalar held by v.
func (v Value) Str() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == Scalar
}

// BoolValue returns the bool scalar held by v.
func (v Value) BoolValue() (bool, bool) {
	b, ok := v.scalar.(bool)
	return b, ok && v.kind == Scalar
}

// NumberValue returns the number scalar held by v.
func (v Value) NumberValue() (json.Number, bool) {
	n, ok := v.scalar.(json.Number)
	return n, ok && v.kind == Scalar
}

// Get returns the member key of an object, Undefined otherwise.
func (v Value) Get(key string) Value {
	if v.kind != Object {
		return Value{}
	}

	return v.obj[key]
}

// Has reports whether an object holds key.
func (v Value) Has(key string) bool {
	if v.kind != Object {
		return false
	}

	_, ok := v.obj[key]

	return ok
}

// Keys returns the sorted keys of an object.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Len returns the number of items of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Items returns a copy of the items of an array.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}

	out := make([]Value, len(v.arr))
	copy(out, v.arr)

	return out
}

// Members returns a shallow copy of the members of an object.
func (v Value) Members() map[string]Value {
	if v.kind != Object {
		return nil
	}

	out := make(map[string]Value, len(v.obj))
	for k, item := range v.obj {
		out[k] = item
	}

	return out
}

// With returns a copy of the object v with key set to item.
// Non-objects are treated as {}.
func (v Value) With(key string, item Value) Value {
	m := v.Members()
	if m == nil {
		m = map[string]Value{}
	}

	m[key] = item

	return ObjectOf(m)
}

// Equal reports deep equality. Numbers compare by literal text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case Scalar:
		return v.scalar == o.scalar
	case Array:
		if len(v.arr) != len(o.arr) {
			return false
		}

		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}

		return true
	case Object:
		if len(v.obj) != len(o.obj) {
			return false
		}

		for k, item := range v.obj {
			other, ok := o.obj[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// FromAny converts a decoded Go value into a Value.
// Maps, slices and the JSON scalar types are converted directly, anything
// else goes through encoding/json first.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(json.Number(strconv.FormatFloat(t, 'f', -1, 64))), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case []any:
		items := make([]Value, 0, len(t))

		for _, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			items = append(items, conv)
		}

		return ArrayOf(items...), nil
	case map[string]any:
		members := make(map[string]Value, len(t))

		for k, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			members[k] = conv
		}

		return ObjectOf(members), nil
	default:
		raw, err := json.Marshal(in)
		if err != nil {
			return Value{}, errors.Wrap(err, "failed to encode value")
		}

		return Parse(string(raw))
	}
}

// MustFromAny is FromAny for literals known to be valid.
func MustFromAny(in any) Value {
	v, err := FromAny(in)
	if err != nil {
		panic(err)
	}

	return v
}

// Interface converts v back to plain Go values (map[string]any, []any,
// string, bool, json.Number, nil).
func (v Value) Interface() any {
	switch v.kind {
	case Scalar:
		return v.scalar
	case Array:
		out := make([]any, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.Interface())
		}

		return out
	case Object:
		out := make(map[string]any, len(v.obj))

		for k, item := range v.obj {
			if item.IsUndefined() {
				continue
			}

			out[k] = item.Interface()
		}

		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Undefined object members are skipped
// and a top level Undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Scalar:
		if n, ok := v.scalar.(json.Number); ok {
			buf.WriteString(n.String())
			return nil
		}

		raw, err := json.Marshal(v.scalar)
		if err != nil {
			return errors.Wrap(err, "failed to encode scalar")
		}

		buf.Write(raw)
	case Array:
		buf.WriteByte('[')

		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := item.encode(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')

		first := true

		for _, k := range v.Keys() {
			item := v.obj[k]
			if item.IsUndefined() {
				continue
			}

			if !first {
				buf.WriteByte(',')
			}

			first = false

			key, _ := json.Marshal(k) //nolint:errchkjson // strings always encode
			buf.Write(key)
			buf.WriteByte(':')

			if err := item.encode(buf); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}

	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A literal null decodes to Null,
// so request fields can tell "absent" (Undefined) from "null".
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}
