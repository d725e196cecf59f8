// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"iter"
	"maps"
	"slices"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

// Value kinds.
// The set is closed: no other kind can be constructed
// or decoded.
const (
	NullKind ValueKind = iota
	StringKind
	NumberKind
	BoolKind
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "bool"
	default:
		return "[!] invalid ValueKind value"
	}
}

// ParseValueKind returns the ValueKind named by s.
func ParseValueKind(s string) (ValueKind, error) {
	switch s {
	case "null":
		return NullKind, nil
	case "string":
		return StringKind, nil
	case "number":
		return NumberKind, nil
	case "bool":
		return BoolKind, nil
	}
	return 0, newErr("unknown metadata value kind " + s)
}

// Value is a metadata value: a string, a number,
// a boolean or null.
// The zero Value is null.
type Value struct {
	kind ValueKind
	s    string
	n    float64
	b    bool
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: StringKind, s: s} }

// NumberValue returns a number Value.
func NumberValue(n float64) Value { return Value{kind: NumberKind, n: n} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: BoolKind, b: b} }

// Kind returns the kind of v.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == StringKind }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == NumberKind }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == BoolKind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == NullKind }

// Match calls the function that handles the kind of v and
// returns its result.
// Every kind must be handled: all four functions are
// required.
func Match[T any](v Value, str func(string) T, num func(float64) T, boolean func(bool) T, null func() T) T {
	switch v.kind {
	case StringKind:
		return str(v.s)
	case NumberKind:
		return num(v.n)
	case BoolKind:
		return boolean(v.b)
	case NullKind:
		return null()
	}
	// Should never happen.
	panic("invalid ValueKind value")
}

// Properties is a set of named metadata values.
// Iteration through All is in ascending name order.
type Properties map[string]Value

// Names returns the property names in ascending order.
func (p Properties) Names() []string { return slices.Sorted(maps.Keys(p)) }

// All iterates over p in ascending name order.
func (p Properties) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range p.Names() {
			if !yield(k, p[k]) {
				return
			}
		}
	}
}

// Clone returns a copy of p.
func (p Properties) Clone() Properties { return maps.Clone(p) }
