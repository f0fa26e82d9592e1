package entry

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a statically known value, or a verbatim capture of source text
// that could not be evaluated safely.
type Value interface {
	// String renders the value the way it would be written in source.
	String() string
	isValue()
}

type (
	// Undefined is the undefined value, explicit or implied.
	Undefined struct{}

	// Null is the null literal.
	Null struct{}

	// Bool is a boolean literal.
	Bool bool

	// Number is a numeric literal.
	Number float64

	// BigInt is an arbitrary precision integer literal, stored without its n suffix.
	BigInt string

	// String is a string literal.
	String string

	// Array is an array literal whose elements are all static.
	Array []Value

	// Object is an object literal whose members are all static, in source order.
	Object []Member

	// Raw is verbatim source text for an expression that is not evaluated.
	Raw string

	// Unresolved is an identifier or member path with no static binding.
	Unresolved string
)

// Member is a key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

func (Undefined) isValue()  {}
func (Null) isValue()       {}
func (Bool) isValue()       {}
func (Number) isValue()     {}
func (BigInt) isValue()     {}
func (String) isValue()     {}
func (Array) isValue()      {}
func (Object) isValue()     {}
func (Raw) isValue()        {}
func (Unresolved) isValue() {}

func (Undefined) String() string { return "undefined" }
func (Null) String() string      { return "null" }
func (b Bool) String() string    { return strconv.FormatBool(bool(b)) }
func (n Number) String() string  { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (b BigInt) String() string  { return string(b) + "n" }
func (s String) String() string  { return strconv.Quote(string(s)) }
func (r Raw) String() string     { return string(r) }

func (u Unresolved) String() string { return string(u) }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (o Object) String() string {
	if len(o) == 0 {
		return "{}"
	}
	parts := make([]string, len(o))
	for i, m := range o {
		parts[i] = m.Key + ": " + m.Value.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Get returns the member stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Text returns the plain text of a value: string contents for String,
// and the source rendering for everything else.
func Text(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	if v == nil {
		return ""
	}
	return v.String()
}

// TypeOf infers the runtime category of a value: string, number, boolean,
// bigint, array, object or any.
func TypeOf(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case BigInt:
		return "bigint"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "any"
	}
}

// IsStatic reports whether v is a concrete value rather than a capture.
func IsStatic(v Value) bool {
	switch v.(type) {
	case Raw, Unresolved, nil:
		return false
	}
	return true
}

func (Undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }
func (Null) MarshalJSON() ([]byte, error)      { return []byte("null"), nil }
func (b BigInt) MarshalJSON() ([]byte, error)  { return json.Marshal(b.String()) }
func (r Raw) MarshalJSON() ([]byte, error)     { return json.Marshal(string(r)) }

func (u Unresolved) MarshalJSON() ([]byte, error) { return json.Marshal(string(u)) }

func (o Object) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
