package config

import (
	"strconv"
	"strings"
)

// Kind identifies what a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindString:   "string",
	KindNumber:   "number",
	KindBool:     "bool",
	KindSequence: "sequence",
	KindMapping:  "mapping",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Field is one key/value pair of a mapping Value
type Field struct {
	Key   string
	Value Value
}

// Value is a generic parsed document node: a scalar, a sequence or a
// mapping. Mapping fields keep their document order. The zero Value is null.
type Value struct {
	kind   Kind
	text   string
	num    float64
	items  []Value
	fields []Field
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// String returns a string scalar
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a numeric scalar
func Number(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// Bool returns a boolean scalar
func Bool(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

// Sequence returns a sequence of items
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Mapping returns a mapping with fields in the given order
func Mapping(fields ...Field) Value {
	return Value{kind: KindMapping, fields: fields}
}

// Strings returns a sequence of string scalars
func Strings(values ...string) Value {
	items := make([]Value, len(values))
	for i, s := range values {
		items[i] = String(s)
	}
	return Sequence(items...)
}

// Kind returns the kind of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsScalar reports whether v is a string, number or bool
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Text returns the textual form of a scalar
func (v Value) Text() (string, bool) {
	if !v.IsScalar() {
		return "", false
	}
	return v.text, true
}

// Int returns v as an integer. Numbers are truncated toward zero and
// strings must hold a base-10 integer.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindNumber:
		return int(v.num), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.text))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Items returns the elements of a sequence
func (v Value) Items() []Value {
	return v.items
}

// Fields returns the fields of a mapping in document order
func (v Value) Fields() []Field {
	return v.fields
}

// Get looks up key in a mapping. The last field wins on duplicate keys.
func (v Value) Get(key string) (Value, bool) {
	for i := len(v.fields) - 1; i >= 0; i-- {
		if v.fields[i].Key == key {
			return v.fields[i].Value, true
		}
	}
	return Value{}, false
}

// Keys returns the mapping keys in document order
func (v Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}
