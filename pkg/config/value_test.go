package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueScalars(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		kind     Kind
		text     string
		isScalar bool
	}{
		{name: "null", value: Null(), kind: KindNull},
		{name: "zero value is null", value: Value{}, kind: KindNull},
		{name: "string", value: String("/lx"), kind: KindString, text: "/lx", isScalar: true},
		{name: "integral number", value: Number(7000), kind: KindNumber, text: "7000", isScalar: true},
		{name: "fractional number", value: Number(0.5), kind: KindNumber, text: "0.5", isScalar: true},
		{name: "bool", value: Bool(true), kind: KindBool, text: "true", isScalar: true},
		{name: "sequence", value: Strings("a"), kind: KindSequence},
		{name: "mapping", value: Mapping(), kind: KindMapping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			text, ok := tt.value.Text()
			assert.Equal(t, tt.isScalar, ok)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestValueInt(t *testing.T) {
	n, ok := Number(12.9).Int()
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = String("42").Int()
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = String("4x2").Int()
	assert.False(t, ok)

	_, ok = Bool(true).Int()
	assert.False(t, ok)
}

func TestValueGetLastWins(t *testing.T) {
	m := Mapping(
		Field{Key: "a", Value: String("first")},
		Field{Key: "b", Value: String("b")},
		Field{Key: "a", Value: String("second")},
	)

	v, ok := m.Get("a")
	assert.True(t, ok)
	text, _ := v.Text()
	assert.Equal(t, "second", text)

	_, ok = m.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "a"}, m.Keys())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
