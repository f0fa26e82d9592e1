package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeMarshal(t *testing.T) {
	single, err := json.Marshal(NewType("string"))
	require.NoError(t, err)
	assert.JSONEq(t, `"string"`, string(single))

	union, err := json.Marshal(NewType("String", "Number"))
	require.NoError(t, err)
	assert.JSONEq(t, `["String", "Number"]`, string(union))

	var decoded Type
	require.NoError(t, json.Unmarshal([]byte(`"boolean"`), &decoded))
	assert.Equal(t, NewType("boolean"), decoded)

	assert.Equal(t, "String | Number", NewType("String", "Number").String())
}

func TestValueRendering(t *testing.T) {
	tests := []struct {
		value Value
		text  string
		typ   string
	}{
		{String("a\"b"), `"a\"b"`, "string"},
		{Number(1.5), "1.5", "number"},
		{Number(-2), "-2", "number"},
		{Bool(true), "true", "boolean"},
		{BigInt("100"), "100n", "bigint"},
		{Null{}, "null", "any"},
		{Undefined{}, "undefined", "any"},
		{Array{Number(1), String("x")}, `[1, "x"]`, "array"},
		{Object{{Key: "a", Value: Number(1)}}, "{ a: 1 }", "object"},
		{Object{}, "{}", "object"},
		{Raw("!(a || b)"), "!(a || b)", "any"},
		{Unresolved("EVENTS.X"), "EVENTS.X", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.value.String())
			assert.Equal(t, tt.typ, TypeOf(tt.value))
		})
	}
}

func TestIsStatic(t *testing.T) {
	assert.True(t, IsStatic(String("x")))
	assert.True(t, IsStatic(Undefined{}))
	assert.False(t, IsStatic(Raw("x()")))
	assert.False(t, IsStatic(Unresolved("x")))
	assert.False(t, IsStatic(nil))
}

func TestEntryDefaults(t *testing.T) {
	slot := NewSlot("")
	assert.Equal(t, "default", slot.Name)
	assert.Equal(t, KindSlot, slot.EntryKind())
	assert.Equal(t, VisibilityPublic, slot.Visibility)
	assert.NotNil(t, slot.Props)

	model := NewModel("", "")
	assert.Equal(t, "value", model.Prop)
	assert.Equal(t, "input", model.Event)

	method := NewMethod("open", nil)
	assert.Equal(t, NewType("void"), method.Returns.Type)
	assert.NotNil(t, method.Params)

	data := NewData("count", nil)
	assert.Equal(t, Undefined{}, data.InitialValue)
	assert.Equal(t, "any", data.Type)
}

func TestEntryJSON(t *testing.T) {
	prop := NewProp("size")
	prop.Type = NewType("String", "Number")
	prop.Default = String("md")

	out, err := json.Marshal(prop)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "prop",
		"name": "size",
		"visibility": "public",
		"description": "",
		"keywords": [],
		"type": ["String", "Number"],
		"default": "md",
		"required": false,
		"describeModel": false
	}`, string(out))
}

func TestParseVisibility(t *testing.T) {
	v, ok := ParseVisibility("protected")
	assert.True(t, ok)
	assert.Equal(t, VisibilityProtected, v)

	_, ok = ParseVisibility("internal")
	assert.False(t, ok)
}
