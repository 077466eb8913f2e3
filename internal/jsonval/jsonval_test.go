package jsonval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	v, err := Parse(`{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1, "x"]}`)
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	inner, _ := obj.Get("alpha")
	assert.Equal(t, Object{{Key: "b", Value: true}, {Key: "a", Value: nil}}, inner)

	mid, _ := obj.Get("mid")
	assert.Equal(t, []any{json.Number("1"), "x"}, mid)
}

func TestParse_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := Parse(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	assert.Equal(t, Object{{Key: "a", Value: json.Number("3")}, {Key: "b", Value: json.Number("2")}}, v)
}

func TestParse_Rejects(t *testing.T) {
	inputs := []string{"", "{", `{"a" 1}`, "[1,]", `{"a": 1} trailing`, "{'a': 1}"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestDumps(t *testing.T) {
	v, err := Parse(`{"foo":"bar","n":[1,2.5,{}],"e":[]}`)
	require.NoError(t, err)

	assert.Equal(t, `{"foo": "bar", "n": [1, 2.5, {}], "e": []}`, Dumps(v))
	assert.Equal(t, `{"foo":"bar","n":[1,2.5,{}],"e":[]}`, Compact(v))
}

func TestIndent(t *testing.T) {
	v, err := Parse(`{"name":"n","tags":["a"],"meta":{"ok":true}}`)
	require.NoError(t, err)

	expected := "{\n" +
		"  \"name\": \"n\",\n" +
		"  \"tags\": [\n" +
		"    \"a\"\n" +
		"  ],\n" +
		"  \"meta\": {\n" +
		"    \"ok\": true\n" +
		"  }\n" +
		"}"
	assert.Equal(t, expected, Indent(v))
}

func TestDumps_DoesNotEscapeHTML(t *testing.T) {
	assert.Equal(t, `"<a & b>"`, Dumps("<a & b>"))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"strict object", `{"a":1}`, Object{{Key: "a", Value: json.Number("1")}}},
		{"strict primitive", `42`, json.Number("42")},
		{"embedded object", `data={"a":1} trailing`, Object{{Key: "a", Value: json.Number("1")}}},
		{"escaped quotes", `[\"x\", \"y\"]`, []any{"x", "y"}},
		{"escaped slashes", `["a\/b"]`, []any{"a/b"}},
		{"literal newline escapes", `[1,\n2]`, []any{json.Number("1"), json.Number("2")}},
		{"stray backslashes", `\[1, 2\]`, []any{json.Number("1"), json.Number("2")}},
		{
			"single quoted literal",
			`{'a': 1, 'b': True, 'c': None, 'd': 'x'}`,
			Object{
				{Key: "a", Value: json.Number("1")},
				{Key: "b", Value: true},
				{Key: "c", Value: nil},
				{Key: "d", Value: "x"},
			},
		},
		{"prose stays a string", "  just some words  ", "  just some words  "},
		{"block yaml is not a literal", "a: 1", "a: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(tt.input))
		})
	}
}

func TestCoerce_RoundTrip(t *testing.T) {
	values := []any{
		Object{{Key: "a", Value: json.Number("1")}, {Key: "list", Value: []any{"x", nil, false}}},
		[]any{json.Number("1.5"), Object{}},
		"plain string",
		json.Number("-7"),
		true,
		nil,
	}

	for _, v := range values {
		assert.Equal(t, v, Coerce(Dumps(v)))
	}
}

func TestObjectSet(t *testing.T) {
	var obj Object
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, ok := obj.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}
