package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
)

func TestParseStored(t *testing.T) {
	fallback := mustParse(t, `{"fallback":true}`)

	testCases := []struct {
		name     string
		input    Value
		expected string
	}{
		{name: "undefined", input: Value{}, expected: `{"fallback":true}`},
		{name: "null", input: NullValue(), expected: `{"fallback":true}`},
		{name: "object passes through", input: mustParse(t, `{"a":1}`), expected: `{"a":1}`},
		{name: "array passes through", input: mustParse(t, `[1,"x"]`), expected: `[1,"x"]`},
		{name: "json string", input: String(` {"a":[1,2]} `), expected: `{"a":[1,2]}`},
		{name: "blank string", input: String("   "), expected: `{"fallback":true}`},
		{name: "malformed string", input: String(`{"a":`), expected: `{"fallback":true}`},
		{name: "number", input: Int(3), expected: `{"fallback":true}`},
		{name: "bool", input: Bool(true), expected: `{"fallback":true}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.JSONEq(t, tc.expected, encode(t, ParseStored(tc.input, fallback)))
		})
	}
}

func TestParseStoredRoundTrip(t *testing.T) {
	docs := []string{
		`{"contact":{"address":"1 Road","email":"a@b.c"},"links":[{"title":"x","items":[]}]}`,
		`[1.50,-2,"three",null,true]`,
		`{"big":12345678901234567890}`,
	}

	for _, doc := range docs {
		v := mustParse(t, doc)
		serialized := encode(t, v)

		got := ParseStored(String(serialized), NullValue())
		assert.True(t, got.Equal(v), "round trip changed %s", doc)
		assert.JSONEq(t, doc, encode(t, got))
	}
}

func TestFromColumn(t *testing.T) {
	assert.True(t, FromColumn(nil).IsNull())
	assert.JSONEq(t, `{"a":1}`, encode(t, FromColumn([]byte(`{"a":1}`))))

	s, ok := FromColumn([]byte("not json")).Str()
	require.True(t, ok)
	assert.Equal(t, "not json", s)
}

func TestParseInput(t *testing.T) {
	assert.Equal(t, Null, ParseInput(Value{}).Kind())
	assert.Equal(t, Null, ParseInput(NullValue()).Kind())
	assert.Equal(t, Null, ParseInput(String("  ")).Kind())

	s, ok := ParseInput(String("  plain text ")).Str()
	require.True(t, ok)
	assert.Equal(t, "plain text", s)

	assert.JSONEq(t, `["a","b"]`, encode(t, ParseInput(String(`["a","b"]`))))
	assert.True(t, ParseInput(Int(7)).Equal(Int(7)))
}

func TestEnsureObjectOrArray(t *testing.T) {
	v, err := EnsureObjectOrArray(Value{}, "tags_json")
	require.NoError(t, err)
	assert.Equal(t, Null, v.Kind())

	v, err = EnsureObjectOrArray(String(`["x"]`), "tags_json")
	require.NoError(t, err)
	assert.True(t, v.IsArray())

	v, err = EnsureObjectOrArray(mustParse(t, `{"a":1}`), "meta_json")
	require.NoError(t, err)
	assert.True(t, v.IsObject())

	_, err = EnsureObjectOrArray(String("free text"), "tags_json")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "tags_json must be JSON object or array", err.Error())

	_, err = EnsureObjectOrArray(Int(1), "meta_json")
	require.Error(t, err)
}

func TestEnsureObject(t *testing.T) {
	v, err := EnsureObject(NullValue(), "value")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, encode(t, v))

	v, err = EnsureObject(String(`{"title":"Lab"}`), "value")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Lab"}`, encode(t, v))

	_, err = EnsureObject(String(`[1]`), "value")
	require.Error(t, err)
	assert.Equal(t, "value must be JSON object", err.Error())

	_, err = EnsureObject(Bool(false), "value")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestToTinyInt(t *testing.T) {
	testCases := []struct {
		name     string
		input    Value
		fallback int
		expected int
	}{
		{name: "true", input: Bool(true), expected: 1},
		{name: "false", input: Bool(false), fallback: 1, expected: 0},
		{name: "zero", input: Int(0), fallback: 1, expected: 0},
		{name: "non zero number", input: Int(5), expected: 1},
		{name: "decimal", input: Number("0.5"), expected: 1},
		{name: "string one", input: String("1"), expected: 1},
		{name: "string TRUE", input: String(" TRUE "), expected: 1},
		{name: "string false", input: String("False"), fallback: 1, expected: 0},
		{name: "string zero", input: String("0"), fallback: 1, expected: 0},
		{name: "unknown string", input: String("yes"), fallback: 7, expected: 7},
		{name: "undefined", input: Value{}, fallback: 1, expected: 1},
		{name: "null", input: NullValue(), fallback: 0, expected: 0},
		{name: "object", input: EmptyObject(), fallback: 3, expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToTinyInt(tc.input, tc.fallback))
		})
	}

	assert.True(t, IsBooleanLike(String("false")))
	assert.False(t, IsBooleanLike(String("maybe")))
	assert.False(t, IsBooleanLike(Int(2)))
	assert.True(t, IsBooleanLike(Int(0)))
	assert.True(t, IsBooleanLike(NullValue()))
	assert.False(t, IsBooleanLike(EmptyObject()))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 12, ToInt(String("12px"), 0))
	assert.Equal(t, -3, ToInt(String(" -3"), 0))
	assert.Equal(t, 0, ToInt(Number("3.9"), 0), "fractional numbers are not integers")
	assert.Equal(t, 1000, ToInt(Number("1e3"), 0))
	assert.Equal(t, 2, ToInt(Number("2.0"), 0))
	assert.Equal(t, 7, ToInt(Number("1e40"), 7))
	assert.Equal(t, 12, ToInt(String("12e3"), 0), "strings keep their leading integer")
	assert.Equal(t, 100, ToInt(String("abc"), 100))
	assert.Equal(t, 100, ToInt(Value{}, 100))
	assert.Equal(t, 100, ToInt(Bool(true), 100))
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse(`{"a":1} {"b":2}`)
	require.ErrorIs(t, err, ErrTrailingData)

	_, err = Parse(`{"a":1}   `)
	require.NoError(t, err)
}

func TestValueUnmarshalDistinguishesNull(t *testing.T) {
	type body struct {
		Value Value `json:"value"`
		Other Value `json:"other"`
	}

	var b body
	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &b))

	assert.Equal(t, Null, b.Value.Kind())
	assert.Equal(t, Undefined, b.Other.Kind())
}
