package validate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

type sample struct {
	Name      jsonutil.Value `json:"name"       validate:"required,text,notblank,max=8"`
	Kind      jsonutil.Value `json:"kind"       validate:"omitempty,text,oneof=a b"`
	Enabled   jsonutil.Value `json:"enabled"    validate:"omitempty,booleanlike"`
	SortOrder jsonutil.Value `json:"sort_order" validate:"omitempty,intmin=0"`
	Config    jsonutil.Value `json:"config"     validate:"omitempty,jsonlike"`
	When      jsonutil.Value `json:"when"       validate:"omitempty,iso8601"`
}

func decode(t *testing.T, raw string) sample {
	t.Helper()

	var s sample
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	return s
}

func failedPaths(t *testing.T, err error) []string {
	t.Helper()

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, Message, e.Message)
	assert.Equal(t, 400, e.Status)

	details, ok := e.Details.(map[string]any)
	require.True(t, ok)

	errs, ok := details["errors"].([]FieldError)
	require.True(t, ok)

	paths := make([]string, 0, len(errs))
	for _, fe := range errs {
		paths = append(paths, fe.Path)
	}

	return paths
}

func TestBody(t *testing.T) {
	v := New()

	testCases := []struct {
		name    string
		body    string
		invalid []string
	}{
		{name: "minimal", body: `{"name":"lab"}`},
		{
			name: "everything valid",
			body: `{"name":" lab ","kind":"b","enabled":"TRUE","sort_order":"5","config":"{\"a\":1}","when":"2024-05-01T10:00:00Z"}`,
		},
		{name: "numeric strings and numbers", body: `{"name":"x","enabled":0,"sort_order":7}`},
		{name: "integral float", body: `{"name":"x","sort_order":5.0}`},
		{name: "null optionals", body: `{"name":"x","enabled":null,"sort_order":null,"config":null}`},
		{name: "missing name", body: `{}`, invalid: []string{"name"}},
		{name: "null name", body: `{"name":null}`, invalid: []string{"name"}},
		{name: "blank name", body: `{"name":"   "}`, invalid: []string{"name"}},
		{name: "number name", body: `{"name":12}`, invalid: []string{"name"}},
		{name: "long name", body: `{"name":"abcdefghi"}`, invalid: []string{"name"}},
		{name: "bad enum", body: `{"name":"x","kind":"c"}`, invalid: []string{"kind"}},
		{name: "bool enum does not panic", body: `{"name":"x","kind":true}`, invalid: []string{"kind"}},
		{name: "bad flag", body: `{"name":"x","enabled":"yes"}`, invalid: []string{"enabled"}},
		{name: "flag out of range", body: `{"name":"x","enabled":2}`, invalid: []string{"enabled"}},
		{name: "negative sort", body: `{"name":"x","sort_order":-1}`, invalid: []string{"sort_order"}},
		{name: "fractional sort", body: `{"name":"x","sort_order":1.5}`, invalid: []string{"sort_order"}},
		{name: "garbage sort", body: `{"name":"x","sort_order":"12px"}`, invalid: []string{"sort_order"}},
		{name: "broken json string", body: `{"name":"x","config":"{"}`, invalid: []string{"config"}},
		{name: "number is not json like", body: `{"name":"x","config":3}`, invalid: []string{"config"}},
		{name: "bad date", body: `{"name":"x","when":"yesterday"}`, invalid: []string{"when"}},
		{
			name:    "several fields",
			body:    `{"enabled":"maybe","sort_order":"-3"}`,
			invalid: []string{"name", "enabled", "sort_order"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Body(decode(t, tc.body))

			if tc.invalid == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ElementsMatch(t, tc.invalid, failedPaths(t, err))
		})
	}
}

func TestQueryLocation(t *testing.T) {
	type query struct {
		Year string `json:"year" validate:"omitempty,intmin=0"`
	}

	err := New().Query(query{Year: "abc"})
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)

	errs := e.Details.(map[string]any)["errors"].([]FieldError)
	require.Len(t, errs, 1)
	assert.Equal(t, LocationQuery, errs[0].Location)
	assert.Equal(t, "year", errs[0].Path)
	assert.Equal(t, "Invalid value", errs[0].Message)

	require.NoError(t, New().Query(query{Year: "2024"}))
	require.NoError(t, New().Query(query{}))
}

func TestInvalid(t *testing.T) {
	err := Invalid(LocationParams, "id", "abc")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, []string{"id"}, failedPaths(t, err))
}

func TestStrictInt(t *testing.T) {
	n, ok := StrictInt("42", false)
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = StrictInt("4.0", false)
	assert.False(t, ok)

	n, ok = StrictInt("4.0", true)
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)

	_, ok = StrictInt(" 4", false)
	assert.False(t, ok)

	n, ok = StrictInt("1e3", true)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), n)

	_, ok = StrictInt("1e40", true)
	assert.False(t, ok)
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		in       string
		expected time.Time
	}{
		{in: "2024-05-01T10:00:00Z", expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-05-01T10:00:00.250+08:00", expected: time.Date(2024, 5, 1, 2, 0, 0, 250e6, time.UTC)},
		{in: "2024-05-01T10:00", expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-05-01", expected: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		got, ok := ParseTime(tc.in)
		require.True(t, ok, tc.in)
		assert.True(t, tc.expected.Equal(got), "%s parsed as %s", tc.in, got)
	}

	_, ok := ParseTime("01/05/2024")
	assert.False(t, ok)
}
