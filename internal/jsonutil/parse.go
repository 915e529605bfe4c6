package jsonutil

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
)

// ErrTrailingData is returned by Parse when more than one JSON value is present.
var ErrTrailingData = errors.New("unexpected data after top-level JSON value")

// Parse decodes exactly one JSON document. Numbers keep their literal text.
func Parse(raw string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return Value{}, errors.Wrap(err, "invalid JSON")
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}

	return FromAny(decoded)
}

// FromColumn converts raw bytes read from a JSON or text column into a Value.
// Content that is not valid JSON is kept as a string scalar so ParseStored
// can apply its fallback policy.
func FromColumn(raw []byte) Value {
	if raw == nil {
		return NullValue()
	}

	v, err := Parse(string(raw))
	if err != nil {
		return String(string(raw))
	}

	return v
}

// ParseStored reads a persisted JSON value and never fails.
//
// Null and Undefined yield fallback. Objects and arrays pass through. A string
// is trimmed and parsed; an empty string or a parse failure yields fallback.
// Other scalars yield fallback.
func ParseStored(v Value, fallback Value) Value {
	switch v.kind {
	case Object, Array:
		return v
	case Scalar:
		s, ok := v.Str()
		if !ok {
			return fallback
		}

		s = strings.TrimSpace(s)
		if s == "" {
			return fallback
		}

		parsed, err := Parse(s)
		if err != nil {
			return fallback
		}

		return parsed
	default:
		return fallback
	}
}

// ParseInput normalizes a user supplied value that may be structured already
// or may be a raw JSON string.
//
// Undefined and null yield Null. A string is trimmed: empty yields Null,
// valid JSON yields the parsed value and anything else yields the trimmed
// string itself. Other values are returned unchanged.
func ParseInput(v Value) Value {
	if v.IsNull() {
		return NullValue()
	}

	s, ok := v.Str()
	if !ok {
		return v
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return NullValue()
	}

	parsed, err := Parse(s)
	if err != nil {
		return String(s)
	}

	return parsed
}

// EnsureObjectOrArray validates a JSON column input. A null result means the
// field is omitted.
func EnsureObjectOrArray(v Value, field string) (Value, error) {
	parsed := ParseInput(v)
	if parsed.IsNull() {
		return NullValue(), nil
	}

	if !parsed.IsObject() && !parsed.IsArray() {
		return Value{}, apperr.Validation(field + " must be JSON object or array")
	}

	return parsed, nil
}

// EnsureObject validates an input that must be a plain object. Null yields {}.
func EnsureObject(v Value, field string) (Value, error) {
	parsed := ParseInput(v)
	if parsed.IsNull() {
		return EmptyObject(), nil
	}

	if !parsed.IsObject() {
		return Value{}, apperr.Validation(field + " must be JSON object")
	}

	return parsed, nil
}

// IsJSONLike reports whether v is structured or a string holding valid JSON.
func IsJSONLike(v Value) bool {
	switch v.kind {
	case Undefined, Null, Object, Array:
		return true
	case Scalar:
		s, ok := v.Str()
		if !ok {
			return false
		}

		_, err := Parse(s)

		return err == nil
	default:
		return false
	}
}

// ToTinyInt coerces a boolean-like value into 0 or 1.
//
// Booleans map directly, numbers map 0 to 0 and anything else to 1, and the
// strings "1", "true", "0" and "false" are matched case-insensitively.
// Everything else yields fallback.
func ToTinyInt(v Value, fallback int) int {
	if b, ok := v.BoolValue(); ok {
		if b {
			return 1
		}

		return 0
	}

	if n, ok := v.NumberValue(); ok {
		f, err := n.Float64()
		if err != nil {
			return fallback
		}

		if f == 0 {
			return 0
		}

		return 1
	}

	if s, ok := v.Str(); ok {
		return TinyIntFromString(s, fallback)
	}

	return fallback
}

// TinyIntFromString is ToTinyInt for raw query strings.
func TinyIntFromString(s string, fallback int) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return 1
	case "0", "false":
		return 0
	default:
		return fallback
	}
}

// IsBooleanLike reports whether v is a boolean, the number 0 or 1, or one of
// the strings "0", "1", "true" and "false". Absent and null values pass.
func IsBooleanLike(v Value) bool {
	if v.IsNull() {
		return true
	}

	if n, ok := v.NumberValue(); ok {
		f, err := n.Float64()
		return err == nil && (f == 0 || f == 1)
	}

	return ToTinyInt(v, -1) != -1
}

// ToInt returns v as an int or fallback. JSON numbers must be integral
// (1e3 and 2.0 are accepted, 3.9 is not). Strings yield their leading
// integer.
func ToInt(v Value, fallback int) int {
	if n, ok := v.NumberValue(); ok {
		i, ok := StrictInt(n.String(), true)
		if !ok || i < math.MinInt || i > math.MaxInt {
			return fallback
		}

		return int(i)
	}

	str, ok := v.Str()
	if !ok {
		return fallback
	}

	i, ok := ParseInt(str)
	if !ok {
		return fallback
	}

	return i
}

// StrictInt parses s as a whole decimal integer. When number is true, JSON
// number literals with an integral value such as 5.0 or 1e3 are accepted
// too.
func StrictInt(s string, number bool) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}

	if !number {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

// ParseInt parses the leading decimal integer of s after optional spaces and
// sign, ignoring trailing characters ("12px" is 12). It reports false when no
// digit is found.
func ParseInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0, false
	}

	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return i, true
}
