package handler

import (
	"strings"

	"gorm.io/datatypes"

	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

// Column encodes v for a JSON column. Null and undefined give SQL NULL.
func Column(v jsonutil.Value) (datatypes.JSON, error) {
	if v.IsNull() {
		return nil, nil
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

// Text returns the trimmed string held by v, "" for anything else.
func Text(v jsonutil.Value) string {
	s, _ := v.Str()
	return strings.TrimSpace(s)
}

// OptionalText returns the trimmed string held by v, nil when it is empty
// or v is not a string.
func OptionalText(v jsonutil.Value) *string {
	s := Text(v)
	if s == "" {
		return nil
	}

	return &s
}

// OptionalID returns v as a positive ID, nil when v is null or not a
// positive integer.
func OptionalID(v jsonutil.Value) *uint64 {
	if v.IsNull() {
		return nil
	}

	n := jsonutil.ToInt(v, 0)
	if n < 1 {
		return nil
	}

	id := uint64(n)

	return &id
}
