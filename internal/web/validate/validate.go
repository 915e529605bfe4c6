// Package validate checks request input with go-playground/validator.
//
// Request structs keep loosely typed fields as jsonutil.Value so the API
// accepts "5" and 5 alike. The validator sees such a field as the plain Go
// value it holds (string, bool, json.Number, map, slice or nil).
package validate

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

// Message is the top level message of every validation failure.
const Message = "Validation failed"

// Locations of a failing field.
const (
	LocationBody   = "body"
	LocationQuery  = "query"
	LocationParams = "params"
)

const invalidValue = "Invalid value"

type (
	// FieldError describes one failing field.
	FieldError struct {
		Type     string `json:"type"`
		Value    any    `json:"value,omitempty"`
		Message  string `json:"msg"`
		Path     string `json:"path"`
		Location string `json:"location"`
		Tag      string `json:"tag,omitempty"`
	}

	// XValidator validates request structs.
	XValidator struct {
		validator *validator.Validate
	}
)

var (
	jsonNumberType = reflect.TypeOf(json.Number(""))
	stringType     = reflect.TypeOf("")
)

// New returns a validator with the custom tags registered:
//
//	text         a JSON string
//	notblank     a JSON string that is not empty after trimming
//	booleanlike  see jsonutil.IsBooleanLike
//	jsonlike     see jsonutil.IsJSONLike
//	intmin=N     an integer (number or numeric string) >= N
//	iso8601      an ISO-8601 date or date-time string
func New() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if value, ok := field.Interface().(jsonutil.Value); ok {
			return value.Interface()
		}

		return nil
	}, jsonutil.Value{})

	for tag, fn := range map[string]validator.Func{
		"text":        isText,
		"notblank":    isNotBlank,
		"booleanlike": isBooleanLike,
		"jsonlike":    isJSONLike,
		"intmin":      isIntMin,
		"iso8601":     isISO8601,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return &XValidator{validator: v}
}

// Body validates a decoded request body.
func (x *XValidator) Body(data any) error {
	return x.check(data, LocationBody)
}

// Query validates query parameters collected into a struct.
func (x *XValidator) Query(data any) error {
	return x.check(data, LocationQuery)
}

func (x *XValidator) check(data any, location string) error {
	err := x.validator.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate request")
	}

	out := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		out = append(out, FieldError{
			Type:     "field",
			Value:    fe.Value(),
			Message:  invalidValue,
			Path:     fe.Field(),
			Location: location,
			Tag:      fe.Tag(),
		})
	}

	return Failed(out...)
}

// Failed builds the 400 error carrying errs as details.
func Failed(errs ...FieldError) error {
	return apperr.Validation(Message, map[string]any{"errors": errs})
}

// Invalid is Failed for a single field.
func Invalid(location, path string, value any) error {
	return Failed(FieldError{
		Type:     "field",
		Value:    value,
		Message:  invalidValue,
		Path:     path,
		Location: location,
	})
}

func isText(fl validator.FieldLevel) bool {
	return fl.Field().Type() == stringType
}

func isNotBlank(fl validator.FieldLevel) bool {
	return isText(fl) && strings.TrimSpace(fl.Field().String()) != ""
}

func fieldValue(fl validator.FieldLevel) jsonutil.Value {
	if !fl.Field().IsValid() {
		return jsonutil.NullValue()
	}

	v, err := jsonutil.FromAny(fl.Field().Interface())
	if err != nil {
		return jsonutil.Value{}
	}

	return v
}

func isBooleanLike(fl validator.FieldLevel) bool {
	return jsonutil.IsBooleanLike(fieldValue(fl))
}

func isJSONLike(fl validator.FieldLevel) bool {
	return jsonutil.IsJSONLike(fieldValue(fl))
}

func isIntMin(fl validator.FieldLevel) bool {
	minimum, err := strconv.ParseInt(fl.Param(), 10, 64)
	if err != nil {
		return false
	}

	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	n, ok := StrictInt(field.String(), field.Type() == jsonNumberType)

	return ok && n >= minimum
}

// StrictInt parses s as a whole decimal integer, see jsonutil.StrictInt.
func StrictInt(s string, number bool) (int64, bool) {
	return jsonutil.StrictInt(s, number)
}

func isISO8601(fl validator.FieldLevel) bool {
	if !isText(fl) {
		return false
	}

	_, ok := ParseTime(fl.Field().String())

	return ok
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the ISO-8601 forms the admin UI sends. Values without a
// zone are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
