package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
)

// InvalidJSONMessage is reported for request bodies that do not decode.
const InvalidJSONMessage = "Invalid JSON payload"

type (
	// ErrorInfo is the error member of a failed response.
	ErrorInfo struct {
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	}

	// ErrorBody is the envelope of a failed response.
	ErrorBody struct {
		OK    bool      `json:"ok"`
		Error ErrorInfo `json:"error"`
	}
)

// OK writes {ok:true,data}. A nil data is written as null.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"ok": true, "data": data})
}

// Done writes {ok:true} for operations without a result.
func Done(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Fail writes the error envelope with the given status.
func Fail(c *fiber.Ctx, status int, message string, details any) error {
	return c.Status(status).JSON(ErrorBody{
		Error: ErrorInfo{Message: message, Details: details},
	})
}

// BindJSON decodes the request body into out with the app's JSON decoder.
// An empty body leaves out untouched.
func BindJSON(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return apperr.Validation(InvalidJSONMessage).WithCause(err)
	}

	return nil
}

// Body decodes the request body as a free-form JSON value. Anything but an
// object yields an empty object.
func Body(c *fiber.Ctx) (jsonutil.Value, error) {
	var v jsonutil.Value
	if err := BindJSON(c, &v); err != nil {
		return jsonutil.Value{}, err
	}

	if !v.IsObject() {
		return jsonutil.EmptyObject(), nil
	}

	return v, nil
}

// ParamID returns the route parameter name as an ID >= 1.
func ParamID(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, validate.Invalid(validate.LocationParams, name, raw)
	}

	return id, nil
}

// QueryInt parses an optional integer query parameter >= minimum. Absent
// parameters return nil.
func QueryInt(c *fiber.Ctx, name string, minimum int) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent is not an error
	}

	n, ok := validate.StrictInt(strings.TrimSpace(raw), false)
	if !ok || n < int64(minimum) {
		return nil, validate.Invalid(validate.LocationQuery, name, raw)
	}

	i := int(n)

	return &i, nil
}

// NotFound replaces sentinel with a 404 carrying message.
func NotFound(err, sentinel error, message string) error {
	if errors.Is(err, sentinel) {
		return apperr.NotFound(message).WithCause(err)
	}

	return err
}

// Origin returns scheme://host of the request as the client saw it. The
// first entry of X-Forwarded-Proto and X-Forwarded-Host wins over the
// connection values. It is empty when no host is known.
func Origin(c *fiber.Ctx) string {
	proto := firstEntry(c.Get(fiber.HeaderXForwardedProto))
	if proto == "" {
		proto = c.Protocol()
	}

	host := firstEntry(c.Get(fiber.HeaderXForwardedHost))
	if host == "" {
		host = firstEntry(c.Get(fiber.HeaderHost))
	}

	if host == "" {
		return ""
	}

	return proto + "://" + host
}

func firstEntry(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

// AssetURL returns the public URL of a stored file for this request.
func (d *Deps) AssetURL(c *fiber.Ctx) func(rel string) string {
	origin := Origin(c)

	return func(rel string) string {
		if d.Storage == nil {
			return "/static/" + strings.TrimLeft(rel, "/")
		}

		return d.Storage.URL(origin, rel)
	}
}
