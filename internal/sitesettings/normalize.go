package sitesettings

import (
	"strings"

	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

// NormalizeHomeText builds a home text object holding exactly the
// allow-listed fields. String fields of src win, every other field comes
// from base, then from the defaults. The result is idempotent:
// NormalizeHomeText(b, NormalizeHomeText(b, x)) equals NormalizeHomeText(b, x).
func NormalizeHomeText(base, src jsonutil.Value) jsonutil.Value {
	var (
		defaults = DefaultHomeText()
		out      = make(map[string]jsonutil.Value, len(HomeTextFields))
	)

	for _, field := range HomeTextFields {
		switch {
		case isString(src.Get(field)):
			out[field] = src.Get(field)
		case isString(base.Get(field)):
			out[field] = base.Get(field)
		default:
			out[field] = defaults.Get(field)
		}
	}

	return jsonutil.ObjectOf(out)
}

func isString(v jsonutil.Value) bool {
	_, ok := v.Str()
	return ok
}

// scalarText renders a scalar the way a form field would: strings as is,
// numbers by their literal and booleans as true/false.
func scalarText(v jsonutil.Value) (string, bool) {
	if s, ok := v.Str(); ok {
		return s, true
	}

	if n, ok := v.NumberValue(); ok {
		return n.String(), true
	}

	if b, ok := v.BoolValue(); ok {
		if b {
			return "true", true
		}

		return "false", true
	}

	return "", false
}

// truthy mirrors the loose truthiness used by the admin form payloads.
func truthy(v jsonutil.Value) bool {
	switch v.Kind() {
	case jsonutil.Object, jsonutil.Array:
		return true
	case jsonutil.Scalar:
		if s, ok := v.Str(); ok {
			return s != ""
		}

		if b, ok := v.BoolValue(); ok {
			return b
		}

		if n, ok := v.NumberValue(); ok {
			f, err := n.Float64()
			return err == nil && f != 0
		}

		return false
	default:
		return false
	}
}

// Patch is a composite settings update split by domain. Empty domains are
// read instead of written.
type Patch struct {
	Footer   jsonutil.Value
	Meta     jsonutil.Value
	HomeText jsonutil.Value
}

// PatchFromBody extracts the composite patch from an admin request body.
//
//   - footer: contact.address and contact.email are trimmed strings ("" when
//     missing), links is taken only when it is an array.
//   - site_title, favicon_url: taken as text when present.
//   - home_text: allow-listed keys, trimmed; null and absent keys are skipped.
func PatchFromBody(body jsonutil.Value) Patch {
	var p Patch

	if footer := body.Get("footer"); truthy(footer) {
		contact := footer.Get("contact")
		patch := map[string]jsonutil.Value{
			"contact": jsonutil.ObjectOf(map[string]jsonutil.Value{
				"address": jsonutil.String(trimmedText(contact.Get("address"))),
				"email":   jsonutil.String(trimmedText(contact.Get("email"))),
			}),
		}

		if links := footer.Get("links"); links.IsArray() {
			patch["links"] = links
		}

		p.Footer = jsonutil.ObjectOf(patch)
	}

	meta := map[string]jsonutil.Value{}

	for _, field := range []string{"site_title", "favicon_url"} {
		v := body.Get(field)
		if v.IsUndefined() {
			continue
		}

		text, _ := scalarText(v)
		meta[field] = jsonutil.String(text)
	}

	if len(meta) > 0 {
		p.Meta = jsonutil.ObjectOf(meta)
	}

	if homeText := body.Get("home_text"); homeText.IsObject() {
		patch := map[string]jsonutil.Value{}

		for _, field := range HomeTextFields {
			text, ok := scalarText(homeText.Get(field))
			if !ok {
				continue
			}

			patch[field] = jsonutil.String(strings.TrimSpace(text))
		}

		if len(patch) > 0 {
			p.HomeText = jsonutil.ObjectOf(patch)
		}
	}

	return p
}

func trimmedText(v jsonutil.Value) string {
	s, ok := v.Str()
	if !ok {
		return ""
	}

	return strings.TrimSpace(s)
}
