// Package storage defines where uploaded asset files live and how their
// relative paths are built.
package storage

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// UploadDir is the first segment of every stored relative path.
const UploadDir = "uploads"

// ErrUnsafePath is returned for relative paths that leave the storage root.
var ErrUnsafePath = errors.New("path escapes storage root")

// Backend stores asset files addressed by a slash separated relative path.
type Backend interface {
	// Type names the backend, "local" or "s3".
	Type() string
	// Put stores the content of r under rel.
	Put(ctx context.Context, rel string, r io.Reader, size int64, contentType string) error
	// Delete removes rel. A missing file is not an error.
	Delete(ctx context.Context, rel string) error
	// URL returns the public URL of rel. origin is the scheme and host the
	// request came in on, e.g. "https://lab.example.com".
	URL(origin, rel string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// mojibakeHints are characters that show up when UTF-8 bytes were decoded
// as Latin-1.
const mojibakeHints = "ÃÂåäæçéèêëíìîïñóòôöõúùûüýÿ"

// SafeName reduces a client supplied file name to [a-zA-Z0-9._-].
func SafeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	cleaned := unsafeChars.ReplaceAllString(base, "_")
	if cleaned == "" {
		return "file"
	}

	return cleaned
}

// FixMojibake reverses a Latin-1 misdecoding of a UTF-8 file name. Names
// that do not look misdecoded, or do not decode cleanly, are returned as is.
func FixMojibake(name string) string {
	if !strings.ContainsAny(name, mojibakeHints) {
		return name
	}

	raw := make([]byte, 0, len(name))

	for _, r := range name {
		if r > 0xFF {
			return name
		}

		raw = append(raw, byte(r))
	}

	if !utf8.Valid(raw) || len(raw) == 0 {
		return name
	}

	return string(raw)
}

// UploadPath returns uploads/YYYY/MM/<uuid>_<safe name> for a file
// received at now.
func UploadPath(now time.Time, originalName string) string {
	return path.Join(
		UploadDir,
		now.Format("2006"),
		now.Format("01"),
		uuid.NewString()+"_"+SafeName(originalName),
	)
}

// CleanRelative normalizes rel to a slash separated path inside the root.
func CleanRelative(rel string) (string, error) {
	rel = strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/"))
	if rel == "" {
		return "", ErrUnsafePath
	}

	if strings.HasPrefix(rel, "/") {
		return "", ErrUnsafePath
	}

	cleaned := path.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrUnsafePath
	}

	return cleaned, nil
}
