// Package local stores asset files on the local filesystem.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/storage"
)

// StaticPrefix is the URL prefix the root directory is served under.
const StaticPrefix = "/static"

// Backend keeps files below a root directory.
type Backend struct {
	root string
}

// New returns a Backend rooted at root, creating the directory if needed.
func New(root string) (*Backend, error) {
	if root == "" {
		return nil, errors.New("local storage requires a root directory")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve storage root")
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.Wrap(err, "create storage root")
	}

	return &Backend{root: abs}, nil
}

// Type implements storage.Backend.
func (b *Backend) Type() string { return "local" }

// Root returns the absolute root directory.
func (b *Backend) Root() string { return b.root }

// Path resolves rel to an absolute path confined to the root.
func (b *Backend) Path(rel string) (string, error) {
	cleaned, err := storage.CleanRelative(rel)
	if err != nil {
		return "", err
	}

	full := filepath.Join(b.root, filepath.FromSlash(cleaned))

	inside, err := filepath.Rel(b.root, full)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) || filepath.IsAbs(inside) {
		return "", storage.ErrUnsafePath
	}

	return full, nil
}

// Put implements storage.Backend.
func (b *Backend) Put(_ context.Context, rel string, r io.Reader, _ int64, _ string) error {
	full, err := b.Path(rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return errors.Wrap(err, "create upload directory")
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return errors.Wrap(err, "create upload file")
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)

		return errors.Wrap(err, "write upload file")
	}

	return errors.Wrap(f.Close(), "close upload file")
}

// Delete implements storage.Backend.
func (b *Backend) Delete(_ context.Context, rel string) error {
	full, err := b.Path(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove upload file")
	}

	return nil
}

// URL implements storage.Backend.
func (b *Backend) URL(origin, rel string) string {
	return strings.TrimRight(origin, "/") + StaticPrefix + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}
