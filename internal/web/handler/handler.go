// Package handler holds what every API handler package shares: the
// dependency bundle handed to Init, the response envelope and request
// helpers.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
)

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// AdminPath is the prefix of the admin routes, relative to APIPath.
	AdminPath = "/admin"

	// ErrNilDepsFatalLogMsg is used if router or deps is nil.
	ErrNilDepsFatalLogMsg = "router or deps is nil"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// Deps is what handlers need to serve requests.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Sessions *session.Store
	Storage  storage.Backend
	Settings *sitesettings.Service
	Auth     *auth.LocalProvider
	Validate *validate.XValidator
}

// Check reports ErrNilDeps unless the database and session store are set.
func (d *Deps) Check() error {
	if d == nil || d.DB == nil || d.Sessions == nil || d.Validate == nil {
		return ErrNilDeps
	}

	return nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
