// Package me returns the admin account behind the current session.
package me

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
)

// Path is the path of the route.
const Path = handler.AdminPath + "/me"

// Service is the me handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the route.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil || deps.Auth == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, mwauth.RequireAdmin(deps.Sessions), s.Get)

	return nil
}

// Get returns the signed in account. A session whose account was deleted
// or disabled in the meantime is destroyed.
func (s *Service) Get(c *fiber.Ctx) error {
	data, ok := mwauth.Current(c)
	if !ok {
		return apperr.Unauthorized()
	}

	user, err := s.deps.Auth.GetUserByID(c.UserContext(), data.AdminID)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	if user == nil || !user.Active() {
		if err := s.deps.Sessions.Destroy(c); err != nil {
			log.Error().Err(err).Msg("failed to destroy stale session")
		}

		return apperr.Unauthorized()
	}

	return handler.OK(c, user)
}
