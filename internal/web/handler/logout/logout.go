// Package logout ends the admin session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
)

// Path is the path of the logout route.
const Path = handler.AdminPath + "/logout"

// Service is the logout handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the logout route.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Post(Path, mwauth.RequireAdmin(deps.Sessions), s.Logout)

	return nil
}

// Logout destroys the session and expires its cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.deps.Sessions.Destroy(c); err != nil {
		return err
	}

	if data, ok := mwauth.Current(c); ok {
		log.Info().Uint64("admin_id", data.AdminID).Msg("admin signed out")
	}

	return handler.Done(c)
}
