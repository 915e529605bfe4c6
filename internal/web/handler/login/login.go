// Package login signs admins in and hands out the session cookie.
package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
)

const (
	// Path is the path of the login route.
	Path = handler.AdminPath + "/login"
)

// Request is the login body.
type Request struct {
	Username jsonutil.Value `json:"username" validate:"required,text,notblank"`
	Password jsonutil.Value `json:"password" validate:"required,text"`
}

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the login route. It is not guarded by the admin session.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	if deps.Auth == nil {
		return ErrAuthNotConfigured
	}

	s.deps = deps

	router.Post(Path, s.Post)

	return nil
}

// Post checks the credentials and replaces the session of the request with
// an authenticated one.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := handler.BindJSON(c, &req); err != nil {
		return err
	}

	if err := s.deps.Validate.Body(req); err != nil {
		return err
	}

	username, _ := req.Username.Str()
	password, _ := req.Password.Str()
	username = strings.TrimSpace(username)

	user, err := s.authenticate(c, username, password)
	if err != nil {
		return err
	}

	if err := s.deps.Sessions.Login(c, session.Data{AdminID: user.ID, Username: user.Username}); err != nil {
		return err
	}

	log.Info().Uint64("admin_id", user.ID).Str("username", user.Username).Msg("admin signed in")

	return handler.OK(c, user)
}

func (s *Service) authenticate(c *fiber.Ctx, username, password string) (*models.AdminUser, error) {
	user, err := s.deps.Auth.Authenticate(c.UserContext(), username, password)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrUserAccountDisabled):
		log.Debug().Err(err).Str("username", username).Msg("login rejected")

		return nil, apperr.Unauthorized().WithCause(ErrInvalidCredentials)
	default:
		return nil, err
	}
}
