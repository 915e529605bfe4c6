// Package health provides the liveness and session probe endpoints.
package health

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
)

const (
	// Path answers load balancer health checks.
	Path = "/health"

	// SessionPath returns the session ID of the caller.
	SessionPath = "/session"

	// ShuttingDownMessage is returned while the server drains.
	ShuttingDownMessage = "Shutting down"
)

// Service serves the probes.
type Service struct {
	deps *handler.Deps

	// Alive reports whether the server accepts traffic. A nil Alive is
	// always alive.
	Alive func() bool
}

var _ handler.Service = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, s.Health)
	router.Get(SessionPath, s.Session)

	return nil
}

// Health returns {ok, time}, or 503 during a graceful shutdown.
func (s *Service) Health(c *fiber.Ctx) error {
	if s.Alive != nil && !s.Alive() {
		return handler.Fail(c, fiber.StatusServiceUnavailable, ShuttingDownMessage, nil)
	}

	return c.JSON(fiber.Map{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Session starts or refreshes the caller's session and returns its ID.
func (s *Service) Session(c *fiber.Ctx) error {
	id, err := s.deps.Sessions.Ping(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "sessionId": id})
}
