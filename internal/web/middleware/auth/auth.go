package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
)

// LocalsKey is the fiber.Locals key holding the session data.
const LocalsKey = "admin"

// RequireAdmin lets the request through only when its session belongs to
// an admin.
func RequireAdmin(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := store.Read(c)
		if err != nil {
			log.Error().Err(err).Msg("failed to read session")
			return apperr.Unauthorized().WithCause(err)
		}

		if !data.Authenticated() {
			return apperr.Unauthorized()
		}

		c.Locals(LocalsKey, data)

		return c.Next()
	}
}

// Current returns the session data stored by RequireAdmin.
func Current(c *fiber.Ctx) (session.Data, bool) {
	data, ok := c.Locals(LocalsKey).(session.Data)
	return data, ok && data.Authenticated()
}
