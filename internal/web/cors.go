package web

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
)

// CORSRejectedMessage is returned for requests from a foreign origin.
const CORSRejectedMessage = "Not allowed by CORS"

// CORS returns the origin guard followed by the fiber cors middleware.
// Requests without an Origin header pass; a foreign origin is answered with
// 403 before any handler runs. Credentials are allowed for listed origins.
func CORS(origins []string) []any {
	allowed := slices.Clone(origins)

	guard := func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || slices.Contains(allowed, origin) {
			return c.Next()
		}

		return apperr.Forbidden(CORSRejectedMessage)
	}

	handlers := []any{fiber.Handler(guard)}

	if len(allowed) > 0 {
		handlers = append(handlers, cors.New(cors.Config{
			AllowOrigins:     strings.Join(allowed, ","),
			AllowCredentials: true,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		}))
	}

	return handlers
}
