package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
)

func newTestApp(store *session.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperr.StatusOf(err))
		},
	})

	app.Post("/login", func(c *fiber.Ctx) error {
		return store.Login(c, session.Data{AdminID: 3, Username: "root"})
	})

	admin := app.Group("/admin", RequireAdmin(store))
	admin.Get("/ping", func(c *fiber.Ctx) error {
		data, ok := Current(c)
		if !ok {
			return errors.New("no admin in locals")
		}

		return c.SendString(data.Username)
	})

	return app
}

func TestRequireAdmin(t *testing.T) {
	store := session.New(nil, session.Config{})
	app := newTestApp(store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "forged"})

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)

	var cookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == session.DefaultCookieName {
			cookie = c
		}
	}

	require.NotNil(t, cookie)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(cookie)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCurrentWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := Current(c)
		return c.SendString(map[bool]string{true: "yes", false: "no"}[ok])
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	buf := make([]byte, 3)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "no", string(buf[:n]))
}
