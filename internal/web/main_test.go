package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage/local"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/handlertest"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/health"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
)

const allowedOrigin = "http://localhost:5174"

func newService(t *testing.T) (*Service, *handler.Deps) {
	t.Helper()

	db := handlertest.NewDB(t)

	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Webserver: config.Webserver{
			CORSOrigins:         []string{allowedOrigin},
			CookieEncryptionKey: config.DeriveCookieKey("test secret"),
		},
		Storage: config.Storage{Backend: "local", Dir: store.Root()},
	}

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Sessions: session.New(nil, session.Config{}),
		Storage:  store,
		Settings: sitesettings.New(db),
		Auth:     auth.NewLocalProvider(db),
		Validate: validate.New(),
	}

	s, err := New(cfg, deps)
	require.NoError(t, err)

	return s, deps
}

func send(t *testing.T, s *Service, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(nil, &handler.Deps{})
	require.ErrorIs(t, err, config.ErrConfigIsNil)

	_, err = New(&config.Config{}, &handler.Deps{})
	require.ErrorIs(t, err, handler.ErrNilDeps)
}

func TestHealthAndShutdown(t *testing.T) {
	s, _ := newService(t)

	resp, body := send(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"ok":true`)

	s.alive.Store(false)

	resp, _ = send(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestNotFoundEnvelope(t *testing.T) {
	s, _ := newService(t)

	resp, body := send(t, s, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"ok":false,"error":{"message":"Not Found"}}`, body)
}

func TestCORS(t *testing.T) {
	s, _ := newService(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")

	resp, body := send(t, s, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"ok":false,"error":{"message":"Not allowed by CORS"}}`, body)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", allowedOrigin)

	resp, _ = send(t, s, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, allowedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp, _ = send(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "requests without origin pass")
}

func TestMetrics(t *testing.T) {
	s, _ := newService(t)

	send(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	resp, body := send(t, s, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
}

func TestStaticFiles(t *testing.T) {
	s, deps := newService(t)

	require.NoError(t, deps.Storage.Put(context.Background(), "uploads/2024/05/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	resp, body := send(t, s, httptest.NewRequest(http.MethodGet, "/static/uploads/2024/05/a.txt", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body)
}

func TestLoginWithEncryptedCookie(t *testing.T) {
	s, deps := newService(t)

	_, err := deps.Auth.CreateUser(context.Background(), "admin", "secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := send(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var cookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == session.DefaultCookieName {
			cookie = c
		}
	}

	require.NotNil(t, cookie)

	raw, err := deps.Sessions.Storage().Get(cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, raw, "the cookie carries the encrypted session ID")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)

	resp, body = send(t, s, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"username":"admin"`)
}

func TestServicesAreNotShared(t *testing.T) {
	first := Services(&health.Service{})
	second := Services(&health.Service{})
	require.Len(t, second, len(first))

	for i := range first {
		assert.NotSame(t, first[i], second[i], "every app gets its own %T", first[i])
	}
}
