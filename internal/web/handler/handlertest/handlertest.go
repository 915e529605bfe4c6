// Package handlertest builds a fiber app around one or more handler
// services for tests: an in-memory SQLite database, an in-memory session
// store and a temporary local asset storage.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage/local"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
)

// LoginPath signs the request in as the admin with ID 1.
const LoginPath = "/test/login"

// Env is a running test app.
type Env struct {
	App     *fiber.App
	DB      *gorm.DB
	Deps    *handler.Deps
	Storage *local.Backend
}

// Response is a decoded API response.
type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Raw     []byte
	Body    map[string]any
}

// Data returns the data member of the envelope.
func (r Response) Data() any {
	return r.Body["data"]
}

// Object returns the data member as an object.
func (r Response) Object(t *testing.T) map[string]any {
	t.Helper()

	data, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %s", r.Raw)

	return data
}

// Items returns data.items of a paginated listing.
func (r Response) Items(t *testing.T) []any {
	t.Helper()

	items, ok := r.Object(t)["items"].([]any)
	require.True(t, ok, "data.items is not an array: %s", r.Raw)

	return items
}

// ErrorMessage returns error.message of a failed response.
func (r Response) ErrorMessage() string {
	e, _ := r.Body["error"].(map[string]any)
	msg, _ := e["message"].(string)

	return msg
}

// NewDB opens a migrated in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// New builds the app and initializes services under /api.
func New(t *testing.T, services ...handler.Service) *Env {
	t.Helper()

	db := NewDB(t)

	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Storage: config.Storage{Backend: "local", Dir: store.Root(), MaxUploadSize: config.DefaultMaxUploadSize},
	}

	sessions := session.New(nil, session.Config{})

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Sessions: sessions,
		Storage:  store,
		Settings: sitesettings.New(db),
		Auth:     auth.NewLocalProvider(db),
		Validate: validate.New(),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    config.DefaultBodyLimit,
	})

	app.Post(LoginPath, func(c *fiber.Ctx) error {
		if err := sessions.Login(c, session.Data{AdminID: 1, Username: "admin"}); err != nil {
			return err
		}

		return handler.Done(c)
	})

	api := app.Group(handler.APIPath)
	for _, s := range services {
		require.NoError(t, s.Init(api, deps))
	}

	app.Use(handler.NotFoundHandler)

	return &Env{App: app, DB: db, Deps: deps, Storage: store}
}

// Login returns a session cookie of an authenticated admin.
func (e *Env) Login(t *testing.T) *http.Cookie {
	t.Helper()

	resp := e.Do(t, http.MethodPost, LoginPath, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	return SessionCookie(t, resp)
}

// SessionCookie returns the session cookie set by resp.
func SessionCookie(t *testing.T, resp Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies {
		if c.Name == session.DefaultCookieName && c.Value != "" {
			return c
		}
	}

	require.Fail(t, "no session cookie in response")

	return nil
}

// Do sends a JSON request. body may be nil, a string (sent as is) or any
// value encoded as JSON.
func (e *Env) Do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) Response {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	return e.Send(t, req, cookies...)
}

// Upload sends a multipart form with one file field.
func (e *Env) Upload(t *testing.T, target, field, filename string, content []byte, cookies ...*http.Cookie) Response {
	t.Helper()

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	return e.Send(t, req, cookies...)
}

// Send runs req through the app and decodes the JSON envelope.
func (e *Env) Send(t *testing.T, req *http.Request, cookies ...*http.Cookie) Response {
	t.Helper()

	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Cookies: resp.Cookies(),
		Raw:     raw,
	}

	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "invalid JSON: %s", raw)
	}

	return out
}
