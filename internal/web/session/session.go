// Package session keeps the admin login state in a fiber session store.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
)

const (
	// DefaultCookieName is used when Config.CookieName is empty.
	DefaultCookieName = "jnu.sid"
	// DefaultExpiry is used when Config.Expiry is zero.
	DefaultExpiry = 24 * time.Hour

	keyAdminID  = "adminId"
	keyUsername = "username"
	keyPing     = "ping"
)

// Config configures the session cookie.
type Config struct {
	CookieName string
	Expiry     time.Duration
	Secure     bool
	SameSite   string
}

// Data is what a logged in session carries.
type Data struct {
	AdminID  uint64 `json:"adminId"`
	Username string `json:"username"`
}

// Authenticated reports whether d belongs to a logged in admin.
func (d Data) Authenticated() bool {
	return d.AdminID > 0
}

// Store wraps a fiber session store.
type Store struct {
	store *session.Store
	cfg   Config
}

// New creates a Store on top of storage. A nil storage keeps sessions in
// process memory.
func New(storage fiber.Storage, cfg Config) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultExpiry
	}

	if cfg.SameSite == "" {
		cfg.SameSite = fiber.CookieSameSiteLaxMode
	}

	return &Store{
		cfg: cfg,
		store: session.New(session.Config{
			Storage:        storage,
			Expiration:     cfg.Expiry,
			KeyLookup:      "cookie:" + cfg.CookieName,
			CookiePath:     "/",
			CookieSecure:   cfg.Secure,
			CookieHTTPOnly: true,
			CookieSameSite: cfg.SameSite,
		}),
	}
}

// Config returns the effective cookie configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Storage returns the backing storage.
func (s *Store) Storage() fiber.Storage {
	return s.store.Storage
}

// ID returns the session ID of the request. Requests without a session get
// a fresh ID that is not persisted.
func (s *Store) ID(c *fiber.Ctx) (string, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return "", errors.Wrap(err, "get session")
	}

	return sess.ID(), nil
}

// Ping stamps the session of the request with the current time and saves
// it, so anonymous visitors keep a stable ID. It returns the session ID.
func (s *Store) Ping(c *fiber.Ctx) (string, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return "", errors.Wrap(err, "get session")
	}

	sess.Set(keyPing, time.Now().UnixMilli())

	id := sess.ID()

	return id, errors.Wrap(sess.Save(), "save session")
}

// Read returns the session data of the request, zero when anonymous.
func (s *Store) Read(c *fiber.Ctx) (Data, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return Data{}, errors.Wrap(err, "get session")
	}

	var d Data

	if id, ok := sess.Get(keyAdminID).(uint64); ok {
		d.AdminID = id
	}

	if name, ok := sess.Get(keyUsername).(string); ok {
		d.Username = name
	}

	return d, nil
}

// Login replaces the session of the request with a new one holding d.
// The old session ID is discarded.
func (s *Store) Login(c *fiber.Ctx, d Data) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "get session")
	}

	if err := sess.Regenerate(); err != nil {
		return errors.Wrap(err, "regenerate session")
	}

	sess.Set(keyAdminID, d.AdminID)
	sess.Set(keyUsername, d.Username)

	return errors.Wrap(sess.Save(), "save session")
}

// Destroy removes the session of the request and expires its cookie.
func (s *Store) Destroy(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "get session")
	}

	return errors.Wrap(sess.Destroy(), "destroy session")
}
