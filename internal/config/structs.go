package config

import (
	"time"

	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
)

// SessionCookie holds the admin session cookie settings.
type SessionCookie struct {
	CookieName string
	ExpiryTime time.Duration
	Secure     bool   // ignored in dev mode
	SameSite   string // Lax, Strict or None
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Session   SessionStore
	Redis     Redis
	Admin     Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover      bool     // disable recover middleware
	Port                int      // listening port for the webserver
	ShutDownTime        int      // seconds to answer 503 on /api/health before stopping
	URL                 string   // public base url of the API
	CORSOrigins         []string // allowed browser origins for credentialed requests
	TrustProxy          bool     // honour X-Forwarded-* headers
	BodyLimit           int      // maximum request body in bytes
	CookieEncryptionKey string   // base64 32 byte key, empty disables cookie encryption
	Session             SessionCookie
}

// Storage selects where uploaded assets are written.
type Storage struct {
	Backend       string // local or s3
	Dir           string // root of the local backend
	MaxUploadSize int64  // bytes
	S3            S3
}

// S3 configures the s3 storage backend.
type S3 struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Prefix         string
	ForcePathStyle bool
	PublicBaseURL  string
}

// SessionStore selects where session data is kept.
type SessionStore struct {
	Backend string // memory, sql or redis
	Table   string // table name of the sql backend
}

// Redis holds the connection settings of the redis session backend.
type Redis struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// Admin is the account created by the seed command.
type Admin struct {
	Username string
	Password string // generated when empty
}
