// Package config handles input from etc/*.toml files, the JSON override in
// JNU_WEB_CONFIG_JSON and the classic environment variables.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// JSONEnv holds a JSON document merged over the TOML configuration.
const JSONEnv = "JNU_WEB_CONFIG_JSON"

// Defaults applied after all sources were read.
const (
	DefaultShutDownTime  = 5
	DefaultBodyLimit     = 25 * 1024 * 1024
	DefaultMaxUploadSize = 20 * 1024 * 1024
	DefaultSessionExpiry = 24 * time.Hour
	DefaultStorageDir    = "storage"
	DefaultSessionTable  = "sessions"
	DefaultAdminUsername = "admin"
)

// DefaultCORSOrigins are the dev servers of the public site and the admin UI.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:5174"}

// DotEnvFiles are tried in order, the first existing one is loaded.
var DotEnvFiles = []string{".env", "server/.env"} //nolint:gochecknoglobals

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	JSONConfigEnv = os.Getenv(JSONEnv)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	LoadDotEnv()
	ApplyEnv(&c, os.Getenv)
	applyDefaults(&c)

	return c, validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read "+JSONEnv)
	}

	return c, nil
}

// LoadDotEnv loads the first file of DotEnvFiles that exists. Variables
// already present in the environment win.
func LoadDotEnv() {
	for _, f := range DotEnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("failed to load env file")
		}

		return
	}
}

// ApplyEnv overrides c with the classic deployment variables.
func ApplyEnv(c *Config, getenv func(string) string) {
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setInt(&c.Webserver.Port, "PORT")

	if host := getenv("MYSQL_HOST"); host != "" {
		c.DB.GormEngine = EngineMySQL
		c.DB.Host = host
	}

	setInt(&c.DB.Port, "MYSQL_PORT")
	setString(&c.DB.User, "MYSQL_USER")
	setString(&c.DB.Password, "MYSQL_PASSWORD")
	setString(&c.DB.Name, "MYSQL_DATABASE")
	setString(&c.Webserver.Session.CookieName, "SESSION_NAME")
	setString(&c.Storage.Dir, "STORAGE_DIR")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")

	if secret := getenv("SESSION_SECRET"); secret != "" && c.Webserver.CookieEncryptionKey == "" {
		c.Webserver.CookieEncryptionKey = DeriveCookieKey(secret)
	}

	origins := getenv("CORS_ORIGINS")
	if origins == "" {
		origins = getenv("CORS_ORIGIN")
	}

	if origins != "" {
		c.Webserver.CORSOrigins = SplitList(origins)
	}

	if getenv("NODE_ENV") == "production" {
		c.Webserver.Session.Secure = true
	}
}

// DeriveCookieKey turns an arbitrary secret into a key accepted by the
// cookie encryption middleware.
func DeriveCookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return base64.StdEncoding.EncodeToString(sum[:])
}

// SplitList splits a comma separated list and drops empty entries.
func SplitList(raw string) []string {
	out := make([]string, 0)

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func applyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = DefaultShutDownTime
	}

	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = DefaultBodyLimit
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}

	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}

	if c.Storage.MaxUploadSize == 0 {
		c.Storage.MaxUploadSize = DefaultMaxUploadSize
	}

	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}

	if c.Session.Table == "" {
		c.Session.Table = DefaultSessionTable
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	if c.Admin.Username == "" {
		c.Admin.Username = DefaultAdminUsername
	}

	if len(c.Webserver.CORSOrigins) == 0 {
		c.Webserver.CORSOrigins = slices.Clone(DefaultCORSOrigins)
	}
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// Redacted returns a copy of c without passwords and keys, for dumping.
func Redacted(c Config) Config {
	const mask = "******"

	for _, s := range []*string{
		&c.DB.Password,
		&c.Redis.Password,
		&c.Storage.S3.SecretKey,
		&c.Webserver.CookieEncryptionKey,
		&c.Admin.Password,
	} {
		if *s != "" {
			*s = mask
		}
	}

	return c
}

func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.Session.CookieName == "" {
		return errors.Wrap(ErrEmptySessionCookieName, invalidErrMessage)
	}

	if !slices.Contains([]string{EngineMySQL, EnginePostgres, EngineSQLite}, c.DB.GormEngine) {
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if !slices.Contains([]string{"local", "s3"}, c.Storage.Backend) {
		return errors.Wrap(ErrUnknownStorageBackend, invalidErrMessage)
	}

	if !slices.Contains([]string{"memory", "sql", "redis"}, c.Session.Backend) {
		return errors.Wrap(ErrUnknownSessionBackend, invalidErrMessage)
	}

	return nil
}
