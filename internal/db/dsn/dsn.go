// Package dsn builds the connection strings of the supported database
// engines from the configuration.
package dsn

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
)

// DefaultSQLitePath is used when DB.Path is empty.
const DefaultSQLitePath = "jnu-web.db"

// Default ports of the network engines.
const (
	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432
)

// ErrUnknownEngine is returned for an unsupported DB.GormEngine.
var ErrUnknownEngine = errors.New("unknown database engine")

// Create builds the DSN of the configured engine.
func Create(cfg *config.Config) (string, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		return MySQL(cfg.DB)
	case config.EnginePostgres:
		return Postgres(cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB), nil
	default:
		return "", errors.Wrap(ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// MySQL returns a go-sql-driver DSN. Times are parsed into time.Time in
// UTC and the connection uses utf8mb4. DB.Extras is a query string whose
// parameters override the defaults, e.g. "loc=Asia%2FShanghai".
func MySQL(db config.DB) (string, error) {
	port := db.Port
	if port == 0 {
		port = DefaultMySQLPort
	}

	c := mysql.NewConfig()
	c.User = db.User
	c.Passwd = db.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(db.Host, strconv.Itoa(port))
	c.DBName = db.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}

	if db.Extras == "" {
		return c.FormatDSN(), nil
	}

	extras, err := url.ParseQuery(db.Extras)
	if err != nil {
		return "", errors.Wrap(err, "parse db extras")
	}

	// Driver keys such as loc or parseTime are only understood by ParseDSN.
	merged, err := mysql.ParseDSN(c.FormatDSN() + "&" + extras.Encode())
	if err != nil {
		return "", errors.Wrap(err, "parse mysql dsn")
	}

	return merged.FormatDSN(), nil
}

// Postgres returns a postgres:// URL. DB.Extras is appended as the query,
// sslmode defaults to disable.
func Postgres(db config.DB) (string, error) {
	port := db.Port
	if port == 0 {
		port = DefaultPostgresPort
	}

	query, err := url.ParseQuery(db.Extras)
	if err != nil {
		return "", errors.Wrap(err, "parse db extras")
	}

	if !query.Has("sslmode") {
		query.Set("sslmode", "disable")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(port)),
		Path:     "/" + db.Name,
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// SQLite returns the database file, DefaultSQLitePath when unset.
func SQLite(db config.DB) string {
	if db.Path == "" {
		return DefaultSQLitePath
	}

	return db.Path
}
