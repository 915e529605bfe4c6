package daemon

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/dsn"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage/local"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage/s3"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session/redisstore"
)

// Session and asset storage backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendSQL    = "sql"
	SessionBackendRedis  = "redis"
	AssetBackendS3       = "s3"
)

// ErrSQLSessionEngine is returned for the sql session backend on sqlite.
var ErrSQLSessionEngine = errors.New("the sql session backend needs the mysql or postgres engine")

// SessionStorage returns the fiber storage of the configured session
// backend. The memory backend returns nil, which keeps sessions in process.
func SessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Session.Backend {
	case SessionBackendSQL:
		conn, err := dsn.Create(cfg)
		if err != nil {
			return nil, err
		}

		switch cfg.DB.GormEngine {
		case config.EngineMySQL:
			return sessionmysql.New(sessionmysql.Config{
				ConnectionURI: conn,
				Table:         cfg.Session.Table,
			}), nil
		case config.EnginePostgres:
			return sessionpostgres.New(sessionpostgres.Config{
				ConnectionURI: conn,
				Table:         cfg.Session.Table,
			}), nil
		default:
			return nil, ErrSQLSessionEngine
		}
	case SessionBackendRedis:
		store, err := redisstore.New(redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}

		return store, nil
	default:
		return nil, nil
	}
}

// AssetStorage returns the configured upload backend.
func AssetStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	if cfg.Storage.Backend == AssetBackendS3 {
		opts := cfg.Storage.S3

		b, err := s3.New(ctx, s3.Options{
			Bucket:         opts.Bucket,
			Region:         opts.Region,
			Endpoint:       opts.Endpoint,
			AccessKey:      opts.AccessKey,
			SecretKey:      opts.SecretKey,
			Prefix:         opts.Prefix,
			ForcePathStyle: opts.ForcePathStyle,
			PublicBaseURL:  opts.PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}

		return b, nil
	}

	b, err := local.New(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	return b, nil
}
