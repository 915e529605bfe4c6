package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/dsn"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	gormlogger "github.com/Zsh123456-BOOP/jnu-web/internal/logger/adapter/gorm"
)

// OpenDB connects to the configured engine and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	conn, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = postgres.Open(conn)
	case config.EngineSQLite:
		dialector = sqlite.Open(conn)
	default:
		dialector = gormmysql.Open(conn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.New(&log.Logger, cfg.Log.SQL),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
