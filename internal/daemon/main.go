// Package daemon wires the configuration into a running web service: the
// database, the session and asset storage backends and the handler
// dependencies.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/sitesettings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/session"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/validate"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves HTTP on the configured port until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("engine", d.cfg.DB.GormEngine).Msg("starting web service")

	return d.webService.Start(addr)
}

// SetFastShutdown skips the health drain period on shutdown.
func (d *Daemon) SetFastShutdown(fast bool) {
	d.webService.SetFastShutdown(fast)
}

// DB returns the opened database.
func (d *Daemon) DB() *gorm.DB {
	return d.db
}

// New opens the database, seeds it and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrConfigIsNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if _, err = Seed(ctx, cfg, db); err != nil {
		return nil, err
	}

	deps, err := Deps(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	svc, err := web.New(cfg, deps)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{cfg: cfg, db: db, webService: svc}, nil
}

// Deps builds the handler dependencies on top of db.
func Deps(ctx context.Context, cfg *config.Config, db *gorm.DB) (*handler.Deps, error) {
	sessionStorage, err := SessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	assets, err := AssetStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cookie := cfg.Webserver.Session

	return &handler.Deps{
		Cfg: cfg,
		DB:  db,
		Sessions: session.New(sessionStorage, session.Config{
			CookieName: cookie.CookieName,
			Expiry:     cookie.ExpiryTime,
			Secure:     cookie.Secure && !cfg.DevMode,
			SameSite:   cookie.SameSite,
		}),
		Storage:  assets,
		Settings: sitesettings.New(db),
		Auth:     auth.NewLocalProvider(db),
		Validate: validate.New(),
	}, nil
}
