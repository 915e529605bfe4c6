// Package web assembles the fiber app: middleware, static assets, metrics
// and the API handler services.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	fiberlogger "github.com/Zsh123456-BOOP/jnu-web/internal/logger/adapter/fiber"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage/local"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/asset"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/content"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/member"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/module"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/settings"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/dashboard"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/health"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/login"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/logout"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/me"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/public"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
)

// MetricsPath exposes the prometheus registry below the API prefix.
const MetricsPath = "/metrics"

// AppName is reported in the Server header.
const AppName = "jnu-web"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start listens on addr until the app is shut down.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		doneFiber <- err
	}()

	return <-doneFiber
}

// Alive reports whether /api/health answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetFastShutdown skips the drain period of WaitShutdown.
func (s *Service) SetFastShutdown(fast bool) {
	s.fastShutDown = fast
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the app. Unless
// fast shutdown is set, /api/health answers 503 for ShutDownTime seconds
// first so load balancers drain the instance.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Services returns the API handler services in registration order. probe
// serves /api/health and /api/session.
func Services(probe *health.Service) []handler.Service {
	return []handler.Service{
		probe,
		&login.Service{},
		&logout.Service{},
		&me.Service{},
		&dashboard.Service{},
		&module.Service{},
		&content.Service{},
		&member.Service{},
		&asset.Service{},
		&settings.Service{},
		&public.Service{},
	}
}

// New creates the web service. deps must carry every dependency.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		return nil, config.ErrConfigIsNil
	}

	if err := deps.Check(); err != nil {
		return nil, err
	}

	bodyLimit := cfg.Webserver.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = config.DefaultBodyLimit
	}

	fiberCfg := fiber.Config{
		AppName:       AppName,
		ErrorHandler:  handler.ErrorHandler,
		BodyLimit:     bodyLimit,
		CaseSensitive: true,
		Immutable:     true,
	}

	if cfg.Webserver.TrustProxy {
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(fiberCfg)

	service := &Service{
		App: app,
		cfg: cfg,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config: cfg.Log,
		Principal: func(c *fiber.Ctx) string {
			if d, ok := mwauth.Current(c); ok {
				return d.Username
			}

			return ""
		},
	}))

	app.Use(requestMetrics())
	app.Use(CORS(cfg.Webserver.CORSOrigins)...)

	if key := cfg.Webserver.CookieEncryptionKey; key != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))
	}

	if backend, ok := deps.Storage.(*local.Backend); ok {
		app.Use(local.StaticPrefix, filesystem.New(filesystem.Config{
			Root:   http.Dir(backend.Root()),
			Browse: cfg.DevMode,
			MaxAge: int((24 * time.Hour).Seconds()),
		}))
	}

	api := app.Group(handler.APIPath)
	api.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	for _, s := range Services(&health.Service{Alive: service.Alive}) {
		if err := s.Init(api, deps); err != nil {
			return nil, err
		}
	}

	app.Use(handler.NotFoundHandler)

	return service, nil
}
