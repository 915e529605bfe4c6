// Package fiber provides a zerolog access log middleware for fiber.
package fiber

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set on responses the error handler failed to render.
	CacheControlError string

	// SkipPaths are not logged while Config.DisableCheckAlive is set.
	SkipPaths []string

	// Principal names the caller of a request, e.g. the signed in admin.
	//
	// Optional. Default: nil
	Principal func(c *fiber.Ctx) string

	// Output receives the access log in addition to the configured writers.
	//
	// Optional. Default: nil
	Output io.Writer
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
	SkipPaths:         []string{"/api/health"},
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	if cfg.SkipPaths == nil {
		cfg.SkipPaths = ConfigDefault.SkipPaths
	}

	return cfg
}

func writers(cfg Config) []io.Writer {
	var out []io.Writer

	if cfg.Config.File.Enabled {
		if err := os.MkdirAll(cfg.Config.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.Config.File.Path).Msg("can't create log directory")
		} else {
			f := cfg.Config.File
			out = append(out, logger.NewRollingFile(cfg.Config, f.AccessLog, f.AccessMaxSize, f.AccessMaxAge, f.AccessMaxBackups))
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			out = append(out, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			out = append(out, os.Stdout)
		}
	}

	if cfg.Output != nil {
		out = append(out, cfg.Output)
	}

	return out
}

// New creates a new fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers(cfg)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		start := time.Now()

		if chainErr := ctx.Next(); chainErr != nil {
			if errH := ctx.App().ErrorHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		ctx.Response().Header.Set("X-Performance", fmt.Sprintf("%f", elapsed))

		if cfg.Config.DisableCheckAlive && slices.Contains(cfg.SkipPaths, ctx.Path()) {
			return nil
		}

		// raw request URI, query string included
		uri := string(ctx.Request().RequestURI())

		event := accessLogger.Log().
			Str("IP", ctx.IP()).
			Int("status", ctx.Response().StatusCode()).
			Float64("X-Performance", elapsed).
			Str("URI", uri).
			Str("method", ctx.Method()).
			Bytes("host", ctx.Request().Host()).
			Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderOrigin, ctx.Get(fiber.HeaderOrigin))

		if cfg.Principal != nil {
			if p := cfg.Principal(ctx); p != "" {
				event.Str("principal", p)
			}
		}

		event.Send()

		return nil
	}
}
