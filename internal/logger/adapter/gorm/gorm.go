// Package gorm routes gorm's query log through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
)

// DefaultSlowThreshold is used when the config holds no valid duration.
const DefaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface.
type Logger struct {
	zl            *zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	trace         bool
}

var _ gormlogger.Interface = (*Logger)(nil)

// New returns a logger writing to zl, or to the global logger when zl is nil.
func New(zl *zerolog.Logger, cfg logger.SQL) *Logger {
	slow, err := time.ParseDuration(cfg.SlowThreshold)
	if err != nil || slow <= 0 {
		slow = DefaultSlowThreshold
	}

	return &Logger{
		zl:            zl,
		level:         gormlogger.Warn,
		slowThreshold: slow,
		trace:         cfg.Trace,
	}
}

func (l *Logger) logger() *zerolog.Logger {
	if l.zl != nil {
		return l.zl
	}

	return &log.Logger
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level

	return &out
}

// Info implements logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements logger.Interface. Failed statements are errors, except
// record not found which is an expected outcome. Slow statements are
// warnings. Everything else is only logged at trace level with SQL.Trace.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		event = l.logger().Error().Err(err)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = l.logger().Warn().Dur("threshold", l.slowThreshold)
	case l.trace && l.level >= gormlogger.Info:
		event = l.logger().Trace()
	default:
		return
	}

	sql, rows := fc()

	event.
		Str("component", "gorm").
		Str("sql", sql).
		Int64("rows", rows).
		Dur("elapsed", elapsed).
		Msg("query")
}
