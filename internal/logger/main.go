// Package logger configures the global zerolog logger of the service.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes an event to one writer per level group.
// See WriteLevel for the grouping.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes p to the writer of level l. Debug and info share one
// writer, error and above share another.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	if l == zerolog.Disabled {
		return 0, nil
	}

	switch {
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces log.Logger according to cfg. With neither the console nor
// the file logger enabled nothing is written.
func Init(cfg Log) error {
	var (
		logLevel, err = zerolog.ParseLevel(cfg.LogLevel)
		writers       []io.Writer
		stack         bool
	)

	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler

	ph := NewPrometheusHook(cfg.ServiceName)

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingLevelFile(cfg); w != nil {
			writers = append(writers, w)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(ph).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack().Caller()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	case stack:
		ctx = ctx.Stack()
	}

	log.Logger = ctx.Logger()

	return nil
}

// NewRollingFile returns a lumberjack writer for name below cfg.File.Path.
func NewRollingFile(cfg Log, name string, maxSize, maxAge, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(cfg.File.Path, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}
}

func newRollingLevelFile(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	f := cfg.File

	return &LevelWriter{
		ErrorWriter: NewRollingFile(cfg, f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		InfoWriter:  NewRollingFile(cfg, f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		TraceWriter: NewRollingFile(cfg, f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
		WarnWriter:  NewRollingFile(cfg, f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
	}
}

func consoleWriter(out io.Writer, pretty bool) io.Writer {
	if !pretty {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
}

// NewConsoleWriter writes info and debug to stdout, everything else to
// stderr. Console.UseConsoleWriter switches from JSON to human readable lines.
func NewConsoleWriter(cfg Log) io.Writer {
	pretty := cfg.Console.UseConsoleWriter

	return &LevelWriter{
		ErrorWriter: consoleWriter(os.Stderr, pretty),
		InfoWriter:  consoleWriter(os.Stdout, pretty),
		TraceWriter: consoleWriter(os.Stderr, pretty),
		WarnWriter:  consoleWriter(os.Stderr, pretty),
	}
}
