package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
)

func baseConfig(level string) logger.Log {
	return logger.Log{LogLevel: level, ServiceName: "api", AppName: "jnu-web"}
}

// captureInit runs logger.Init with stdout and stderr redirected, writes a
// few events and returns what reached the console.
func captureInit(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	initErr := logger.Init(cfg)

	log.Info().Msg("module created")
	log.Error().Err(errors.New("upload failed")).Msg("asset upload")
	log.Trace().Msg("session read")

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	require.NoError(t, initErr)

	return <-outC
}

func TestInitRejectsIncompleteConfig(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      logger.Log
		expected error
	}{
		{name: "no service name", cfg: logger.Log{LogLevel: "info", AppName: "jnu-web"}, expected: logger.ErrServiceNameIsEmpty},
		{name: "no app name", cfg: logger.Log{LogLevel: "info", ServiceName: "api"}, expected: logger.ErrAppNameIsEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, logger.Init(tc.cfg), tc.expected)
		})
	}

	assert.Error(t, logger.Init(baseConfig("loud")))
}

func TestConsoleOutput(t *testing.T) {
	t.Run("disabled console writes nothing", func(t *testing.T) {
		assert.Empty(t, captureInit(t, baseConfig("info")))
	})

	t.Run("json lines", func(t *testing.T) {
		cfg := baseConfig("info")
		cfg.Console.Enabled = true

		out := strings.TrimSpace(captureInit(t, cfg))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2, "trace is below the level: %s", out)

		for _, line := range lines {
			var event map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &event), line)
			assert.Equal(t, "jnu-web", event["app"])
		}
	})

	t.Run("console writer at trace", func(t *testing.T) {
		cfg := baseConfig("trace")
		cfg.ReportCaller = true
		cfg.Console = logger.Console{Enabled: true, UseConsoleWriter: true}

		out := captureInit(t, cfg)
		assert.Contains(t, out, "session read")
		assert.Contains(t, out, "upload failed")
	})
}

func TestLevelWriterRoutes(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var info, warn, errs, trace bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs, TraceWriter: &trace}
	zl := zerolog.New(lw).Level(zerolog.TraceLevel)

	zl.Debug().Msg("d")
	zl.Info().Msg("i")
	zl.Warn().Msg("w")
	zl.Error().Msg("e")
	zl.Trace().Msg("t")

	assert.Equal(t, 2, strings.Count(info.String(), "\n"), "debug and info share a writer")
	assert.Contains(t, warn.String(), `"w"`)
	assert.Contains(t, errs.String(), `"e"`)
	assert.Contains(t, trace.String(), `"t"`)

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	cfg := baseConfig("info")
	cfg.File = logger.LogFile{
		Enabled:  true,
		Path:     dir,
		ErrorLog: "error.log",
		InfoLog:  "info.log",
		TraceLog: "trace.log",
		WarnLog:  "warn.log",
	}

	_ = captureInit(t, cfg)

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "module created")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "upload failed")
}

func TestPrometheusHookCountsLevels(t *testing.T) {
	_ = captureInit(t, baseConfig("info"))

	before := testutil.ToFloat64(logger.LogStatementsCounter().WithLabelValues("warn"))

	log.Warn().Msg("counted")
	log.Warn().Msg("counted again")

	after := testutil.ToFloat64(logger.LogStatementsCounter().WithLabelValues("warn"))
	assert.InDelta(t, 2, after-before, 0)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestErrorHandlerReportsDroppedEvents(t *testing.T) {
	_ = captureInit(t, baseConfig("info"))

	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stderr = w

	zerolog.New(failingWriter{}).Info().Msg("lost")

	_ = w.Close()
	os.Stderr = stderr

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "dropped log event: disk full")
}
