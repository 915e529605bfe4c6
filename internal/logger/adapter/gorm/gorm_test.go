package gorm_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
	adapter "github.com/Zsh123456-BOOP/jnu-web/internal/logger/adapter/gorm"
)

func newLogger(cfg logger.SQL) (*adapter.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	zl := zerolog.New(&buf).Level(zerolog.TraceLevel)

	return adapter.New(&zl, cfg), &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &out))

	return out
}

func sqlFunc() (string, int64) {
	return "SELECT * FROM `module`", 3
}

func TestTrace(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	testCases := []struct {
		name      string
		cfg       logger.SQL
		mode      gormlogger.LogLevel
		begin     time.Time
		err       error
		wantLevel string
	}{
		{
			name:      "query error",
			mode:      gormlogger.Warn,
			begin:     time.Now(),
			err:       errors.New("no such table"),
			wantLevel: "error",
		},
		{
			name:  "record not found is quiet",
			mode:  gormlogger.Warn,
			begin: time.Now(),
			err:   gorm.ErrRecordNotFound,
		},
		{
			name:      "slow query",
			cfg:       logger.SQL{SlowThreshold: "10ms"},
			mode:      gormlogger.Warn,
			begin:     time.Now().Add(-time.Second),
			wantLevel: "warn",
		},
		{
			name:  "fast query without trace",
			mode:  gormlogger.Info,
			begin: time.Now(),
		},
		{
			name:      "fast query with trace",
			cfg:       logger.SQL{Trace: true},
			mode:      gormlogger.Info,
			begin:     time.Now(),
			wantLevel: "trace",
		},
		{
			name:  "silent",
			mode:  gormlogger.Silent,
			begin: time.Now().Add(-time.Hour),
			err:   errors.New("ignored"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, buf := newLogger(tc.cfg)

			l.LogMode(tc.mode).Trace(context.Background(), tc.begin, sqlFunc, tc.err)

			if tc.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}

			got := decode(t, buf)
			assert.Equal(t, tc.wantLevel, got["level"])
			assert.Equal(t, "SELECT * FROM `module`", got["sql"])
			assert.InDelta(t, 3, got["rows"], 0)
			assert.Equal(t, "gorm", got["component"])
		})
	}
}

func TestLogModeDoesNotMutate(t *testing.T) {
	l, buf := newLogger(logger.SQL{})

	_ = l.LogMode(gormlogger.Silent)

	l.Warn(context.Background(), "pool %s", "exhausted")

	got := decode(t, buf)
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "pool exhausted", got["message"])
}
