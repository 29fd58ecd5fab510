package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "json stdout",
			config: Config{Level: "debug", Format: "json", Output: "stdout"},
		},
		{
			name:   "text stderr",
			config: Config{Level: "info", Format: "text", Output: "stderr"},
		},
		{
			name:   "discard",
			config: Config{Level: "warn", Format: "text", Output: "discard"},
		},
		{
			name:   "file output",
			config: Config{Level: "error", Format: "json", Output: filepath.Join(t.TempDir(), "logs", "taskpool.log")},
		},
		{
			name:    "invalid level",
			config:  Config{Level: "trace", Format: "json", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "debug", Format: "xml", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestLogger_ErrorIncludesErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newBufferLogger(buf, slog.LevelDebug)

	log.Error("task failed", &testError{msg: "boom"}, Field{Key: "task_id", Value: "t-1"})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "task failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "t-1", record["task_id"])
}

func TestLogger_ContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newBufferLogger(buf, slog.LevelDebug)
	ctx := context.Background()

	log.DebugCtx(ctx, "debug ctx")
	log.InfoCtx(ctx, "info ctx")
	log.WarnCtx(ctx, "warn ctx")
	log.ErrorCtx(ctx, "error ctx", nil)

	output := buf.String()
	for _, msg := range []string{"debug ctx", "info ctx", "warn ctx", "error ctx"} {
		assert.Contains(t, output, msg)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newBufferLogger(buf, slog.LevelDebug).With(Field{Key: "component", Value: "executor"})

	log.Info("started")

	assert.Contains(t, buf.String(), `"component":"executor"`)
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
		skip  []string
	}{
		{level: "debug", want: []string{"d-msg", "i-msg", "w-msg", "e-msg"}},
		{level: "info", want: []string{"i-msg", "w-msg", "e-msg"}, skip: []string{"d-msg"}},
		{level: "warn", want: []string{"w-msg", "e-msg"}, skip: []string{"d-msg", "i-msg"}},
		{level: "error", want: []string{"e-msg"}, skip: []string{"d-msg", "i-msg", "w-msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			level, ok := parseLevel(tt.level)
			require.True(t, ok)
			log := newBufferLogger(buf, level)

			log.Debug("d-msg")
			log.Info("i-msg")
			log.Warn("w-msg")
			log.Error("e-msg", nil)

			output := buf.String()
			for _, m := range tt.want {
				assert.Contains(t, output, m)
			}
			for _, m := range tt.skip {
				assert.NotContains(t, output, m)
			}
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	log := newBufferLogger(&bytes.Buffer{}, slog.LevelWarn)

	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)

	// must not panic
	log.Info("dropped", Field{Key: "k", Value: strings.Repeat("x", 8)})
}

func newBufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return &Logger{slog: slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))}
}

// testError реализует интерфейс error для тестов
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
