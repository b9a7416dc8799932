package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: FormatJSON}, &buf)

	l.Debug().Msg("hidden")
	engineLogger := ComponentLogger(l, "engine")
	engineLogger.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, `"message":"visible"`)
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("stderr when no file", func(t *testing.T) {
		res := NewLoggerWithPath(Config{Level: "info"})
		assert.False(t, res.UsingFile)
		assert.False(t, res.FallbackUsed)
		require.NoError(t, res.Close())
	})

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "smartcarbon.log")
		res := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
		require.True(t, res.UsingFile)
		res.Logger.Info().Msg("to file")
		require.NoError(t, res.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})

	t.Run("falls back when file unusable", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		res := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(blocker, "x.log")})
		assert.False(t, res.UsingFile)
		assert.True(t, res.FallbackUsed)
		assert.NotEmpty(t, res.FallbackReason)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("no logger yields nop", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.Equal(t, zerolog.Disabled, l.GetLevel())
	})

	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(Config{Format: FormatJSON}, &buf)
		ctx := l.WithContext(context.Background())

		got := FromContext(ctx)
		got.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	require.Len(t, id, 26)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, TraceIDFromContext(ctx))
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}
