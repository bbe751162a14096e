package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		env   string
		want  slog.Level
	}{
		{value: "debug", env: "production", want: slog.LevelDebug},
		{value: "", env: "development", want: slog.LevelDebug},
		{value: "info", env: "development", want: slog.LevelInfo},
		{value: "", env: "production", want: slog.LevelInfo},
		{value: "WARNING", env: "production", want: slog.LevelWarn},
		{value: "error", env: "production", want: slog.LevelError},
		{value: "fatal", env: "production", want: LevelCritical},
		{value: "bogus", env: "production", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.value, tt.env), "value=%q env=%q", tt.value, tt.env)
	}
}

func TestCriticalLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.Critical("db: down")

	assert.Contains(t, buf.String(), "level=CRITICAL")
}

func TestBusinessErrorLogsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json")

	log.BusinessError("groups.join: already member", errors.New("already a member"), "slug", "books")
	log.BusinessError("ignored", nil)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"slug":"books"`)
	assert.NotContains(t, out, "ignored")
}

func TestContextRoundTrip(t *testing.T) {
	fallback := Discard()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := fallback.With("request_id", "abc")
	ctx := NewContext(context.Background(), scoped)
	require.NotNil(t, FromContext(ctx, fallback))
	assert.Same(t, scoped, FromContext(ctx, fallback))
}
