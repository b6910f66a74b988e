package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColoredHandlerPutsRequestIDFirst(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewColoredHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithRequestID(context.Background(), "req-1")
	l.InfoContext(ctx, "session created", "session_id", "abc")

	out := buf.String()
	assert.Contains(t, out, "[req-1]")
	assert.Contains(t, out, "session created")
	assert.Contains(t, out, `"abc"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("req-1")), bytes.Index(buf.Bytes(), []byte("session created")))
}

func TestColoredHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewColoredHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	l.Info("hidden")
	l.With("component", "llm").Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
