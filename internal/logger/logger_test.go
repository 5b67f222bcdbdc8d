package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultWriter(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: "json"})
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	var buf bytes.Buffer

	// Production defaults to JSON.
	logger := New(Config{Level: slog.LevelInfo, Environment: "production", Writer: &buf})
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "production output should be JSON")

	// Development defaults to pretty.
	buf.Reset()
	logger = New(Config{Level: slog.LevelInfo, Environment: "development", Writer: &buf})
	logger.Info("hello")
	assert.False(t, strings.HasPrefix(buf.String(), "{"), "development output should be pretty")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Info("should be dropped")
	assert.Empty(t, buf.String())

	logger.Warn("should be kept")
	assert.Contains(t, buf.String(), "should be kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestPrettyHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	logger.Info("sync complete", "pages", 3, "created", 12)

	out := buf.String()
	assert.Contains(t, out, "sync complete")
	assert.Contains(t, out, "pages=3")
	assert.Contains(t, out, "created=12")
	assert.Contains(t, out, "INF")
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h).With("component", "sync")

	logger.Info("cycle started")

	assert.Contains(t, buf.String(), "component=sync")
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithError(errors.New("boom")).Error("sync failed")

	require.Contains(t, buf.String(), "\"error\":\"boom\"")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithField("revision", "42").Info("checkpoint")

	assert.Contains(t, buf.String(), "\"revision\":\"42\"")
}
