package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewJSONCarriesServiceAttrs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "recipebox",
		Version: "v1",
		Env:     "test",
		Level:   "info",
		Format:  "json",
		Output:  &buf,
	})

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "recipebox", entry["service"])
	require.Equal(t, "v1", entry["version"])
	require.Equal(t, "test", entry["env"])
	require.Equal(t, "v", entry["k"])
}

func TestNewTextFormat(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "recipebox", Level: "debug", Format: "TEXT", Output: &buf})
	logger.Debug("dbg", "a", 1)

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "msg=dbg")
	require.Contains(t, out, "a=1")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, slogx.ParseLevel(in), "level %q", in)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := slogx.WithContext(context.Background(), base)
	require.Same(t, base, slogx.FromContext(ctx))

	ctx = slogx.With(ctx, "content_id", "pasta")
	slogx.FromContext(ctx).Info("scoped")
	require.Contains(t, buf.String(), "content_id=pasta")

	// No logger attached falls back to the default.
	require.Same(t, slog.Default(), slogx.FromContext(context.Background()))
}
