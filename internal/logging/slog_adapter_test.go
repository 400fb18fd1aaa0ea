// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// --- Test: SlogHandler.Enabled ---

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"info logger enables warn", zerolog.InfoLevel, slog.LevelWarn, true},
		{"info logger enables error", zerolog.InfoLevel, slog.LevelError, true},
		{"warn logger disables info", zerolog.WarnLevel, slog.LevelInfo, false},
		{"error logger disables warn", zerolog.ErrorLevel, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(tt.zerologLevel))
			if got := handler.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Test: SlogHandler.Handle ---

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger.Warn("service restarted", "service", "http-server", "attempt", 3)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"http-server"`, `"attempt":3`, "service restarted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		With("tree", "poigate").
		WithGroup("supervisor")
	logger.Error("failure", "count", 2)

	out := buf.String()
	if !strings.Contains(out, `"supervisor.tree":"poigate"`) {
		t.Errorf("expected group-prefixed attr in %s", out)
	}
	if !strings.Contains(out, `"supervisor.count":2`) {
		t.Errorf("expected group-prefixed record attr in %s", out)
	}
}

func TestSlogHandler_WithGroup_Empty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil))
	if got := h.WithGroup(""); got != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestAddAttr_AllTypes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger.Info("types",
		slog.String("s", "x"),
		slog.Int64("i", -1),
		slog.Uint64("u", 7),
		slog.Float64("f", 1.5),
		slog.Bool("b", true),
		slog.Duration("d", time.Second),
		slog.Group("g", slog.String("inner", "v")),
	)

	out := buf.String()
	for _, want := range []string{`"s":"x"`, `"i":-1`, `"u":7`, `"f":1.5`, `"b":true`, `"g.inner":"v"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
