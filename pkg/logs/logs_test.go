package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/pulseai/pulsedesk/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	logger := slog.New(h).With("component", "test")
	logger.Info("patient saved", "patient_id", "PT-1234")
	logger.Error("log service unreachable")

	if !strings.Contains(a.String(), "patient saved") || !strings.Contains(a.String(), "log service unreachable") {
		t.Errorf("text handler missed records: %s", a.String())
	}
	if strings.Contains(b.String(), "patient saved") {
		t.Errorf("json handler should drop info records: %s", b.String())
	}
	if !strings.Contains(b.String(), `"component":"test"`) {
		t.Errorf("json handler missed attrs: %s", b.String())
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled")
	}
}

func TestNew_StdoutOnly(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "debug"
	cfg.Server.Environment = "development"

	if logger := New(cfg); logger == nil {
		t.Fatal("expected logger")
	}
}
