package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewWithHandler(h), buf
}

func TestLogger_InfoWritesJSON(t *testing.T) {
	l, buf := newBufferedLogger(slog.LevelInfo)

	l.Info("resolved conflict set", "accepted", 3, "rejected", 1)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v (raw: %s)", err, buf.String())
	}
	if entry["msg"] != "resolved conflict set" {
		t.Errorf("msg = %v, want %q", entry["msg"], "resolved conflict set")
	}
	if entry["accepted"] != float64(3) {
		t.Errorf("accepted = %v, want 3", entry["accepted"])
	}
}

func TestLogger_DebugSuppressedBelowLevel(t *testing.T) {
	l, buf := newBufferedLogger(slog.LevelInfo)

	l.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Debug() wrote output at LevelInfo: %s", buf.String())
	}
}

func TestLogger_Module_AddsAttribute(t *testing.T) {
	l, buf := newBufferedLogger(slog.LevelInfo)

	l.Module("resolve").Info("starting run")

	if !strings.Contains(buf.String(), `"module":"resolve"`) {
		t.Errorf("output %q does not contain module=resolve attribute", buf.String())
	}
}

func TestLogger_With_AddsContext(t *testing.T) {
	l, buf := newBufferedLogger(slog.LevelInfo)

	l.With("run", "abc123").Warn("slow enumeration")

	if !strings.Contains(buf.String(), `"run":"abc123"`) {
		t.Errorf("output %q does not contain run=abc123 context", buf.String())
	}
}

func TestSetDefault_And_Default(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	l, buf := newBufferedLogger(slog.LevelInfo)
	SetDefault(l)

	if Default() != l {
		t.Error("Default() did not return the logger set by SetDefault()")
	}

	Info("package-level info")
	if !strings.Contains(buf.String(), "package-level info") {
		t.Errorf("package-level Info() did not reach the default logger's writer: %s", buf.String())
	}
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	SetDefault(nil)
	if Default() != original {
		t.Error("SetDefault(nil) replaced the default logger, want no-op")
	}
}
