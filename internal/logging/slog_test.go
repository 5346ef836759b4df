package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger(buf *bytes.Buffer) *SlogLogger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		log   func(l *SlogLogger)
		level string
	}{
		{"debug", func(l *SlogLogger) { l.Debug(ctx, "msg") }, "DEBUG"},
		{"info", func(l *SlogLogger) { l.Info(ctx, "msg") }, "INFO"},
		{"warn", func(l *SlogLogger) { l.Warn(ctx, "msg") }, "WARN"},
		{"error", func(l *SlogLogger) { l.Error(ctx, "msg") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newBufLogger(&buf))
			m := decodeLine(t, &buf)
			if m["level"] != tt.level {
				t.Errorf("level = %v, want %v", m["level"], tt.level)
			}
		})
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := newBufLogger(&buf).With("component", "pipeline")
	l.Info(context.Background(), "hello")

	m := decodeLine(t, &buf)
	if m["component"] != "pipeline" {
		t.Errorf("component = %v, want pipeline", m["component"])
	}
}
