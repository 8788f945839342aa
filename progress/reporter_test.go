package progress

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("line is not valid JSON: %q: %v", line, err)
		}
		events = append(events, event)
	}
	return events
}

func TestReporterEmitsStatusAndMessage(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, zapcore.DebugLevel)

	r.Info("Track information retrieved", zap.String("artist", "Ed Sheeran"))
	r.Debug("Parsed title")
	r.Warning("Could not extract title from HTML response")
	r.Event(StatusPending, "Download initiated", zap.String("handoff_id", "abc"))

	events := decodeLines(t, &buf)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	expected := []struct {
		status  string
		message string
	}{
		{"info", "Track information retrieved"},
		{"debug", "Parsed title"},
		{"warning", "Could not extract title from HTML response"},
		{"pending", "Download initiated"},
	}

	for i, want := range expected {
		if events[i]["status"] != want.status {
			t.Errorf("event %d: expected status %q, got %v", i, want.status, events[i]["status"])
		}
		if events[i]["message"] != want.message {
			t.Errorf("event %d: expected message %q, got %v", i, want.message, events[i]["message"])
		}
	}

	if events[0]["artist"] != "Ed Sheeran" {
		t.Errorf("expected contextual field to survive, got %v", events[0]["artist"])
	}
	if events[3]["handoff_id"] != "abc" {
		t.Errorf("expected handoff_id field, got %v", events[3]["handoff_id"])
	}
}

func TestReporterOmitsTimestamps(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, zapcore.InfoLevel)

	r.Info("hello")

	events := decodeLines(t, &buf)
	for _, key := range []string{"ts", "level", "caller"} {
		if _, ok := events[0][key]; ok {
			t.Errorf("event unexpectedly carries %q key", key)
		}
	}
}

func TestReporterLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, zapcore.InfoLevel)

	r.Debug("hidden")
	r.Info("visible")

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected debug event to be filtered, got %d events", len(events))
	}
	if events[0]["message"] != "visible" {
		t.Errorf("unexpected event: %v", events[0])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
