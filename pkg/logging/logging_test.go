package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		entries = append(entries, e)
	}
	return entries
}

// TestJSONLogger_LevelFilter drops entries below the configured level.
func TestJSONLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("Unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

// TestJSONLogger_Fields emits structured fields.
func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("fetch failed", URL("http://x.example/m.json"), Hop(2), Identity("X1"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields, ok := entries[0]["fields"].(map[string]any)
	if !ok {
		t.Fatalf("Missing fields object: %v", entries[0])
	}
	if fields["url"] != "http://x.example/m.json" {
		t.Errorf("Unexpected url field: %v", fields["url"])
	}
	if fields["hop"] != float64(2) {
		t.Errorf("Unexpected hop field: %v", fields["hop"])
	}
	if fields["identity"] != "X1" {
		t.Errorf("Unexpected identity field: %v", fields["identity"])
	}
}

// TestJSONLogger_With pre-sets fields on child loggers without touching the
// parent.
func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(String("component", "crawler"))

	child.Info("from child")
	parent.Info("from parent")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	childFields, _ := entries[0]["fields"].(map[string]any)
	if childFields["component"] != "crawler" {
		t.Errorf("Child entry missing pre-set field: %v", entries[0])
	}
	if _, ok := entries[1]["fields"]; ok {
		t.Errorf("Parent entry should have no fields: %v", entries[1])
	}
}

// TestParseLevel maps strings to levels with an info fallback.
func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestErrorField handles nil errors.
func TestErrorField(t *testing.T) {
	f := Error(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}
