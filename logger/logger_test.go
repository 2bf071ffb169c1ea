package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %s", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output stdout, got %s", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfig_Validate_InvalidLevel(t *testing.T) {
	cfg := Config{Level: "verbose", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestConfig_Validate_InvalidFormat(t *testing.T) {
	cfg := Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := Config{Level: "debug", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogger_WriterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "test")

	log.Info("hello", Fields("key", "value"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["message"] != "hello" {
		t.Errorf("expected message hello, got %v", entry["message"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key=value field, got %v", entry["key"])
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "test").WithComponent("database")

	log.Warn("pool exhausted")

	out := buf.String()
	if !strings.Contains(out, `"component":"database"`) {
		t.Errorf("expected component field in output, got %s", out)
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "test")

	log.WithError(errTest).Error("release failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected wrapped error in output, got %s", buf.String())
	}
}

var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "boom" }

func TestFields_Pairs(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields map: %v", m)
	}
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 {
		t.Errorf("expected dangling key dropped, got %v", m)
	}
}

func TestNop_Discards(t *testing.T) {
	// Must not panic with a zero-config logger.
	Nop().Info("discarded")
	Nop().WithComponent("x").Error("discarded")
}
