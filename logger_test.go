package nab

import (
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("debug")
	if logger == nil {
		t.Fatal("expected a logger")
	}

	// must not panic regardless of argument shape
	logger.Debug("message", "key", "value")
	logger.Info("message")
	logger.Error("message", slog.String("key", "value"))
	logger.Infof("formatted %d", 1)

	scoped := logger.With("component", "test")
	if scoped == nil {
		t.Fatal("expected a scoped logger")
	}
	scoped.Info("scoped message")
}

func TestNoopLogger(t *testing.T) {
	logger := NewNoopLogger()
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Error("dropped")
	if scoped := logger.With("k", "v"); scoped == nil {
		t.Error("expected noop With to return a logger")
	}
}

func TestToValidLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected LogLevel
	}{
		{"debug", "debug", DebugLevel},
		{"short debug", "dbg", DebugLevel},
		{"info", "info", InfoLevel},
		{"error", "error", ErrorLevel},
		{"mixed case", "DeBuG", DebugLevel},
		{"unknown defaults to info", "verbose", InfoLevel},
		{"empty defaults to info", "", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toValidLevel(tt.level); got != tt.expected {
				t.Errorf("toValidLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNormalizeArgs(t *testing.T) {
	msg, attrs := normalizeArgs("hello")
	if msg != "hello" || attrs != nil {
		t.Errorf("single arg: got %q, %v", msg, attrs)
	}

	msg, attrs = normalizeArgs("hello", "key", "value")
	if msg != "hello" || len(attrs) != 2 {
		t.Errorf("key-value args: got %q, %v", msg, attrs)
	}

	msg, attrs = normalizeArgs("hello", "dangling")
	if len(attrs) != 0 {
		t.Errorf("odd args should collapse into the message, got %v", attrs)
	}
	if msg == "" {
		t.Error("expected a non-empty message")
	}
}
