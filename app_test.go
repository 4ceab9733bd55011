package nab

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type lifecycleRecorder struct {
	name  string
	log   *[]string
	fail  bool
	errIn string
}

func (l *lifecycleRecorder) Start(context.Context) error {
	*l.log = append(*l.log, l.name+":start")
	if l.fail && l.errIn == "start" {
		return errors.New(l.name + " start failed")
	}
	return nil
}

func (l *lifecycleRecorder) Stop(context.Context) error {
	*l.log = append(*l.log, l.name+":stop")
	if l.fail && l.errIn == "stop" {
		return errors.New(l.name + " stop failed")
	}
	return nil
}

func TestNormalizePort(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		fallback string
		expected string
	}{
		{"bare port", "8080", "", ":8080"},
		{"already prefixed", ":9090", "", ":9090"},
		{"host and port", "0.0.0.0:8080", "", "0.0.0.0:8080"},
		{"empty uses fallback", "", "8081", ":8081"},
		{"empty everything", "", "", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePort(tt.port, tt.fallback); got != tt.expected {
				t.Errorf("NormalizePort(%q, %q) = %q, want %q", tt.port, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestNewAppRequiresDependencies(t *testing.T) {
	assertPanics := func(t *testing.T, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		fn()
	}

	t.Run("missing logger", func(t *testing.T) {
		assertPanics(t, func() {
			NewApp(WithConfig(NewConfig()))
		})
	})

	t.Run("missing config", func(t *testing.T) {
		assertPanics(t, func() {
			NewApp(WithLogger(NewNoopLogger()))
		})
	})

	t.Run("nil shutdown hook", func(t *testing.T) {
		assertPanics(t, func() {
			NewApp(
				WithConfig(NewConfig()),
				WithLogger(NewNoopLogger()),
				WithShutdown(nil),
			)
		})
	})
}

func TestAppRunLifecycleOrdering(t *testing.T) {
	var log []string
	first := &lifecycleRecorder{name: "first", log: &log}
	second := &lifecycleRecorder{name: "second", log: &log}

	app := NewApp(
		WithConfig(NewConfig()),
		WithLogger(NewNoopLogger()),
		WithLifecycle(first, second),
		WithShutdown(func(context.Context) error {
			log = append(log, "shutdown")
			return nil
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := app.Run(ctx); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	expected := []string{"first:start", "second:start", "second:stop", "first:stop", "shutdown"}
	if len(log) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, log)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, log)
		}
	}
}

func TestAppRunStartFailureRollsBack(t *testing.T) {
	var log []string
	ok := &lifecycleRecorder{name: "ok", log: &log}
	bad := &lifecycleRecorder{name: "bad", log: &log, fail: true, errIn: "start"}

	app := NewApp(
		WithConfig(NewConfig()),
		WithLogger(NewNoopLogger()),
		WithLifecycle(ok, bad),
	)

	err := app.Run(context.Background())
	if err == nil {
		t.Fatal("expected a start error")
	}

	expected := []string{"ok:start", "bad:start", "ok:stop"}
	if len(log) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, log)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, log)
		}
	}
}

func TestAppRunAggregatesStopErrors(t *testing.T) {
	var log []string
	bad := &lifecycleRecorder{name: "bad", log: &log, fail: true, errIn: "stop"}

	app := NewApp(
		WithConfig(NewConfig()),
		WithLogger(NewNoopLogger()),
		WithLifecycle(bad),
		WithShutdown(func(context.Context) error {
			return errors.New("hook failed")
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.Run(ctx)
	if err == nil {
		t.Fatal("expected aggregated errors")
	}
	for _, want := range []string{"bad stop failed", "hook failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %q", want, err.Error())
		}
	}
}
