package seed

import (
	"context"
	"errors"
	"testing"
)

func TestApplyRunsSeedsOnce(t *testing.T) {
	tracker := NewMemoryTracker()
	runs := 0
	seeds := []Seed{
		{
			ID:          "roster:v1",
			Description: "load initial roster",
			Run: func(context.Context) error {
				runs++
				return nil
			},
		},
	}

	if err := Apply(context.Background(), tracker, seeds, "nab"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(context.Background(), tracker, seeds, "nab"); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if runs != 1 {
		t.Errorf("expected seed to run once, ran %d times", runs)
	}

	records := tracker.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != "roster:v1" || records[0].Application != "nab" {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if records[0].AppliedAt.IsZero() {
		t.Error("expected AppliedAt to be set")
	}
}

func TestApplyValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil tracker", func(t *testing.T) {
		if err := Apply(ctx, nil, nil, "nab"); err == nil {
			t.Error("expected an error for nil tracker")
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		seeds := []Seed{{Run: func(context.Context) error { return nil }}}
		if err := Apply(ctx, NewMemoryTracker(), seeds, "nab"); err == nil {
			t.Error("expected an error for missing ID")
		}
	})

	t.Run("missing run", func(t *testing.T) {
		seeds := []Seed{{ID: "broken"}}
		if err := Apply(ctx, NewMemoryTracker(), seeds, "nab"); err == nil {
			t.Error("expected an error for missing Run")
		}
	})
}

func TestApplyStopsOnFailure(t *testing.T) {
	tracker := NewMemoryTracker()
	secondRan := false
	seeds := []Seed{
		{
			ID:  "first",
			Run: func(context.Context) error { return errors.New("boom") },
		},
		{
			ID: "second",
			Run: func(context.Context) error {
				secondRan = true
				return nil
			},
		},
	}

	err := Apply(context.Background(), tracker, seeds, "nab")
	if err == nil {
		t.Fatal("expected an error")
	}
	if secondRan {
		t.Error("expected the second seed to be skipped after failure")
	}
	if len(tracker.Records()) != 0 {
		t.Errorf("failed seed must not be recorded, got %v", tracker.Records())
	}
}

func TestApplyHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	seeds := []Seed{
		{
			ID: "cancelled",
			Run: func(context.Context) error {
				ran = true
				return nil
			},
		},
	}

	if err := Apply(ctx, NewMemoryTracker(), seeds, "nab"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Error("expected the seed to be skipped after cancellation")
	}
}

func TestMemoryTrackerRejectsEmptyID(t *testing.T) {
	tracker := NewMemoryTracker()
	if err := tracker.MarkRun(context.Background(), Record{}); err == nil {
		t.Error("expected an error for empty record ID")
	}
}
