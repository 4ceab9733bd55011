package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Seed represents a versioned, idempotent mutation that should run once per tracker.
type Seed struct {
	ID          string
	Description string
	Run         func(ctx context.Context) error
}

// Record tracks the execution metadata for a seed.
type Record struct {
	ID          string
	Application string
	Description string
	AppliedAt   time.Time
}

// Tracker persists which seeds have executed.
type Tracker interface {
	HasRun(ctx context.Context, id string) (bool, error)
	MarkRun(ctx context.Context, record Record) error
}

// Apply executes the provided seeds exactly once per tracker.
func Apply(ctx context.Context, tracker Tracker, seeds []Seed, application string) error {
	if tracker == nil {
		return errors.New("seed tracker is required")
	}

	for i, s := range seeds {
		if s.ID == "" {
			return fmt.Errorf("seed at index %d missing ID", i)
		}
		if s.Run == nil {
			return fmt.Errorf("seed %s missing Run function", s.ID)
		}

		ran, err := tracker.HasRun(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("check seed %s status: %w", s.ID, err)
		}
		if ran {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s failed: %w", s.ID, err)
		}

		record := Record{
			ID:          s.ID,
			Application: application,
			Description: s.Description,
			AppliedAt:   time.Now().UTC(),
		}
		if err := tracker.MarkRun(ctx, record); err != nil {
			return fmt.Errorf("mark seed %s as complete: %w", s.ID, err)
		}
	}

	return nil
}

// MemoryTracker stores seed records in process memory. Useful for stores that
// are rebuilt on every boot and for tests.
type MemoryTracker struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{records: make(map[string]Record)}
}

// HasRun reports whether a seed with the provided ID is already recorded.
func (t *MemoryTracker) HasRun(_ context.Context, id string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.records[id]
	return ok, nil
}

// MarkRun records the execution of a seed.
func (t *MemoryTracker) MarkRun(_ context.Context, record Record) error {
	if record.ID == "" {
		return errors.New("seed record missing ID")
	}
	t.mu.Lock()
	t.records[record.ID] = record
	t.mu.Unlock()
	return nil
}

// Records returns a copy of all recorded executions.
func (t *MemoryTracker) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	return out
}
