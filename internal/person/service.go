package person

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aquamarinepk/nab"
	"github.com/aquamarinepk/nab/events"
)

// Event topics emitted on directory mutations.
const (
	TopicCreated = "person.created"
	TopicRemoved = "person.removed"
)

// Query holds substring filters applied to a search. Empty fields match
// every record.
type Query struct {
	Name    string
	Phone   string
	Address string
}

// Service exposes the directory operations. The underlying Repository is
// single-threaded by contract, so the service serializes every call through
// one mutex; that is the only synchronization the collection needs.
type Service struct {
	mu     sync.Mutex
	repo   *Repository
	logger nab.Logger
	cfg    *nab.Config
	pub    events.Publisher
}

// NewService builds a Service with the given repository, logger, config, and
// event publisher. Nil collaborators fall back to safe defaults.
func NewService(repo *Repository, logger nab.Logger, cfg *nab.Config, pub events.Publisher) *Service {
	if repo == nil {
		repo = NewRepository()
	}
	if logger == nil {
		logger = nab.NewNoopLogger()
	}
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Service{repo: repo, logger: logger, cfg: cfg, pub: pub}
}

// List returns every record in ascending ID order.
func (s *Service) List(ctx context.Context) []Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.All()
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id int) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.FindByID(id)
}

// Create validates and inserts a new record.
func (s *Service) Create(ctx context.Context, id int, name, phone, address string) (Person, error) {
	p := New(id, name, phone, address)
	if details := Validate(p); len(details) > 0 {
		return Person{}, fmt.Errorf("%w: %s", ErrInvalidArgument, details[0].Field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Add(p); err != nil {
		return Person{}, err
	}
	s.logger.Info("person created", "id", p.ID)
	s.publish(ctx, TopicCreated, p)
	return p, nil
}

// Delete removes the record with the given id and returns it.
func (s *Service) Delete(ctx context.Context, id int) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.repo.RemoveByID(id)
	if err != nil {
		return Person{}, err
	}
	s.logger.Info("person removed", "id", removed.ID)
	s.publish(ctx, TopicRemoved, removed)
	return removed, nil
}

// Search applies the query's substring filters in sequence and returns the
// matching records in ascending ID order.
func (s *Service) Search(ctx context.Context, q Query) []Person {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.repo.FindByName(q.Name)
	found = found.FindByPhone(q.Phone)
	found = found.FindByAddress(q.Address)
	return found.All()
}

// Render returns the plain-text dump of the directory.
func (s *Service) Render(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.String()
}

func (s *Service) publish(ctx context.Context, topic string, p Person) {
	payload, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("encode event payload", "topic", topic, "error", err)
		return
	}
	if err := s.pub.Publish(ctx, topic, payload); err != nil {
		s.logger.Error("publish event", "topic", topic, "error", err)
	}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	size := s.repo.Len()
	s.mu.Unlock()
	s.logger.Info("people directory ready", "size", size)
	return nil
}

func (s *Service) Stop(context.Context) error { return nil }
