package events

import (
	"context"
	"sync"
)

// HandlerFunc processes an event message.
type HandlerFunc func(ctx context.Context, msg []byte) error

// Publisher publishes events to topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// Subscriber subscribes to topics and processes events.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler HandlerFunc) error
}

// NoopPublisher drops all events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

// Bus is a synchronous in-process publisher/subscriber. Handlers run on the
// publisher's goroutine; handler errors are returned to the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

// NewBus constructs an empty in-process bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]HandlerFunc)}
}

func (b *Bus) Subscribe(_ context.Context, topic string, handler HandlerFunc) error {
	if handler == nil {
		return nil
	}
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.mu.Unlock()
	return nil
}

func (b *Bus) Publish(ctx context.Context, topic string, msg []byte) error {
	b.mu.RLock()
	handlers := append([]HandlerFunc(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
