// Package publisher provides a store-backed audit publisher with an optional
// asynchronous buffer for hot paths.
package publisher

import (
	"context"
	"sync"

	"tandem/pkg/audit"
	id "tandem/pkg/domain"
)

// Publisher persists audit events to a store, synchronously by default or
// through a buffered worker when async mode is enabled.
type Publisher struct {
	store audit.Store

	inbox chan audit.Event
	done  chan struct{}
	once  sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
// When the buffer is full, Emit falls back to synchronous persistence rather
// than dropping the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		_ = p.store.Append(context.Background(), event)
	}
}

// Emit publishes a single event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p.inbox != nil {
		select {
		case p.inbox <- event:
			return nil
		default:
			// Buffer full; persist inline so nothing is lost.
		}
	}
	return p.store.Append(ctx, event)
}

// List returns persisted events for a couple. Mostly useful in tests and
// admin tooling.
func (p *Publisher) List(ctx context.Context, coupleID id.CoupleID) ([]audit.Event, error) {
	return p.store.ListByCouple(ctx, coupleID)
}

// Close flushes the async buffer and stops the worker. Safe to call more
// than once.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}
