// Package projection builds local timelines from observed events.
// Handles ordering and projections. Does not emit events or interact
// with transports directly.
package projection

import (
	"sync"

	"charette-lab/domain"
	"charette-lab/domain/event"
)

// Timeline holds a simple local timeline of posted messages, in the order
// they were observed.
type Timeline struct {
	mu       sync.Mutex
	Owner    string
	messages []domain.Message
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{Owner: owner}
}

func (t *Timeline) Consume(e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		t.mu.Lock()
		t.messages = append(t.messages, evt.Message)
		t.mu.Unlock()
	}
	return nil
}

func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.messages...)
}
