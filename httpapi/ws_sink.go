package httpapi

import (
	"fmt"

	"charette-lab/domain/event"
)

// WsSink buffers events for one websocket connection. Consume never
// blocks: when the client cannot keep up, events are dropped and the
// error is surfaced to the router's debug log.
type WsSink struct {
	out chan event.DomainEvent
}

func NewWsSink(bufferSize int) *WsSink {
	return &WsSink{out: make(chan event.DomainEvent, bufferSize)}
}

func (s *WsSink) Consume(e event.DomainEvent) error {
	select {
	case s.out <- e:
		return nil
	default:
		return fmt.Errorf("connection buffer full, event dropped")
	}
}

func (s *WsSink) Events() <-chan event.DomainEvent {
	return s.out
}
