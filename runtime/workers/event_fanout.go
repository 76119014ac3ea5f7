package workers

import (
	"context"
	"log/slog"

	"charette-lab/contract"
	"charette-lab/domain/event"
	"charette-lab/observability"
)

// EventFanout drains the router's event pipeline and hands each event to
// the permanent sinks (archive, search index, projections).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering across sessions, durability, or retries. EventFanout is not a
// message broker. Subscriber delivery does not pass through here: live
// connections are served inline by the router.
type EventFanout struct {
	log        *slog.Logger
	events     chan event.DomainEvent
	monitoring *observability.Monitoring
	sinks      []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events chan event.DomainEvent, monitoring *observability.Monitoring) *EventFanout {
	return &EventFanout{log: log, events: events, monitoring: monitoring}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(evt)
		}
	}
}

// Fanout One sink for each event
func (w *EventFanout) Fanout(evt event.DomainEvent) {
	if w.monitoring != nil {
		w.monitoring.CountEvent(evt)
	}
	for _, sink := range w.sinks {
		if err := sink.Consume(evt); err != nil {
			w.log.Warn("Permanent sink failed",
				"charette_id", evt.SessionID(),
				"error", err)
		}
	}
}
