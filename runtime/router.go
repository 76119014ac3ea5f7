package runtime

import (
	"errors"
	"fmt"
	"log/slog"

	"charette-lab/contract"
	"charette-lab/domain"
	"charette-lab/domain/event"
	apperrors "charette-lab/errors"
)

// Router routes charette events to the correct audience: breakout-room
// chatter stays inside the room, plenary chatter and structural changes
// (phase, rooms) reach every session subscriber.
//
// Delivery to subscriber sinks happens inline; sinks are required to be
// non-blocking. A second copy of each event goes to a buffered channel
// consumed by the fanout worker, which feeds the permanent sinks
// (archive, index, projections). The channel send never blocks: when the
// pipeline is saturated, events are dropped with a warning.
type Router struct {
	log      *slog.Logger
	store    contract.IStore
	registry contract.IRegistry
	events   chan event.DomainEvent
}

func NewRouter(log *slog.Logger, store contract.IStore, registry contract.IRegistry, bufferSize int) *Router {
	return &Router{
		log:      log,
		store:    store,
		registry: registry,
		events:   make(chan event.DomainEvent, bufferSize),
	}
}

// Events exposes the permanent-sink pipeline consumed by the fanout worker.
func (r *Router) Events() chan event.DomainEvent {
	return r.events
}

// Subscribe adds a connection to the session-wide broadcast group. Idempotent.
func (r *Router) Subscribe(connID, sessionID string, sink contract.EventSink) {
	r.registry.Subscribe(connID, GroupKey(sessionID, ""), sink)
}

// Unsubscribe drops a connection from every group it joined.
func (r *Router) Unsubscribe(connID string) {
	r.registry.Unsubscribe(connID)
}

// PostMessage appends a message to the store and delivers it to its
// audience. The store assigns id and timestamp; the caller gets the final
// message back.
func (r *Router) PostMessage(sessionID, roomID, text, userName, role string) (domain.Message, error) {
	msg, err := r.store.AppendMessage(sessionID, roomID, text, userName, role)
	if err != nil {
		return domain.Message{}, err
	}
	r.broadcast(event.MessagePosted{Charette: sessionID, Message: msg})
	return msg, nil
}

// JoinBreakoutRoom subscribes the connection to the room's group and records
// the membership. Joining twice keeps a single membership entry, but the
// updated room is re-broadcast either way so late listeners converge.
func (r *Router) JoinBreakoutRoom(connID, sessionID, roomID, userName string) {
	r.registry.JoinGroup(connID, GroupKey(sessionID, roomID))

	room, err := r.store.JoinRoom(sessionID, roomID, userName)
	if err != nil {
		r.dropEvent("join-breakout-room", sessionID, err)
		return
	}
	r.broadcast(event.RoomUpdated{Charette: sessionID, Updated: room})
}

// LeaveBreakoutRoom is the inverse of JoinBreakoutRoom. No-op if the
// session or room is gone.
func (r *Router) LeaveBreakoutRoom(connID, sessionID, roomID, userName string) {
	r.registry.LeaveGroup(connID, GroupKey(sessionID, roomID))

	room, err := r.store.LeaveRoom(sessionID, roomID, userName)
	if err != nil {
		r.dropEvent("leave-breakout-room", sessionID, err)
		return
	}
	r.broadcast(event.RoomUpdated{Charette: sessionID, Updated: room})
}

// CreateBreakoutRooms discards the session's rooms and creates count new
// ones. Destructive on purpose: a facilitator can reset the breakout
// structure at any time. Silent no-op when the session is absent.
func (r *Router) CreateBreakoutRooms(sessionID string, count int, questions []string) {
	rooms, err := r.store.ReplaceRooms(sessionID, count, questions)
	if err != nil {
		r.dropEvent("create-breakout-rooms", sessionID, err)
		return
	}
	r.broadcast(event.BreakoutRoomsCreated{Charette: sessionID, Rooms: rooms})
}

// AdvancePhase moves the session forward and announces the resulting index
// to every session subscriber. At the last phase the index stays put and is
// still announced.
func (r *Router) AdvancePhase(sessionID string) {
	idx, err := r.store.AdvancePhase(sessionID)
	if err != nil {
		r.dropEvent("next-phase", sessionID, err)
		return
	}
	r.broadcast(event.PhaseChanged{Charette: sessionID, Index: idx})
}

func (r *Router) broadcast(evt event.DomainEvent) {
	group := GroupKey(evt.SessionID(), evt.RoomScope())
	for _, sink := range r.registry.SinksFor(group) {
		if err := sink.Consume(evt); err != nil {
			r.log.Debug("Sink rejected event", "group", group, "error", err)
		}
	}
	r.publish(evt)
}

func (r *Router) publish(evt event.DomainEvent) {
	select {
	case r.events <- evt:
	default:
		r.log.Warn(fmt.Sprintf("Event pipeline full for charette %s, dropping event", evt.SessionID()))
	}
}

// dropEvent logs a fire-and-forget event that referenced a missing session
// or room. A stale client must never crash the service.
func (r *Router) dropEvent(kind, sessionID string, err error) {
	if errors.Is(err, apperrors.ErrCharetteNotFound) || errors.Is(err, apperrors.ErrRoomNotFound) {
		r.log.Debug("Ignoring event for unknown target", "event", kind, "charette_id", sessionID)
		return
	}
	r.log.Warn("Event failed", "event", kind, "charette_id", sessionID, "error", err)
}
