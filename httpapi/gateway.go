package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"charette-lab/domain/event"
	apperrors "charette-lab/errors"
	"charette-lab/services"
)

// Envelope is the websocket wire frame, preserving the event names the
// original socket.io client spoke.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	evtJoinCharette        = "join-charette"
	evtChatMessage         = "chat-message"
	evtNextPhase           = "next-phase"
	evtJoinBreakoutRoom    = "join-breakout-room"
	evtLeaveBreakoutRoom   = "leave-breakout-room"
	evtCreateBreakoutRooms = "create-breakout-rooms"
	evtPhaseChanged        = "phase-changed"
	evtRoomUpdated         = "room-updated"
	evtRoomsCreated        = "breakout-rooms-created"
	evtError               = "error"
)

var validate = validator.New()

type JoinCharettePayload struct {
	CharetteID string `json:"charetteId" validate:"required"`
}

type ChatMessagePayload struct {
	CharetteID string `json:"charetteId" validate:"required"`
	Message    string `json:"message" validate:"required"`
	UserName   string `json:"userName" validate:"required"`
	Role       string `json:"role"`
	RoomID     string `json:"roomId"`
}

type RoomMembershipPayload struct {
	CharetteID string `json:"charetteId" validate:"required"`
	RoomID     string `json:"roomId" validate:"required"`
	UserName   string `json:"userName" validate:"required"`
}

type CreateRoomsPayload struct {
	CharetteID string   `json:"charetteId" validate:"required"`
	RoomCount  int      `json:"roomCount" validate:"required,min=1,max=50"`
	Questions  []string `json:"questions"`
}

// Gateway upgrades HTTP connections and bridges them to the router: one
// connection, one sink, one write pump. The read loop dispatches inbound
// events; the deferred unregistration keeps the registry leak-free when a
// client vanishes.
type Gateway struct {
	svc        services.ICharetteService
	upgrader   websocket.Upgrader
	bufferSize int
	log        *slog.Logger
}

func NewGateway(svc services.ICharetteService, bufferSize int, log *slog.Logger) *Gateway {
	return &Gateway{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients come from the static-file host; origin policy
			// belongs to the deployment, not this core.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize: bufferSize,
		log:        log,
	}
}

func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	sink := NewWsSink(g.bufferSize)
	defer g.svc.Unsubscribe(connID)

	// Error frames share the pump with broadcast events; the read loop
	// never writes to the connection itself.
	errFrames := make(chan Envelope, g.bufferSize)
	done := make(chan struct{})
	defer close(done)
	go g.writePump(conn, sink, errFrames, done)

	for {
		var envelope Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn(fmt.Sprintf("Client %s disconnected unexpectedly", connID))
			}
			return
		}
		g.dispatch(connID, sink, errFrames, envelope)
	}
}

// writePump serializes outbound events onto the connection. The single
// writer goroutine per connection; gorilla connections do not allow
// concurrent writes.
func (g *Gateway) writePump(conn *websocket.Conn, sink *WsSink, errFrames <-chan Envelope, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case evt := <-sink.Events():
			if err := conn.WriteJSON(toEnvelope(evt)); err != nil {
				g.log.Debug("Failed to push event to connection", "error", err)
				return
			}
		case frame := <-errFrames:
			if err := conn.WriteJSON(frame); err != nil {
				g.log.Debug("Failed to push error frame to connection", "error", err)
				return
			}
		}
	}
}

func (g *Gateway) dispatch(connID string, sink *WsSink, errFrames chan<- Envelope, envelope Envelope) {
	switch envelope.Event {
	case evtJoinCharette:
		var p JoinCharettePayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		g.svc.Subscribe(connID, p.CharetteID, sink)

	case evtChatMessage:
		var p ChatMessagePayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		if _, err := g.svc.PostMessage(p.CharetteID, p.RoomID, p.Message, p.UserName, p.Role); err != nil {
			// Fire-and-forget semantics: a stale charette id is logged, not fatal.
			g.log.Debug("Dropped chat message", "charette_id", p.CharetteID)
		}

	case evtNextPhase:
		var p JoinCharettePayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		g.svc.AdvancePhase(p.CharetteID)

	case evtJoinBreakoutRoom:
		var p RoomMembershipPayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		g.svc.JoinBreakoutRoom(connID, p.CharetteID, p.RoomID, p.UserName)

	case evtLeaveBreakoutRoom:
		var p RoomMembershipPayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		g.svc.LeaveBreakoutRoom(connID, p.CharetteID, p.RoomID, p.UserName)

	case evtCreateBreakoutRooms:
		var p CreateRoomsPayload
		if !g.decode(errFrames, envelope.Data, &p) {
			return
		}
		g.svc.CreateBreakoutRooms(p.CharetteID, p.RoomCount, p.Questions)

	default:
		g.sendError(errFrames, fmt.Sprintf("unknown event %q", envelope.Event))
	}
}

// decode unmarshals and validates an inbound payload. Malformed payloads
// get an error frame back; the connection stays open.
func (g *Gateway) decode(errFrames chan<- Envelope, data json.RawMessage, target any) bool {
	if err := json.Unmarshal(data, target); err != nil {
		g.sendError(errFrames, apperrors.ErrInvalidPayload.Error())
		return false
	}
	if err := validate.Struct(target); err != nil {
		g.sendError(errFrames, err.Error())
		return false
	}
	return true
}

// sendError enqueues an error frame for the write pump. Never blocks:
// a client flooding bad frames without reading loses error frames, not
// the connection.
func (g *Gateway) sendError(errFrames chan<- Envelope, message string) {
	raw, _ := json.Marshal(gin.H{"message": message})
	select {
	case errFrames <- Envelope{Event: evtError, Data: raw}:
	default:
	}
}

func toEnvelope(evt event.DomainEvent) any {
	switch e := evt.(type) {
	case event.MessagePosted:
		return outbound(evtChatMessage, toMessageDTO(e.Message))
	case event.PhaseChanged:
		return outbound(evtPhaseChanged, gin.H{"charetteId": e.Charette, "currentPhase": e.Index})
	case event.RoomUpdated:
		return outbound(evtRoomUpdated, toRoomDTO(e.Updated))
	case event.BreakoutRoomsCreated:
		rooms := make([]BreakoutRoom, len(e.Rooms))
		for i, r := range e.Rooms {
			rooms[i] = toRoomDTO(r)
		}
		return outbound(evtRoomsCreated, rooms)
	default:
		return outbound("unknown", nil)
	}
}

func outbound(name string, data any) any {
	return struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: name, Data: data}
}
