package event

import (
	"charette-lab/domain"
)

// DomainEvent is anything the router broadcasts to connected subscribers.
// RoomScope narrows the audience: "" means every session subscriber,
// a room id means only the subscribers of that breakout room.
type DomainEvent interface {
	SessionID() string
	RoomScope() string
}

type MessagePosted struct {
	Charette string
	Message  domain.Message
}

func (e MessagePosted) SessionID() string { return e.Charette }

func (e MessagePosted) RoomScope() string {
	if e.Message.Plenary() {
		return ""
	}
	return e.Message.RoomID
}

type PhaseChanged struct {
	Charette string
	Index    int
}

func (e PhaseChanged) SessionID() string { return e.Charette }
func (e PhaseChanged) RoomScope() string { return "" }

type RoomUpdated struct {
	Charette string
	Updated  domain.BreakoutRoom
}

func (e RoomUpdated) SessionID() string { return e.Charette }
func (e RoomUpdated) RoomScope() string { return "" }

type BreakoutRoomsCreated struct {
	Charette string
	Rooms    []domain.BreakoutRoom
}

func (e BreakoutRoomsCreated) SessionID() string { return e.Charette }
func (e BreakoutRoomsCreated) RoomScope() string { return "" }
