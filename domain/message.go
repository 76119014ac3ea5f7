// Messages are immutable once posted and grouped by (session, room).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MainRoomID is the plenary scope, used whenever an event carries no room id.
const MainRoomID = "main"

const (
	RoleParticipant    = "participant"
	RoleAnalyst        = "analyst"
	RoleProjectManager = "project_manager"
)

// Message represents an immutable chat event.
type Message struct {
	ID        uuid.UUID // unique identifier
	Text      string
	UserName  string
	Role      string
	RoomID    string
	Timestamp time.Time
}

// Plenary reports whether the message belongs to the session-wide scope.
func (m Message) Plenary() bool {
	return m.RoomID == "" || m.RoomID == MainRoomID
}
