package store

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"charette-lab/domain"
	apperrors "charette-lab/errors"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())

	created := store.CreateSession("Durham session", "ten days of dialogue")

	got, err := store.GetSession(created.ID)
	req.NoError(err)
	req.Equal("Durham session", got.Title)
	req.Equal(0, got.CurrentPhase)
	req.Len(got.Phases, 6)
	req.Empty(got.Participants)
}

func TestSessionStore_GetSession_Unknown(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())

	_, err := store.GetSession("nope")

	req.ErrorIs(err, apperrors.ErrCharetteNotFound)
}

func TestSessionStore_ListSessions_CreationOrder(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())

	first := store.CreateSession("first", "")
	second := store.CreateSession("second", "")

	sessions := store.ListSessions()
	req.Len(sessions, 2)
	req.Equal(first.ID, sessions[0].ID)
	req.Equal(second.ID, sessions[1].ID)
}

func TestSessionStore_AppendMessage_Defaults(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	// When posting without a room and without a role
	msg, err := store.AppendMessage(session.ID, "", "hello", "Ann", "")

	// Then the message lands in the main room as a participant
	req.NoError(err)
	req.Equal(domain.MainRoomID, msg.RoomID)
	req.Equal(domain.RoleParticipant, msg.Role)
	req.NotEmpty(msg.ID)
	req.False(msg.Timestamp.IsZero())
}

func TestSessionStore_ListMessages_ByRoom(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	_, err := store.AppendMessage(session.ID, "main", "plenary", "Ann", "")
	req.NoError(err)
	_, err = store.AppendMessage(session.ID, "room-1", "breakout", "Howard", "")
	req.NoError(err)

	messages, err := store.ListMessages(session.ID, "room-1")
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("breakout", messages[0].Text)
}

func TestSessionStore_ListMessages_AllRooms_Ordering(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	// Given messages interleaved across rooms
	_, _ = store.AppendMessage(session.ID, "room-2", "b1", "Ann", "")
	_, _ = store.AppendMessage(session.ID, "main", "m1", "Ann", "")
	_, _ = store.AppendMessage(session.ID, "room-1", "a1", "Ann", "")
	_, _ = store.AppendMessage(session.ID, "room-1", "a2", "Ann", "")

	// When listing everything
	messages, err := store.ListMessages(session.ID, "")
	req.NoError(err)

	// Then rooms come in lexicographic order, append order inside each
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Text)
	}
	req.Equal([]string{"m1", "a1", "a2", "b1"}, texts)
}

func TestSessionStore_JoinRoom_Duplicate_ReturnsRoom(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")
	_, err := store.ReplaceRooms(session.ID, 2, nil)
	req.NoError(err)

	room, err := store.JoinRoom(session.ID, "room-1", "Ann")
	req.NoError(err)
	req.Equal([]string{"Ann"}, room.Participants)

	// Joining again keeps the membership single but still returns the room
	room, err = store.JoinRoom(session.ID, "room-1", "Ann")
	req.NoError(err)
	req.Equal([]string{"Ann"}, room.Participants)
}

func TestSessionStore_JoinRoom_UnknownRoom(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	_, err := store.JoinRoom(session.ID, "room-9", "Ann")

	req.ErrorIs(err, apperrors.ErrRoomNotFound)
}

func TestSessionStore_LeaveRoom(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")
	_, err := store.ReplaceRooms(session.ID, 1, nil)
	req.NoError(err)
	_, err = store.JoinRoom(session.ID, "room-1", "Ann")
	req.NoError(err)

	room, err := store.LeaveRoom(session.ID, "room-1", "Ann")
	req.NoError(err)
	req.Empty(room.Participants)
}

func TestSessionStore_ReplaceRooms_DropsMessagesNoMore(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")
	_, err := store.ReplaceRooms(session.ID, 1, nil)
	req.NoError(err)
	_, err = store.AppendMessage(session.ID, "room-1", "kept", "Ann", "")
	req.NoError(err)

	// When the breakout structure is reset
	_, err = store.ReplaceRooms(session.ID, 2, nil)
	req.NoError(err)

	// Then the message history is untouched, only the rooms changed
	messages, err := store.ListMessages(session.ID, "room-1")
	req.NoError(err)
	req.Len(messages, 1)
}

func TestSessionStore_AdvancePhase(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	idx, err := store.AdvancePhase(session.ID)
	req.NoError(err)
	req.Equal(1, idx)

	// Past the end the index stays clamped
	for i := 0; i < 10; i++ {
		idx, err = store.AdvancePhase(session.ID)
		req.NoError(err)
	}
	req.Equal(len(session.Phases)-1, idx)
}

func TestSessionStore_AddAnalysis_TimestampAssigned(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	entry, err := store.AddAnalysis(session.ID, domain.AnalysisEntry{
		Type:       domain.AnalysisConstraint,
		Content:    "limited budget",
		Confidence: 0.8,
	})
	req.NoError(err)
	req.False(entry.CreatedAt.IsZero())

	got, err := store.GetSession(session.ID)
	req.NoError(err)
	req.Len(got.Analysis, 1)
}

func TestSessionStore_ConcurrentAppends_SameSession(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(slog.Default())
	session := store.CreateSession("Durham session", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.AppendMessage(session.ID, "main", fmt.Sprintf("msg-%d", n), "Ann", "")
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	messages, err := store.ListMessages(session.ID, "main")
	req.NoError(err)
	req.Len(messages, 50)
}
