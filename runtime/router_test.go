package runtime

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"charette-lab/domain/event"
	"charette-lab/store"
)

// recordSink keeps every consumed event for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordSink) Consume(e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func newRouterUnderTest(t *testing.T) (*Router, *store.SessionStore) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sessions := store.NewSessionStore(log)
	return NewRouter(log, sessions, NewRegistry(), 16), sessions
}

func TestRouter_PostMessage_Plenary_ReachesAllSubscribers(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")

	annSink := &recordSink{}
	howardSink := &recordSink{}
	router.Subscribe(uuid.NewString(), session.ID, annSink)
	router.Subscribe(uuid.NewString(), session.ID, howardSink)

	// When a plenary message is posted
	msg, err := router.PostMessage(session.ID, "main", "hello everyone", "Ann", "")
	req.NoError(err)
	req.Equal("hello everyone", msg.Text)

	// Then both session subscribers received it
	req.Len(annSink.Events(), 1)
	req.Len(howardSink.Events(), 1)

	posted, ok := annSink.Events()[0].(event.MessagePosted)
	req.True(ok)
	req.Equal(msg.ID, posted.Message.ID)
}

func TestRouter_PostMessage_BreakoutRoom_StaysInRoom(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")
	_, err := sessions.ReplaceRooms(session.ID, 2, nil)
	req.NoError(err)

	insiderConn := uuid.NewString()
	insider := &recordSink{}
	outsider := &recordSink{}
	router.Subscribe(insiderConn, session.ID, insider)
	router.Subscribe(uuid.NewString(), session.ID, outsider)
	router.JoinBreakoutRoom(insiderConn, session.ID, "room-1", "Ann")

	insiderBefore := len(insider.Events())
	outsiderBefore := len(outsider.Events())

	// When a message is posted inside room-1
	_, err = router.PostMessage(session.ID, "room-1", "just for us", "Ann", "")
	req.NoError(err)

	// Then only the room member received it
	req.Len(insider.Events(), insiderBefore+1)
	req.Len(outsider.Events(), outsiderBefore)
}

func TestRouter_JoinBreakoutRoom_BroadcastsRoomUpdate(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")
	_, err := sessions.ReplaceRooms(session.ID, 1, nil)
	req.NoError(err)

	watcher := &recordSink{}
	router.Subscribe(uuid.NewString(), session.ID, watcher)

	// When someone joins a room
	router.JoinBreakoutRoom(uuid.NewString(), session.ID, "room-1", "Ann")

	// Then every session subscriber sees the updated membership
	events := watcher.Events()
	req.Len(events, 1)
	updated, ok := events[0].(event.RoomUpdated)
	req.True(ok)
	req.Equal([]string{"Ann"}, updated.Updated.Participants)
}

func TestRouter_JoinBreakoutRoom_Twice_RebroadcastsUnchangedRoom(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")
	_, err := sessions.ReplaceRooms(session.ID, 1, nil)
	req.NoError(err)

	watcher := &recordSink{}
	router.Subscribe(uuid.NewString(), session.ID, watcher)

	connID := uuid.NewString()
	router.JoinBreakoutRoom(connID, session.ID, "room-1", "Ann")
	router.JoinBreakoutRoom(connID, session.ID, "room-1", "Ann")

	// Both joins announce the room, membership never duplicates
	events := watcher.Events()
	req.Len(events, 2)
	second, ok := events[1].(event.RoomUpdated)
	req.True(ok)
	req.Equal([]string{"Ann"}, second.Updated.Participants)
}

func TestRouter_LeaveBreakoutRoom_StopsRoomDelivery(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")
	_, err := sessions.ReplaceRooms(session.ID, 1, nil)
	req.NoError(err)

	connID := uuid.NewString()
	sink := &recordSink{}
	router.Subscribe(connID, session.ID, sink)
	router.JoinBreakoutRoom(connID, session.ID, "room-1", "Ann")

	// When the member leaves the room
	router.LeaveBreakoutRoom(connID, session.ID, "room-1", "Ann")
	before := len(sink.Events())

	// Then later room chatter no longer reaches it
	_, err = router.PostMessage(session.ID, "room-1", "without Ann", "Howard", "")
	req.NoError(err)
	req.Len(sink.Events(), before)
}

func TestRouter_CreateBreakoutRooms_SessionWideAnnouncement(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")

	watcher := &recordSink{}
	router.Subscribe(uuid.NewString(), session.ID, watcher)

	router.CreateBreakoutRooms(session.ID, 3, []string{"What blocks us?"})

	events := watcher.Events()
	req.Len(events, 1)
	created, ok := events[0].(event.BreakoutRoomsCreated)
	req.True(ok)
	req.Len(created.Rooms, 3)
}

func TestRouter_CreateBreakoutRooms_UnknownSession_NoPanicNoEvent(t *testing.T) {
	req := require.New(t)
	router, _ := newRouterUnderTest(t)

	// A stale client naming a dead charette is silently ignored
	router.CreateBreakoutRooms("nope", 3, nil)

	select {
	case evt := <-router.Events():
		req.Fail("unexpected event", "%+v", evt)
	default:
	}
}

func TestRouter_AdvancePhase_BroadcastsClampedIndex(t *testing.T) {
	req := require.New(t)
	router, sessions := newRouterUnderTest(t)
	session := sessions.CreateSession("Durham session", "")

	watcher := &recordSink{}
	router.Subscribe(uuid.NewString(), session.ID, watcher)

	last := len(session.Phases) - 1
	for i := 0; i < last+3; i++ {
		router.AdvancePhase(session.ID)
	}

	// Every advance is announced, even the ones past the end
	events := watcher.Events()
	req.Len(events, last+3)
	final, ok := events[len(events)-1].(event.PhaseChanged)
	req.True(ok)
	req.Equal(last, final.Index)
}

func TestRouter_Publish_FullPipeline_DropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sessions := store.NewSessionStore(log)
	router := NewRouter(log, sessions, NewRegistry(), 1)
	session := sessions.CreateSession("Durham session", "")

	// The pipeline holds one event; the second send must not block
	_, err := router.PostMessage(session.ID, "main", "first", "Ann", "")
	req.NoError(err)
	_, err = router.PostMessage(session.ID, "main", "second", "Ann", "")
	req.NoError(err)

	req.Len(router.Events(), 1)
}
