// Package store owns all charette records. It replaces the original
// ambient global maps with one explicit object injected into the router
// and the report synthesizer.
package store

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"charette-lab/domain"
	apperrors "charette-lab/errors"
)

// SessionStore keeps every session in memory. Each session is its own
// lockable unit: concurrent chat posts, room joins and phase advances on
// the same session are serialized, sessions never block each other.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	log     *slog.Logger
}

type entry struct {
	mu      sync.Mutex
	session *domain.Session
	// messages are append-only, grouped by room id.
	messages map[string][]domain.Message
}

func NewSessionStore(log *slog.Logger) *SessionStore {
	return &SessionStore{entries: make(map[string]*entry), log: log}
}

func (s *SessionStore) CreateSession(title, description string) domain.Session {
	session := domain.NewSession(uuid.NewString(), title, description, time.Now().UTC())
	s.mu.Lock()
	s.entries[session.ID] = &entry{
		session:  session,
		messages: make(map[string][]domain.Message),
	}
	s.mu.Unlock()
	s.log.Info("Charette created", "charette_id", session.ID, "title", title)
	return session.Clone()
}

func (s *SessionStore) entryFor(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, apperrors.ErrCharetteNotFound
	}
	return e, nil
}

func (s *SessionStore) GetSession(id string) (domain.Session, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

func (s *SessionStore) ListSessions() []domain.Session {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]domain.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.session.Clone())
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *SessionStore) UpsertParticipant(id, userName, role string) (domain.Participant, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.Participant{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.UpsertParticipant(userName, role, time.Now().UTC()), nil
}

// AppendMessage assigns the id and timestamp here, under the session lock,
// so append order and timestamp order agree within a room.
func (s *SessionStore) AppendMessage(id, roomID, text, userName, role string) (domain.Message, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.Message{}, err
	}
	if roomID == "" {
		roomID = domain.MainRoomID
	}
	if role == "" {
		role = domain.RoleParticipant
	}
	msg := domain.Message{
		ID:        uuid.New(),
		Text:      text,
		UserName:  userName,
		Role:      role,
		RoomID:    roomID,
		Timestamp: time.Now().UTC(),
	}
	e.mu.Lock()
	e.messages[roomID] = append(e.messages[roomID], msg)
	e.mu.Unlock()
	return msg, nil
}

// ListMessages returns one room's messages in append order. With an empty
// roomID it concatenates every room, in lexicographic room-id order and
// append order within a room.
func (s *SessionStore) ListMessages(id, roomID string) ([]domain.Message, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if roomID != "" {
		return append([]domain.Message(nil), e.messages[roomID]...), nil
	}

	roomIDs := make([]string, 0, len(e.messages))
	for rid := range e.messages {
		roomIDs = append(roomIDs, rid)
	}
	sort.Strings(roomIDs)

	var out []domain.Message
	for _, rid := range roomIDs {
		out = append(out, e.messages[rid]...)
	}
	return out, nil
}

func (s *SessionStore) ReplaceRooms(id string, count int, questions []string) ([]domain.BreakoutRoom, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	rooms := e.session.ReplaceRooms(count, questions, time.Now().UTC())
	out := make([]domain.BreakoutRoom, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out, nil
}

// JoinRoom adds userName to the room membership. Already being a member is
// not an error: the unchanged room is returned so callers can re-broadcast.
func (s *SessionStore) JoinRoom(id, roomID, userName string) (domain.BreakoutRoom, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.BreakoutRoom{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.session.Room(roomID)
	if room == nil {
		return domain.BreakoutRoom{}, apperrors.ErrRoomNotFound
	}
	room.Join(userName)
	return room.Clone(), nil
}

func (s *SessionStore) LeaveRoom(id, roomID, userName string) (domain.BreakoutRoom, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.BreakoutRoom{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.session.Room(roomID)
	if room == nil {
		return domain.BreakoutRoom{}, apperrors.ErrRoomNotFound
	}
	room.Leave(userName)
	return room.Clone(), nil
}

func (s *SessionStore) AdvancePhase(id string) (int, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.AdvancePhase(), nil
}

func (s *SessionStore) AddAnalysis(id string, analysis domain.AnalysisEntry) (domain.AnalysisEntry, error) {
	e, err := s.entryFor(id)
	if err != nil {
		return domain.AnalysisEntry{}, err
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.AddAnalysis(analysis), nil
}
