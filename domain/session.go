// Package domain contains core concepts of the charette system.
// A Session (charette) owns its phases, participants, breakout rooms
// and analysis entries. No runtime, network, or UI logic should be
// added here.
package domain

import (
	"fmt"
	"time"
)

type Session struct {
	ID            string
	Title         string
	Description   string
	CurrentPhase  int
	CreatedAt     time.Time
	Phases        []Phase
	Participants  []Participant
	BreakoutRooms []BreakoutRoom
	Analysis      []AnalysisEntry
}

type Participant struct {
	UserName string
	Role     string
	JoinedAt time.Time
}

type BreakoutRoom struct {
	ID           string
	Name         string
	Questions    []string
	Participants []string
	CreatedAt    time.Time
}

const DefaultRoomQuestion = "Discuss the topic"

func NewSession(id, title, description string, at time.Time) *Session {
	return &Session{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   at,
		Phases:      DefaultPhases(),
	}
}

// UpsertParticipant inserts or replaces a participant by user name.
// Re-joining with the same name takes over the previous role and join time.
func (s *Session) UpsertParticipant(userName, role string, at time.Time) Participant {
	if role == "" {
		role = RoleParticipant
	}
	p := Participant{UserName: userName, Role: role, JoinedAt: at}
	for i := range s.Participants {
		if s.Participants[i].UserName == userName {
			s.Participants[i] = p
			return p
		}
	}
	s.Participants = append(s.Participants, p)
	return p
}

// ReplaceRooms discards every existing breakout room and creates count new ones,
// named sequentially and all seeded with the same question list.
func (s *Session) ReplaceRooms(count int, questions []string, at time.Time) []BreakoutRoom {
	if len(questions) == 0 {
		questions = []string{DefaultRoomQuestion}
	}
	rooms := make([]BreakoutRoom, 0, count)
	for i := 1; i <= count; i++ {
		rooms = append(rooms, BreakoutRoom{
			ID:        fmt.Sprintf("room-%d", i),
			Name:      fmt.Sprintf("Breakout Room %d", i),
			Questions: append([]string(nil), questions...),
			CreatedAt: at,
		})
	}
	s.BreakoutRooms = rooms
	return rooms
}

func (s *Session) Room(roomID string) *BreakoutRoom {
	for i := range s.BreakoutRooms {
		if s.BreakoutRooms[i].ID == roomID {
			return &s.BreakoutRooms[i]
		}
	}
	return nil
}

// AdvancePhase moves the session to the next phase. The index is clamped
// to the last phase: advancing past the end keeps the session there.
func (s *Session) AdvancePhase() int {
	if s.CurrentPhase < len(s.Phases)-1 {
		s.CurrentPhase++
	}
	return s.CurrentPhase
}

func (s *Session) AddAnalysis(entry AnalysisEntry) AnalysisEntry {
	s.Analysis = append(s.Analysis, entry)
	return entry
}

// Clone returns an independent copy safe to hand out beyond the session lock.
func (s *Session) Clone() Session {
	out := *s
	out.Phases = append([]Phase(nil), s.Phases...)
	out.Participants = append([]Participant(nil), s.Participants...)
	out.Analysis = append([]AnalysisEntry(nil), s.Analysis...)
	out.BreakoutRooms = make([]BreakoutRoom, len(s.BreakoutRooms))
	for i, r := range s.BreakoutRooms {
		out.BreakoutRooms[i] = r.Clone()
	}
	return out
}

func (r BreakoutRoom) Clone() BreakoutRoom {
	out := r
	out.Questions = append([]string(nil), r.Questions...)
	out.Participants = append([]string(nil), r.Participants...)
	return out
}

// Join adds userName to the room membership. Returns false when the name
// was already listed (set semantics, the list never grows with duplicates).
func (r *BreakoutRoom) Join(userName string) bool {
	for _, p := range r.Participants {
		if p == userName {
			return false
		}
	}
	r.Participants = append(r.Participants, userName)
	return true
}

func (r *BreakoutRoom) Leave(userName string) {
	kept := r.Participants[:0]
	for _, p := range r.Participants {
		if p != userName {
			kept = append(kept, p)
		}
	}
	r.Participants = kept
}
