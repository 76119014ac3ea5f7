package httpapi

import (
	"time"

	"github.com/samber/lo"

	"charette-lab/domain"
	"charette-lab/repositories"
)

// Wire DTOs mirror the shapes the original web client consumed, so the
// JSON field names stay camelCase regardless of Go naming.

type CharetteDTO struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	CurrentPhase  int             `json:"currentPhase"`
	CreatedAt     time.Time       `json:"createdAt"`
	Phases        []PhaseDTO      `json:"phases"`
	Participants  []Participant   `json:"participants"`
	BreakoutRooms []BreakoutRoom  `json:"breakoutRooms"`
	Analysis      []AnalysisEntry `json:"analysis"`
}

type PhaseDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ConversationTypes []string `json:"conversationTypes,omitempty"`
	Orchestrators     []string `json:"orchestrators,omitempty"`
	Activities        []string `json:"activities,omitempty"`
}

type Participant struct {
	UserName string    `json:"userName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type BreakoutRoom struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Questions    []string  `json:"questions"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AnalysisEntry struct {
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Keywords   []string  `json:"keywords"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MessageDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserName  string    `json:"userName"`
	Role      string    `json:"role"`
	RoomID    string    `json:"roomId"`
	Timestamp time.Time `json:"timestamp"`
}

type ReportDTO struct {
	CharetteID      string           `json:"charetteId"`
	Title           string           `json:"title"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Phases          []PhaseDTO       `json:"phases"`
	FinalPhase      int              `json:"finalPhase"`
	Summary         ReportSummary    `json:"summary"`
	BreakoutRooms   []BreakoutRoom   `json:"breakoutRooms"`
	KeyFindings     []Finding        `json:"keyFindings"`
	Recommendations []Recommendation `json:"recommendations"`
	NextSteps       []string         `json:"nextSteps"`
}

type ReportSummary struct {
	TotalMessages      int             `json:"totalMessages"`
	TotalParticipants  int             `json:"totalParticipants"`
	TotalBreakoutRooms int             `json:"totalBreakoutRooms"`
	DominantLanguage   string          `json:"dominantLanguage,omitempty"`
	AnalysisResults    []AnalysisEntry `json:"analysisResults"`
}

type Finding struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Impact   string   `json:"impact"`
}

type Recommendation struct {
	Priority  string `json:"priority"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

type SearchHitDTO struct {
	MessageID string    `json:"messageId"`
	Room      string    `json:"roomId"`
	Author    string    `json:"userName"`
	Content   string    `json:"text"`
	At        time.Time `json:"timestamp"`
}

func toCharetteDTO(s domain.Session) CharetteDTO {
	return CharetteDTO{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		CurrentPhase:  s.CurrentPhase,
		CreatedAt:     s.CreatedAt,
		Phases:        lo.Map(s.Phases, func(p domain.Phase, _ int) PhaseDTO { return toPhaseDTO(p) }),
		Participants:  lo.Map(s.Participants, func(p domain.Participant, _ int) Participant { return toParticipantDTO(p) }),
		BreakoutRooms: lo.Map(s.BreakoutRooms, func(r domain.BreakoutRoom, _ int) BreakoutRoom { return toRoomDTO(r) }),
		Analysis:      lo.Map(s.Analysis, func(a domain.AnalysisEntry, _ int) AnalysisEntry { return toAnalysisDTO(a) }),
	}
}

func toPhaseDTO(p domain.Phase) PhaseDTO {
	return PhaseDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		ConversationTypes: p.ConversationTypes,
		Orchestrators:     p.Orchestrators,
		Activities:        p.Activities,
	}
}

func toParticipantDTO(p domain.Participant) Participant {
	return Participant{UserName: p.UserName, Role: p.Role, JoinedAt: p.JoinedAt}
}

func toRoomDTO(r domain.BreakoutRoom) BreakoutRoom {
	return BreakoutRoom{
		ID:           r.ID,
		Name:         r.Name,
		Questions:    r.Questions,
		Participants: r.Participants,
		CreatedAt:    r.CreatedAt,
	}
}

func toAnalysisDTO(a domain.AnalysisEntry) AnalysisEntry {
	return AnalysisEntry{
		Type:       a.Type,
		Content:    a.Content,
		Keywords:   a.Keywords,
		Confidence: a.Confidence,
		CreatedAt:  a.CreatedAt,
	}
}

func toMessageDTO(m domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID.String(),
		Text:      m.Text,
		UserName:  m.UserName,
		Role:      m.Role,
		RoomID:    m.RoomID,
		Timestamp: m.Timestamp,
	}
}

func toReportDTO(r domain.Report) ReportDTO {
	return ReportDTO{
		CharetteID:  r.CharetteID,
		Title:       r.Title,
		GeneratedAt: r.GeneratedAt,
		Phases:      lo.Map(r.Phases, func(p domain.Phase, _ int) PhaseDTO { return toPhaseDTO(p) }),
		FinalPhase:  r.FinalPhase,
		Summary: ReportSummary{
			TotalMessages:      r.Summary.TotalMessages,
			TotalParticipants:  r.Summary.TotalParticipants,
			TotalBreakoutRooms: r.Summary.TotalBreakoutRooms,
			DominantLanguage:   r.Summary.DominantLanguage,
			AnalysisResults:    lo.Map(r.Summary.AnalysisResults, func(a domain.AnalysisEntry, _ int) AnalysisEntry { return toAnalysisDTO(a) }),
		},
		BreakoutRooms:   lo.Map(r.BreakoutRooms, func(br domain.BreakoutRoom, _ int) BreakoutRoom { return toRoomDTO(br) }),
		KeyFindings:     lo.Map(r.KeyFindings, func(f domain.Finding, _ int) Finding { return Finding(f) }),
		Recommendations: lo.Map(r.Recommendations, func(rec domain.Recommendation, _ int) Recommendation { return Recommendation(rec) }),
		NextSteps:       r.NextSteps,
	}
}

func toSearchHitDTO(h repositories.SearchHit) SearchHitDTO {
	return SearchHitDTO{
		MessageID: h.MessageID.String(),
		Room:      h.Room,
		Author:    h.Author,
		Content:   h.Content,
		At:        h.At,
	}
}
