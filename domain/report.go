package domain

import "time"

// Report is derived on demand from the current session snapshot.
// It is never stored by the core; callers own any caching.
type Report struct {
	CharetteID      string
	Title           string
	GeneratedAt     time.Time
	Phases          []Phase
	FinalPhase      int
	Summary         ReportSummary
	BreakoutRooms   []BreakoutRoom
	KeyFindings     []Finding
	Recommendations []Recommendation
	NextSteps       []string
}

type ReportSummary struct {
	TotalMessages int
	// TotalParticipants counts distinct message authors, not the registered
	// roster. Participants who never post are not counted.
	TotalParticipants  int
	TotalBreakoutRooms int
	DominantLanguage   string
	AnalysisResults    []AnalysisEntry
}

type Finding struct {
	Category string
	Items    []string
	Impact   string
}

type Recommendation struct {
	Priority  string
	Action    string
	Rationale string
}
