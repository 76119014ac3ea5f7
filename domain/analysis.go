package domain

import "time"

const (
	AnalysisConstraint  = "constraint"
	AnalysisAssumption  = "assumption"
	AnalysisOpportunity = "opportunity"
)

// AnalysisEntry is a structured insight produced by the analysis workflow
// outside this core and attached to a session. Append-only.
type AnalysisEntry struct {
	Type       string
	Content    string
	Keywords   []string
	Confidence float64
	CreatedAt  time.Time
}
