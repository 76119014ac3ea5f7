// Package report derives a read-only summary document from a charette
// snapshot: message statistics, heuristic themes and phase-driven
// recommendations. Nothing here is persisted.
package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"

	"charette-lab/contract"
	"charette-lab/domain"
)

// themeThreshold is the share of messages a term must exceed (strictly)
// to qualify as a theme.
const themeThreshold = 0.1

var nextSteps = []string{
	"Review and validate findings",
	"Develop implementation plan",
	"Assign responsibilities",
	"Schedule follow-up sessions",
}

type Synthesizer struct {
	store contract.IStore
	vocab *VocabularyScanner
	log   *slog.Logger
}

func NewSynthesizer(store contract.IStore, vocab *VocabularyScanner, log *slog.Logger) *Synthesizer {
	return &Synthesizer{store: store, vocab: vocab, log: log}
}

// Generate recomputes the report from the current snapshot of the session
// and its messages. Every call reads fresh state; callers own any caching.
func (s *Synthesizer) Generate(sessionID string) (domain.Report, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return domain.Report{}, err
	}
	messages, err := s.store.ListMessages(sessionID, "")
	if err != nil {
		return domain.Report{}, err
	}

	authors := lo.Uniq(lo.Map(messages, func(m domain.Message, _ int) string { return m.UserName }))

	return domain.Report{
		CharetteID:  session.ID,
		Title:       session.Title,
		GeneratedAt: time.Now().UTC(),
		Phases:      session.Phases,
		FinalPhase:  session.CurrentPhase,
		Summary: domain.ReportSummary{
			TotalMessages:      len(messages),
			TotalParticipants:  len(authors),
			TotalBreakoutRooms: len(session.BreakoutRooms),
			DominantLanguage:   dominantLanguage(messages),
			AnalysisResults:    session.Analysis,
		},
		BreakoutRooms:   session.BreakoutRooms,
		KeyFindings:     s.keyFindings(messages),
		Recommendations: recommendations(session.CurrentPhase),
		NextSteps:       append([]string(nil), nextSteps...),
	}, nil
}

// keyFindings counts, per vocabulary term, how many messages contain it.
// Terms contained in strictly more than 10% of all messages become theme
// items. Zero messages means zero themes, never a division.
func (s *Synthesizer) keyFindings(messages []domain.Message) []domain.Finding {
	if len(messages) == 0 {
		return []domain.Finding{}
	}

	counts := make(map[string]int, len(s.vocab.Terms()))
	for _, m := range messages {
		for _, term := range s.vocab.Scan(m.Text) {
			counts[term]++
		}
	}

	var themes []string
	minimum := themeThreshold * float64(len(messages))
	for _, term := range s.vocab.Terms() {
		if count := counts[term]; float64(count) > minimum {
			themes = append(themes, fmt.Sprintf("%s (%d mentions)", term, count))
		}
	}

	if len(themes) == 0 {
		return []domain.Finding{}
	}
	return []domain.Finding{{
		Category: "Emerging Themes",
		Items:    themes,
		Impact:   "Medium",
	}}
}

// recommendations is purely a function of the phase index, not content.
func recommendations(phase int) []domain.Recommendation {
	var out []domain.Recommendation
	if phase >= 2 {
		out = append(out, domain.Recommendation{
			Priority:  "High",
			Action:    "Address identified constraints",
			Rationale: "Constraints analysis revealed critical blockers",
		})
	}
	if phase >= 3 {
		out = append(out, domain.Recommendation{
			Priority:  "High",
			Action:    "Implement top-ranked solutions",
			Rationale: "Ideation phase generated actionable solutions",
		})
	}
	return out
}

func dominantLanguage(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	info := whatlanggo.Detect(b.String())
	return info.Lang.Iso6391()
}
