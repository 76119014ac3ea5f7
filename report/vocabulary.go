package report

import (
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	apperrors "charette-lab/errors"
)

// DefaultVocabulary is the fixed theme vocabulary. Matching is plain
// substring containment, not tokenized word-boundary matching.
var DefaultVocabulary = []string{"project", "team", "time", "resources", "process", "system"}

// VocabularyScanner finds vocabulary terms inside message bodies with a
// single Aho-Corasick pass per message instead of one scan per term.
type VocabularyScanner struct {
	matcher *goahocorasick.Machine
	terms   []string
}

// NewVocabularyScanner builds the automaton once; terms are matched
// case-insensitively.
func NewVocabularyScanner(terms []string) (*VocabularyScanner, error) {
	if len(terms) == 0 {
		return nil, apperrors.ErrEmptyVocabulary
	}
	patterns := make([][]rune, len(terms))
	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
		patterns[i] = []rune(lowered[i])
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &VocabularyScanner{matcher: m, terms: lowered}, nil
}

// Scan returns the distinct vocabulary terms contained in text.
func (s *VocabularyScanner) Scan(text string) []string {
	spans := s.matcher.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	if len(spans) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(spans))
	var found []string
	for _, span := range spans {
		term := string(span.Word)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		found = append(found, term)
	}
	return found
}

// Terms returns the scanner vocabulary in its fixed order.
func (s *VocabularyScanner) Terms() []string {
	return s.terms
}
