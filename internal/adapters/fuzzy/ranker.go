package fuzzy

import "helpbot/internal/ports"

// Ranker implements ports.Ranker
type Ranker struct {
	MinScore       float64
	GramSizeLower  int
	GramSizeUpper  int
	UseLevenshtein bool
}

// Ensure Ranker implements ports.Ranker
var _ ports.Ranker = (*Ranker)(nil)

// NewRanker creates a Ranker with the default thresholds
func NewRanker() *Ranker {
	return &Ranker{
		MinScore:       DefaultMinScore,
		GramSizeLower:  DefaultGramSizeLower,
		GramSizeUpper:  DefaultGramSizeUpper,
		UseLevenshtein: true,
	}
}

// NewSet indexes candidates for repeated queries
func (r *Ranker) NewSet(candidates []string) *Set {
	s := newSet(r)
	for _, c := range candidates {
		s.Add(c)
	}
	return s
}

// Rank scores candidates against query
func (r *Ranker) Rank(query string, candidates []string) []ports.Ranked {
	if len(candidates) == 0 {
		return nil
	}
	return r.NewSet(candidates).Get(query)
}
