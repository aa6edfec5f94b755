package commands

import (
	"strings"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Match is the outcome of resolving an utterance against a snapshot
type Match struct {
	Card  domain.Card
	Topic bool
	Score float64
	Found bool
}

// NoMatch is returned when nothing in the snapshot answers the utterance
var NoMatch = Match{}

// Resolver routes a free-text question to the best matching card
type Resolver struct {
	ranker ports.Ranker
	logger ports.Logger
}

// NewResolver creates a Resolver using ranker for fuzzy lookups
func NewResolver(ranker ports.Ranker, logger ports.Logger) *Resolver {
	return &Resolver{ranker: ranker, logger: logger}
}

// Resolve checks topics by exact name first, then ranks the snapshot's
// questions. When several cards share the winning question the first one in
// flat order (card ID order) wins.
func (r *Resolver) Resolve(snap *domain.Snapshot, utterance string) Match {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return NoMatch
	}

	if topic, ok := snap.TopicByName(utterance); ok {
		return Match{Card: topic, Topic: true, Score: 1, Found: true}
	}

	ranked := r.ranker.Rank(utterance, snap.Questions())
	if len(ranked) == 0 {
		r.logf("component=resolver action=resolve query=%q matches=0", utterance)
		return NoMatch
	}

	best := ranked[0]
	card, ok := snap.CardByQuestion(best.Label)
	if !ok {
		r.logf("component=resolver action=resolve query=%q label=%q error=%q", utterance, best.Label, "label not in snapshot")
		return NoMatch
	}
	r.logf("component=resolver action=resolve query=%q card=%s score=%.2f matches=%d", utterance, card.ID, best.Score, len(ranked))
	return Match{Card: card, Score: best.Score, Found: true}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
