package domain

import (
	"errors"
	"maps"
	"slices"
	"time"
)

// CategoryList is a List with its ordinary cards embedded, as published in a Snapshot
type CategoryList struct {
	List
	Cards []Card
}

// Snapshot is an immutable, fully built view of the knowledge base.
// Readers must treat every slice as read-only.
type Snapshot struct {
	Lists   []CategoryList // in store order, ignored categories excluded
	Cards   []Card         // flattened ordinary cards, in store order
	Topics  []Card         // cards promoted by the keyword topic list
	Skipped int            // cards whose list is unknown
	BuiltAt time.Time
}

// EmptySnapshot is published before the first rebuild completes
var EmptySnapshot = &Snapshot{}

// ListByName finds a category by name, case-insensitively
func (s *Snapshot) ListByName(name string) (CategoryList, bool) {
	for _, l := range s.Lists {
		if SameName(l.Name, name) {
			return l, true
		}
	}
	return CategoryList{}, false
}

// NonEmptyLists returns the categories with at least one card
func (s *Snapshot) NonEmptyLists() []CategoryList {
	var out []CategoryList
	for _, l := range s.Lists {
		if len(l.Cards) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// TopicByName finds a topic whose question equals name, case-insensitively
func (s *Snapshot) TopicByName(name string) (Card, bool) {
	for _, t := range s.Topics {
		if SameName(t.Question, name) {
			return t, true
		}
	}
	return Card{}, false
}

// CardByShortID finds an ordinary card or topic by its short id
func (s *Snapshot) CardByShortID(shortID string) (Card, bool) {
	for _, c := range s.Cards {
		if c.ShortID == shortID {
			return c, true
		}
	}
	for _, c := range s.Topics {
		if c.ShortID == shortID {
			return c, true
		}
	}
	return Card{}, false
}

// CardByQuestion returns the first card in flat order whose question is exactly q
func (s *Snapshot) CardByQuestion(q string) (Card, bool) {
	for _, c := range s.Cards {
		if c.Question == q {
			return c, true
		}
	}
	return Card{}, false
}

// Questions returns the ranking corpus in flat card order
func (s *Snapshot) Questions() []string {
	out := make([]string, len(s.Cards))
	for i, c := range s.Cards {
		out[i] = c.Question
	}
	return out
}

// ListSyncStats holds statistics from a list reconciliation pass
type ListSyncStats struct {
	Added       int
	Updated     int
	Unchanged   int
	Removed     int
	CardsPurged int
	Ignored     int
	Duration    time.Duration
}

// Writes returns the number of store mutations the pass performed
func (s ListSyncStats) Writes() int {
	return s.Added + s.Updated + s.Removed + s.CardsPurged
}

// CardSyncStats holds statistics from a card reconciliation pass
type CardSyncStats struct {
	Lists      int
	Added      int
	Updated    int
	Unchanged  int
	Removed    int
	Ineligible int
	Failures   map[string]error // keyed by list ID
	Duration   time.Duration
}

// Writes returns the number of store mutations the pass performed
func (s CardSyncStats) Writes() int {
	return s.Added + s.Updated + s.Removed
}

// Err joins the per-list failures, or returns nil when every list synced
func (s CardSyncStats) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Failures))
	for _, id := range slices.Sorted(maps.Keys(s.Failures)) {
		errs = append(errs, s.Failures[id])
	}
	return errors.Join(errs...)
}
