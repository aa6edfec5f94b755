package domain

import (
	"slices"
	"strings"
	"time"
)

// DefaultReadyColor is the label color that marks a remote card as ready to publish
const DefaultReadyColor = "green"

// DefaultIgnoreLists are board columns that never become support categories
var DefaultIgnoreLists = []string{"aim", "to be sorted"}

// List represents a support category mirrored from a remote board column
type List struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BoardID      string    `json:"board"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
}

// Card represents a question/answer record mirrored from a remote card.
// UpVotes and DownVotes are owned by the vote ledger.
type Card struct {
	ID           string    `json:"id"`
	ListID       string    `json:"listId"`
	ListLabel    string    `json:"listLabel"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	URL          string    `json:"url"`
	ShortID      string    `json:"shortId"`
	ShortURL     string    `json:"shortUrl"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
	UpVotes      int       `json:"upVotes"`
	DownVotes    int       `json:"downVotes"`
}

// Label is a colored marker attached to a remote card
type Label struct {
	Color string
	Name  string
}

// RemoteList is a board column as reported by the remote source
type RemoteList struct {
	ID      string
	Name    string
	BoardID string
}

// RemoteCard is a card as reported by the remote source
type RemoteCard struct {
	ID        string
	Name      string
	Desc      string
	URL       string
	ShortURL  string
	ShortLink string
	Labels    []Label
}

// HasLabelColor reports whether any label on the card has the given color
func (c RemoteCard) HasLabelColor(color string) bool {
	return slices.ContainsFunc(c.Labels, func(l Label) bool {
		return l.Color == color
	})
}

// FilterReady returns the cards carrying the ready label color, in input order
func FilterReady(cards []RemoteCard, readyColor string) []RemoteCard {
	ready := make([]RemoteCard, 0, len(cards))
	for _, c := range cards {
		if c.HasLabelColor(readyColor) {
			ready = append(ready, c)
		}
	}
	return ready
}

// NewList builds a persisted List from its remote counterpart
func NewList(remote RemoteList, now time.Time) List {
	return List{
		ID:           remote.ID,
		Name:         remote.Name,
		BoardID:      remote.BoardID,
		LastSyncedAt: now,
	}
}

// Refresh overwrites the remote-owned fields of the list, keeping its identity
func (l *List) Refresh(remote RemoteList, now time.Time) {
	l.Name = remote.Name
	l.BoardID = remote.BoardID
	l.LastSyncedAt = now
}

// NewCard builds a persisted Card with zeroed votes from its remote counterpart
func NewCard(remote RemoteCard, list List, now time.Time) Card {
	c := Card{ID: remote.ID}
	c.Refresh(remote, list, now)
	return c
}

// Refresh overwrites the remote-owned fields of the card.
// Vote counters are left untouched.
func (c *Card) Refresh(remote RemoteCard, list List, now time.Time) {
	c.ListID = list.ID
	c.ListLabel = list.Name
	c.Question = remote.Name
	c.Answer = remote.Desc
	c.URL = remote.URL
	c.ShortID = remote.ShortLink
	c.ShortURL = remote.ShortURL
	c.LastSyncedAt = now
}

// IsStale reports whether an entity synced at lastSynced must be re-pulled.
// The cadence boundary is exclusive: an age equal to the cadence is still fresh.
func IsStale(lastSynced, now time.Time, cadence time.Duration) bool {
	return now.Sub(lastSynced) > cadence
}

// NameSet matches names case-insensitively by exact value
type NameSet struct {
	names []string
}

// NewNameSet creates a NameSet from the given names
func NewNameSet(names ...string) NameSet {
	set := NameSet{names: make([]string, 0, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set.names = append(set.names, strings.ToLower(n))
		}
	}
	return set
}

// Contains reports whether name is in the set
func (s NameSet) Contains(name string) bool {
	return slices.Contains(s.names, strings.ToLower(strings.TrimSpace(name)))
}

// FilterLists drops remote lists whose name is in the set
func (s NameSet) FilterLists(lists []RemoteList) []RemoteList {
	kept := make([]RemoteList, 0, len(lists))
	for _, l := range lists {
		if !s.Contains(l.Name) {
			kept = append(kept, l)
		}
	}
	return kept
}

// SameName compares two category or topic names the way users type them
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
