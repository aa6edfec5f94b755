package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ReplyKind tells the chat connector how to present a Reply
type ReplyKind int

const (
	// ReplyText is a plain chat message
	ReplyText ReplyKind = iota
	// ReplyAnswer is an answer card that accepts vote reactions
	ReplyAnswer
	// ReplyListing is a titled list of lines
	ReplyListing
	// ReplyPost is an answer card without vote reactions (topics)
	ReplyPost
)

// Reply is the structured payload handed to the chat connector
type Reply struct {
	Kind      ReplyKind
	Notices   []string // sent before the main reply
	Intro     string   // short line addressed to the asker
	Title     string
	Body      string
	Lines     []string
	URL       string
	Footer    string
	Reactions []string // reactions the connector adds to the delivered message
	CardID    string
}

var footerShortIDPattern = regexp.MustCompile(`\(([^)]+)\)`)

// AnswerFooter renders the vote prompt carrying the card's short id
func AnswerFooter(shortID string) string {
	return fmt.Sprintf("Was this answer helpful? %s %s (%s)", ThumbsUp, ThumbsDown, shortID)
}

// ShortIDFromFooter recovers the short id embedded by AnswerFooter
func ShortIDFromFooter(footer string) (string, bool) {
	m := footerShortIDPattern.FindStringSubmatch(footer)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// String renders the reply as plain text for terminals and tool output
func (r Reply) String() string {
	var b strings.Builder
	for _, n := range r.Notices {
		b.WriteString(n)
		b.WriteString("\n")
	}
	if r.Intro != "" {
		b.WriteString(r.Intro)
		b.WriteString("\n")
	}
	if r.Title != "" {
		b.WriteString(r.Title)
		b.WriteString("\n")
	}
	if r.Body != "" {
		b.WriteString(r.Body)
		b.WriteString("\n")
	}
	for _, l := range r.Lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	if r.URL != "" {
		b.WriteString(r.URL)
		b.WriteString("\n")
	}
	if r.Footer != "" {
		b.WriteString(r.Footer)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
