package domain

import (
	"fmt"
	"strings"
)

// VoteDirection is the polarity of a reaction on a delivered answer
type VoteDirection int

const (
	VoteUp VoteDirection = iota
	VoteDown
)

// Reaction markers recognized on delivered answers
const (
	ThumbsUp   = "👍"
	ThumbsDown = "👎"
)

// String returns the string representation of the direction
func (d VoteDirection) String() string {
	switch d {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "unknown"
	}
}

// Emoji returns the reaction marker for the direction
func (d VoteDirection) Emoji() string {
	if d == VoteDown {
		return ThumbsDown
	}
	return ThumbsUp
}

// ParseVoteDirection accepts "up"/"down", "+1"/"-1" and the thumbs markers
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "+1", "+", ThumbsUp, "%f0%9f%91%8d":
		return VoteUp, nil
	case "down", "-1", "-", ThumbsDown, "%f0%9f%91%8e":
		return VoteDown, nil
	default:
		return VoteUp, fmt.Errorf("unsupported vote direction: %q", s)
	}
}

// AddVote increments the counter matching dir by exactly one
func (c *Card) AddVote(dir VoteDirection) {
	if dir == VoteDown {
		c.DownVotes++
		return
	}
	c.UpVotes++
}

// RemoveVote decrements the counter matching dir, never below zero
func (c *Card) RemoveVote(dir VoteDirection) {
	if dir == VoteDown {
		c.DownVotes = max(c.DownVotes-1, 0)
		return
	}
	c.UpVotes = max(c.UpVotes-1, 0)
}
