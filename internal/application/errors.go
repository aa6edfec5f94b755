package application

import (
	"errors"
	"fmt"

	"helpbot/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = domain.ErrNotFound
	ErrSyncFailed    = errors.New("sync failed")
	ErrRunInProgress = errors.New("reconciliation already running")
	ErrNotAuthorized = errors.New("not authorized")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SyncError represents a failed reconciliation phase
type SyncError struct {
	Phase string // "lists", "cards" or "index"
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s sync failed: %v", e.Phase, e.Err)
}

func (e *SyncError) Is(target error) bool {
	return target == ErrSyncFailed
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// VoteError represents a vote that could not be recorded
type VoteError struct {
	CardID    string
	Direction domain.VoteDirection
	Err       error
}

func (e *VoteError) Error() string {
	return fmt.Sprintf("cannot record %s vote on %s: %v", e.Direction, e.CardID, e.Err)
}

func (e *VoteError) Unwrap() error {
	return e.Err
}
