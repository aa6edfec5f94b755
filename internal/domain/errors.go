package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the core and its adapters
var (
	ErrRemoteUnreachable = errors.New("remote unreachable")
	ErrRemoteMalformed   = errors.New("remote response malformed")
	ErrStorageIO         = errors.New("storage i/o failure")
	ErrNotFound          = errors.New("not found")
	ErrAmbiguous         = errors.New("ambiguous match")
)

// RemoteError describes a failed call to the remote source
type RemoteError struct {
	Op     string // e.g. "list cards"
	Status int    // HTTP status when the server answered
	Kind   error  // ErrRemoteUnreachable or ErrRemoteMalformed
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// StorageError describes a failed store operation on a collection
type StorageError struct {
	Op         string
	Collection string
	Key        string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Collection, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageIO
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
