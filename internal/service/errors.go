package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound covers both a missing session and an operation
	// against a session the caller may not touch in its current state where
	// the distinction must not leak.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned after lazy expiry flips a session past
	// its end time to expired/time_expired.
	ErrSessionExpired = errors.New("session has expired")

	// ErrSessionBusy means another submission currently holds the
	// per-session guard.
	ErrSessionBusy = errors.New("session is processing another request")

	// ErrCannotResume is the surfaced form of the oracle's missing resume
	// capability.
	ErrCannotResume = errors.New("session cannot be resumed, abandon it and start a new exam")

	// ErrNoMoreQuestionsInSection indicates a sectional block ran out before
	// the configured number of answers were recorded. This is an indexing
	// defect, never expected in correct operation.
	ErrNoMoreQuestionsInSection = errors.New("no more questions in section")
)

// InvalidStateError reports an operation attempted against a session outside
// the required status.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session is not active (status %q)", e.Status)
}

// DuplicateActiveSessionError carries the id of the exam the user must
// finish or abandon first.
type DuplicateActiveSessionError struct {
	SessionID string
}

func (e *DuplicateActiveSessionError) Error() string {
	return fmt.Sprintf("an active exam session already exists: %s", e.SessionID)
}

// OracleUnavailableError wraps a failed call to the remote scoring service.
// Nothing is persisted when it is returned.
type OracleUnavailableError struct {
	Op  string
	Err error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("scoring service unavailable during %s: %v", e.Op, e.Err)
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Err
}
