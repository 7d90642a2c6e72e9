package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Request errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidCapacity  = fmt.Errorf("%w: capacity must be at least 1", ErrInvalidRequest)
	ErrInvalidSessionID = fmt.Errorf("%w: malformed session id", ErrInvalidRequest)
	ErrEmptyGuess       = fmt.Errorf("%w: guess must not be empty", ErrInvalidRequest)

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrCapacityExceeded = errors.New("session is full")
	ErrNotPlayerTurn    = errors.New("not this player's turn")
	ErrSessionOver      = fmt.Errorf("%w: session is over", ErrNotPlayerTurn)

	// Scoring errors
	ErrVectorLengthMismatch = errors.New("vector lengths do not match")

	// Internal errors
	ErrInternal          = errors.New("internal failure")
	ErrEmbeddingFailed   = fmt.Errorf("%w: embedding provider failed", ErrInternal)
	ErrTargetNotEmbedded = fmt.Errorf("%w: target embedding not computed", ErrInternal)

	// Word list errors
	ErrWordListEmpty = errors.New("word list is empty")

	// Cache errors
	ErrEmbeddingNotCached = errors.New("embedding not cached")
)

// ErrorKind is the closed set of failure classes surfaced by the game engine
type ErrorKind string

const (
	KindInvalidRequest   ErrorKind = "invalid_request"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindNotFound         ErrorKind = "not_found"
	KindCapacityExceeded ErrorKind = "capacity_exceeded"
	KindTurnViolation    ErrorKind = "turn_violation"
	KindInputError       ErrorKind = "input_error"
	KindInternalFailure  ErrorKind = "internal_failure"
)

// KindOf classifies an error. Errors marked internal, and unrecognised
// errors, are internal failures.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInternal):
		return KindInternalFailure
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrSessionNotFound):
		return KindNotFound
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrNotPlayerTurn):
		return KindTurnViolation
	case errors.Is(err, ErrVectorLengthMismatch):
		return KindInputError
	default:
		return KindInternalFailure
	}
}

// IsClientError reports whether the caller can correct the failure
func (k ErrorKind) IsClientError() bool {
	switch k {
	case KindInvalidRequest, KindUnauthorized, KindNotFound, KindCapacityExceeded, KindTurnViolation:
		return true
	default:
		return false
	}
}
