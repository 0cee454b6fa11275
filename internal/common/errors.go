// Package common defines shared sentinel errors used across the service and
// HTTP layers of Memorize. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Request validation errors (missing or malformed required fields).
	ErrValidation = errors.New("validation error")

	// Collaborator failures, one per external dependency.
	ErrSynthesis = errors.New("synthesis error")
	ErrStorage   = errors.New("storage error")
	ErrMetadata  = errors.New("metadata error")

	// Generic internal error for everything else.
	ErrorInternal = errors.New("internal error")
)
