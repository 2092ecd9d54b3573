package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrChallengeNotFound is returned when a loader has no challenge with the requested ID.
var ErrChallengeNotFound = errors.New("challenge not found")

// ErrEmptyInput is returned by the presentation layer when the user submits a blank string.
// The engine itself accepts empty input.
var ErrEmptyInput = errors.New("please enter a binary string")

// ErrInvalidDefinition wraps definition validation failures.
var ErrInvalidDefinition = errors.New("invalid automaton definition")

// ValidationError represents a single definition check failure.
type ValidationError struct {
	Key    string // Field or element the failure refers to
	Reason string // Human-readable reason for failure
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidDefinition on any aggregate.
func (e *AggregateError) Unwrap() error {
	return ErrInvalidDefinition
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
