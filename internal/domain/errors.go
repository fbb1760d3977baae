package domain

import "errors"

// ErrorKind tags the two user-facing failure categories of address resolution.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindNoResults  ErrorKind = "NO_RESULTS"
)

// Sentinels for errors.Is. The concrete errors returned are *ValidationError
// and *NoResultsError.
var (
	ErrValidation = errors.New(string(KindValidation))
	ErrNoResults  = errors.New(string(KindNoResults))
)

// ValidationError means the provider returned results but none matched the
// address the user typed. Message is meant to be shown to the user.
type ValidationError struct {
	Message string
	// Suggestion is an address the user probably meant, when one is known.
	Suggestion string
}

func (e *ValidationError) Error() string {
	return string(KindValidation) + ": " + e.Message
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NoResultsError means nothing usable came back for the query.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return string(KindNoResults) + ": address not found"
}

// Is makes errors.Is(err, ErrNoResults) succeed.
func (e *NoResultsError) Is(target error) bool {
	return target == ErrNoResults
}

// ErrorKindOf classifies err. Errors that are neither validation nor
// no-results failures (transport, decoding, cancellation) yield KindNone.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNoResults):
		return KindNoResults
	default:
		return KindNone
	}
}

func newValidationError(message, suggestion string) *ValidationError {
	return &ValidationError{Message: message, Suggestion: suggestion}
}
