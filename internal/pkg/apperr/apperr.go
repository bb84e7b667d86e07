// Package apperr defines the error taxonomy shared by the generation and
// publish pipelines. Callers distinguish "your request was bad" from
// "the upstream is unavailable" by kind, not by message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping decisions.
type Kind int

const (
	// KindUnknown is the zero value; errors without a kind map to it.
	KindUnknown Kind = iota
	// KindInvalidInput is missing/malformed caller-supplied data. Never retried.
	KindInvalidInput
	// KindFetch is a network or HTTP failure while fetching a remote page.
	KindFetch
	// KindUnauthorized means the requester has no identity.
	KindUnauthorized
	// KindNotFound covers missing, archived, or not-owned resources.
	// Ownership failures deliberately surface as not-found.
	KindNotFound
	// KindValidation is a payload shape or business-rule violation.
	KindValidation
	// KindConfiguration is a missing process-wide secret or URL. Deployment
	// misconfiguration, not user error.
	KindConfiguration
	// KindBackend is a gateway failure from the ESP or AI provider.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindFetch:
		return "fetch_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindConfiguration:
		return "configuration_error"
	case KindBackend:
		return "backend_error"
	}
	return "unknown"
}

// Error is a kinded error. Backend errors additionally carry the upstream
// HTTP status and response body text.
type Error struct {
	Kind    Kind
	Message string
	Status  int    // upstream HTTP status, backend errors only
	Body    string // upstream response body, backend errors only
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error wrapping an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Backend creates a backend error carrying the upstream status and body.
func Backend(status int, body string) *Error {
	return &Error{
		Kind:    KindBackend,
		Message: fmt.Sprintf("backend returned status %d", status),
		Status:  status,
		Body:    body,
	}
}

// KindOf returns the kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
