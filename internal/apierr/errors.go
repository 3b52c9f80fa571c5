// Package apierr defines the error taxonomy shared by the edge components.
// Every failure in the system resolves to exactly one of these kinds so that
// callers can decide between retrying, surfacing a terminal state, or
// treating the condition as "nothing there".
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single offending field in a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every offending field of a structural contract
// violation. It is never partially reported: callers get the full list.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransportError is a non-2xx answer from the backend. A present status code
// is treated as a definitive server answer and is never retried.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// TimeoutError means no response arrived within the gateway bound. Unlike a
// TransportError it carries no server verdict, so the cache may retry it.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %s", e.Op)
}

// ConsistencyError is a terminal draft/identifier mismatch. The booking flow
// cannot recover from it; the user has to start over.
type ConsistencyError struct {
	Want string
	Got  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("booking identifier mismatch: draft %q, query %q", e.Want, e.Got)
}

// ErrStorageUnavailable marks a storage medium that is not accessible in the
// current execution context. It is always absorbed into an absent-value
// answer and never propagated to the user.
var ErrStorageUnavailable = errors.New("storage medium unavailable")

// StatusOf extracts the HTTP status from an error chain, reporting whether
// the error carries one at all.
func StatusOf(err error) (int, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status, true
	}
	return 0, false
}

// IsTimeout reports whether the error chain contains a gateway timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
