// Package enrich sends resume documents to a text-generation provider and parses
// candidate documents back out of its free-text answer.
package enrich

import (
	"errors"
	"fmt"
)

// ErrNoCredential is returned before any network call when no API key is configured.
// It is a configuration problem, not an enrichment failure.
var ErrNoCredential = errors.New("enrichment API key is not configured")

// Kind classifies an enrichment failure
type Kind string

// Failure kinds
const (
	KindNoJSONFound   Kind = "no_json_found"
	KindMalformedJSON Kind = "malformed_json"
	KindTransport     Kind = "transport"
)

// Error is an enrichment failure. No partial document accompanies it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Timeout bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enrichment failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("enrichment failed (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an enrichment Error of kind k
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
