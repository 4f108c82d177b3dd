// Package server provides the HTTP API of the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/enrich"
	"github.com/jonathan/resume-builder/internal/resume"
)

// ErrUsernameTaken indicates the username is already registered
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already registered: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// HTTPStatus returns the HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		storage      *resume.StorageError
		validation   *resume.ValidationError
		outOfRange   *resume.IndexOutOfRangeError
		unknownSec   *resume.UnknownSectionError
		unknownField *resume.UnknownFieldError
		notFound     *resume.NotFoundError
		enrichErr    *enrich.Error
		taken        *ErrUsernameTaken
		invalid      *ErrInvalidCredentials
	)

	// A stored row that no longer decodes is a server fault even when the
	// decode failure itself is a ValidationError.
	switch {
	case errors.As(err, &storage):
		return http.StatusInternalServerError
	case errors.As(err, &validation),
		errors.As(err, &outOfRange),
		errors.As(err, &unknownSec),
		errors.As(err, &unknownField):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrNameConflict), errors.As(err, &taken):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusUnauthorized
	case errors.Is(err, enrich.ErrNoCredential):
		return http.StatusServiceUnavailable
	case errors.As(err, &enrichErr):
		if enrichErr.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable kind written next to the message
func errorCode(err error) string {
	var (
		storage      *resume.StorageError
		validation   *resume.ValidationError
		outOfRange   *resume.IndexOutOfRangeError
		unknownSec   *resume.UnknownSectionError
		unknownField *resume.UnknownFieldError
		notFound     *resume.NotFoundError
		taken        *ErrUsernameTaken
		invalid      *ErrInvalidCredentials
	)

	switch {
	case errors.As(err, &storage):
		return "internal_error"
	case errors.As(err, &validation):
		return "validation_error"
	case errors.As(err, &outOfRange):
		return "index_out_of_range"
	case errors.As(err, &unknownSec):
		return "unknown_section"
	case errors.As(err, &unknownField):
		return "unknown_field"
	case errors.Is(err, resume.ErrNameConflict):
		return "name_conflict"
	case errors.As(err, &taken):
		return "username_taken"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &invalid):
		return "invalid_credentials"
	case errors.Is(err, enrich.ErrNoCredential):
		return "enrichment_not_configured"
	case enrich.IsKind(err, enrich.KindNoJSONFound):
		return "enrichment_no_json_found"
	case enrich.IsKind(err, enrich.KindMalformedJSON):
		return "enrichment_malformed_json"
	case enrich.IsKind(err, enrich.KindTransport):
		return "enrichment_transport"
	default:
		return "internal_error"
	}
}
