// Package resume provides the resume document model: sections, entries, normalization and the record type.
package resume

import (
	"errors"
	"fmt"
)

// ErrNameConflict is matched by NameConflictError via errors.Is
var ErrNameConflict = errors.New("resume name already exists")

// ValidationError represents invalid caller input (bad resume name, missing identity, schema violation)
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NameConflictError is returned when a create-only operation targets an existing name
type NameConflictError struct {
	Owner string
	Name  string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("resume %q already exists for %s", e.Name, e.Owner)
}

// Is reports ErrNameConflict so callers can match without a type assertion.
func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// NotFoundError is returned by single-record lookups
type NotFoundError struct {
	Owner string
	Name  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume %q not found for %s", e.Name, e.Owner)
}

// IndexOutOfRangeError is returned when an entry or bullet position does not exist
type IndexOutOfRangeError struct {
	Section Section
	Index   int
	Length  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for %s (length %d)", e.Index, e.Section, e.Length)
}

// UnknownSectionError is returned when an operation names a section it cannot act on
type UnknownSectionError struct {
	Section string
	Op      string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("section %q does not support %s", e.Section, e.Op)
}

// UnknownFieldError is returned by SetField for a field outside the section's field set
type UnknownFieldError struct {
	Section Section
	Field   string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q in section %s", e.Field, e.Section)
}

// StorageError wraps failures of the persistence layer
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
