// Package resumes implements the resume record store contract on top of a pluggable Store.
package resumes

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Row is a stored resume record with its document still encoded as JSON
type Row struct {
	ID        uuid.UUID
	Owner     string
	Name      string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists resume rows. Implementations must enforce uniqueness of
// (owner, name) and report violations as *resume.NameConflictError.
type Store interface {
	// UpsertResume inserts the row or replaces the document of an existing one
	UpsertResume(ctx context.Context, owner, name string, document []byte) error
	// InsertResume inserts a new row only
	InsertResume(ctx context.Context, owner, name string, document []byte) error
	// GetResume returns nil, nil when the row does not exist
	GetResume(ctx context.Context, owner, name string) (*Row, error)
	ListResumes(ctx context.Context, owner string) ([]Row, error)
	DeleteResume(ctx context.Context, owner, name string) error
	// DuplicateResume copies oldName to newName in one statement and reports
	// whether a row was copied.
	DuplicateResume(ctx context.Context, owner, oldName, newName string) (bool, error)
}
