package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/resumes"
)

// UpsertResume inserts a resume or replaces the document of an existing one.
// The record id and created_at survive the replace.
func (db *DB) UpsertResume(ctx context.Context, owner, name string, document []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, owner, name, document)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, name) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		uuid.New(), owner, name, document,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume %s: %w", name, err)
	}
	return nil
}

// InsertResume inserts a new resume and reports a name conflict when it exists
func (db *DB) InsertResume(ctx context.Context, owner, name string, document []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, owner, name, document) VALUES ($1, $2, $3, $4)`,
		uuid.New(), owner, name, document,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &resume.NameConflictError{Owner: owner, Name: name}
		}
		return fmt.Errorf("failed to insert resume %s: %w", name, err)
	}
	return nil
}

// GetResume retrieves one resume, or nil when it does not exist
func (db *DB) GetResume(ctx context.Context, owner, name string) (*resumes.Row, error) {
	var row resumes.Row
	err := db.pool.QueryRow(ctx,
		`SELECT id, owner, name, document, created_at, updated_at
		 FROM resumes WHERE owner = $1 AND name = $2`,
		owner, name,
	).Scan(&row.ID, &row.Owner, &row.Name, &row.Document, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume %s: %w", name, err)
	}
	return &row, nil
}

// ListResumes returns every resume of owner ordered by name
func (db *DB) ListResumes(ctx context.Context, owner string) ([]resumes.Row, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, owner, name, document, created_at, updated_at
		 FROM resumes WHERE owner = $1 ORDER BY name`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []resumes.Row
	for rows.Next() {
		var row resumes.Row
		if err := rows.Scan(&row.ID, &row.Owner, &row.Name, &row.Document, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return out, nil
}

// DeleteResume removes a resume; deleting a missing one is not an error
func (db *DB) DeleteResume(ctx context.Context, owner, name string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE owner = $1 AND name = $2`, owner, name)
	if err != nil {
		return fmt.Errorf("failed to delete resume %s: %w", name, err)
	}
	return nil
}

// DuplicateResume copies oldName to newName in a single INSERT ... SELECT so the
// unique constraint decides conflicts.
func (db *DB) DuplicateResume(ctx context.Context, owner, oldName, newName string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, owner, name, document)
		 SELECT $1, owner, $2, document FROM resumes WHERE owner = $3 AND name = $4`,
		uuid.New(), newName, owner, oldName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &resume.NameConflictError{Owner: owner, Name: newName}
		}
		return false, fmt.Errorf("failed to duplicate resume %s: %w", oldName, err)
	}
	return tag.RowsAffected() == 1, nil
}
