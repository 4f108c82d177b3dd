package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/resumes"
)

// UpsertResume inserts a resume or replaces the document of an existing one
func (s *Store) UpsertResume(ctx context.Context, owner, name string, document []byte) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, owner, name, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner, name) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		uuid.New(), owner, name, string(document), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume %s: %w", name, err)
	}
	return nil
}

// InsertResume inserts a new resume and reports a name conflict when it exists
func (s *Store) InsertResume(ctx context.Context, owner, name string, document []byte) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, owner, name, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New(), owner, name, string(document), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &resume.NameConflictError{Owner: owner, Name: name}
		}
		return fmt.Errorf("failed to insert resume %s: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (resumes.Row, error) {
	var row resumes.Row
	var document string
	err := sc.Scan(&row.ID, &row.Owner, &row.Name, &document, &row.CreatedAt, &row.UpdatedAt)
	row.Document = []byte(document)
	return row, err
}

// GetResume retrieves one resume, or nil when it does not exist
func (s *Store) GetResume(ctx context.Context, owner, name string) (*resumes.Row, error) {
	row, err := scanRow(s.db.QueryRowContext(ctx,
		`SELECT id, owner, name, document, created_at, updated_at
		 FROM resumes WHERE owner = ? AND name = ?`,
		owner, name,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume %s: %w", name, err)
	}
	return &row, nil
}

// ListResumes returns every resume of owner ordered by name
func (s *Store) ListResumes(ctx context.Context, owner string) ([]resumes.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, document, created_at, updated_at
		 FROM resumes WHERE owner = ? ORDER BY name`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []resumes.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
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
func (s *Store) DeleteResume(ctx context.Context, owner, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE owner = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("failed to delete resume %s: %w", name, err)
	}
	return nil
}

// DuplicateResume copies oldName to newName in a single INSERT ... SELECT
func (s *Store) DuplicateResume(ctx context.Context, owner, oldName, newName string) (bool, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, owner, name, document, created_at, updated_at)
		 SELECT ?, owner, ?, document, ?, ? FROM resumes WHERE owner = ? AND name = ?`,
		uuid.New(), newName, now, now, owner, oldName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &resume.NameConflictError{Owner: owner, Name: newName}
		}
		return false, fmt.Errorf("failed to duplicate resume %s: %w", oldName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
