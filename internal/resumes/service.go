package resumes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/resume"
)

// Service provides the resume record operations for one store
type Service struct {
	store Store
}

// NewService creates a new Service over the given store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// storageError passes domain errors through and wraps everything else
func storageError(op string, err error) error {
	var conflict *resume.NameConflictError
	var storage *resume.StorageError
	if errors.As(err, &conflict) || errors.As(err, &storage) {
		return err
	}
	return &resume.StorageError{Op: op, Cause: err}
}

func (s *Service) encode(owner, name string, doc *resume.Document) (*resume.Document, []byte, error) {
	if err := resume.ValidateOwner(owner); err != nil {
		return nil, nil, err
	}
	if err := resume.ValidateName(name); err != nil {
		return nil, nil, err
	}
	normalized, err := resume.Prepare(doc)
	if err != nil {
		return nil, nil, err
	}
	data, err := normalized.MarshalJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return normalized, data, nil
}

// Save upserts a record: an existing (owner, name) has its document replaced wholesale.
// Returns the normalized document that was stored.
func (s *Service) Save(ctx context.Context, owner, name string, doc *resume.Document) (*resume.Document, error) {
	normalized, data, err := s.encode(owner, name, doc)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertResume(ctx, owner, name, data); err != nil {
		return nil, storageError("save", err)
	}
	return normalized, nil
}

// Create inserts a new record and fails with a NameConflictError if the name is taken
func (s *Service) Create(ctx context.Context, owner, name string, doc *resume.Document) (*resume.Document, error) {
	normalized, data, err := s.encode(owner, name, doc)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertResume(ctx, owner, name, data); err != nil {
		return nil, storageError("create", err)
	}
	return normalized, nil
}

// Get returns one record or a NotFoundError
func (s *Service) Get(ctx context.Context, owner, name string) (*resume.Record, error) {
	if err := resume.ValidateOwner(owner); err != nil {
		return nil, err
	}
	row, err := s.store.GetResume(ctx, owner, name)
	if err != nil {
		return nil, storageError("get", err)
	}
	if row == nil {
		return nil, &resume.NotFoundError{Owner: owner, Name: name}
	}
	return decodeRow(row)
}

// LoadAll returns every record of owner. The order is not part of the contract.
func (s *Service) LoadAll(ctx context.Context, owner string) ([]*resume.Record, error) {
	if err := resume.ValidateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.store.ListResumes(ctx, owner)
	if err != nil {
		return nil, storageError("load_all", err)
	}
	records := make([]*resume.Record, 0, len(rows))
	for i := range rows {
		rec, err := decodeRow(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes a record. Deleting an absent name is not an error.
func (s *Service) Delete(ctx context.Context, owner, name string) error {
	if err := resume.ValidateOwner(owner); err != nil {
		return err
	}
	if err := s.store.DeleteResume(ctx, owner, name); err != nil {
		return storageError("delete", err)
	}
	return nil
}

// Duplicate copies the document of oldName under newName.
// It is a no-op when oldName does not exist and fails with a NameConflictError
// when newName already exists.
func (s *Service) Duplicate(ctx context.Context, owner, oldName, newName string) (bool, error) {
	if err := resume.ValidateOwner(owner); err != nil {
		return false, err
	}
	if err := resume.ValidateName(newName); err != nil {
		return false, err
	}
	copied, err := s.store.DuplicateResume(ctx, owner, oldName, newName)
	if err != nil {
		return false, storageError("duplicate", err)
	}
	return copied, nil
}

// Update loads a record, applies fn to a copy of its document and saves the result.
// Nothing is written when fn fails.
func (s *Service) Update(ctx context.Context, owner, name string, fn func(*resume.Document) error) (*resume.Record, error) {
	rec, err := s.Get(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	doc := rec.Document.Clone()
	if err := fn(doc); err != nil {
		return nil, err
	}
	saved, err := s.Save(ctx, owner, name, doc)
	if err != nil {
		return nil, err
	}
	rec.Document = saved
	return rec, nil
}

func decodeRow(row *Row) (*resume.Record, error) {
	doc, err := resume.NormalizeJSON(row.Document)
	if err != nil {
		return nil, &resume.StorageError{Op: "decode " + row.Name, Cause: err}
	}
	return &resume.Record{
		ID:        row.ID,
		Owner:     row.Owner,
		Name:      row.Name,
		Document:  doc,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
