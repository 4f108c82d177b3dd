package resume

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a named resume document owned by one identity.
// The ID is assigned at first insert and survives overwrites.
type Record struct {
	ID        uuid.UUID
	Owner     string
	Name      string
	Document  *Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Flat returns the record as one object: the document's sections plus "name".
func (r *Record) Flat() map[string]any {
	var out map[string]any
	if r.Document != nil {
		out = r.Document.fields()
	} else {
		out = make(map[string]any, 1)
	}
	out[ReservedNameKey] = r.Name
	return out
}

// MarshalJSON writes the flat record view
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Flat())
}

// UnmarshalJSON reads a flat record view. The name key is taken as the record
// name and the rest is normalized into the document.
func (r *Record) UnmarshalJSON(data []byte) error {
	var head struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("failed to decode record name: %w", err)
	}
	doc, err := NormalizeJSON(data)
	if err != nil {
		return err
	}
	if head.Name != nil {
		r.Name = *head.Name
	}
	r.Document = doc
	return nil
}
