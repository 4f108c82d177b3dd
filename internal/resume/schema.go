package resume

import (
	_ "embed"
	"errors"

	"github.com/jonathan/resume-builder/internal/schemas"
)

//go:embed document.schema.json
var documentSchemaJSON string

var documentSchema = schemas.MustCompile("document.schema.json", documentSchemaJSON)

// CheckSchema validates a normalized document against the embedded document schema.
// Violations are reported as a ValidationError on the "document" field.
func CheckSchema(d *Document) error {
	err := documentSchema.Validate(d)
	if err == nil {
		return nil
	}
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		return &ValidationError{Field: "document", Message: verr.Summary(), Cause: err}
	}
	return &ValidationError{Field: "document", Message: "schema check failed", Cause: err}
}

// Prepare normalizes a document through its JSON form and checks it against the
// schema. It is the single entry point used before every save.
func Prepare(d *Document) (*Document, error) {
	if d == nil {
		d = &Document{}
	}
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, &ValidationError{Field: "document", Message: "cannot encode", Cause: err}
	}
	normalized, err := NormalizeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := CheckSchema(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
