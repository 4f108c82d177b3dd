package types

import (
	"encoding/json"

	"github.com/jonathan/resume-builder/internal/resume"
)

// CreateResumeRequest is the body of POST /resumes
type CreateResumeRequest struct {
	Name     string          `json:"name" validate:"required,resumename"`
	Document json.RawMessage `json:"document"`
}

// DuplicateRequest is the body of POST /resumes/{name}/duplicate
type DuplicateRequest struct {
	NewName string `json:"new_name" validate:"required,resumename"`
}

// SetFieldRequest is the body of PATCH .../entries/{index}
type SetFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// TextRequest is the body of the summary, skills and bullet text updates
type TextRequest struct {
	Value string `json:"value"`
}

// AdaptRequest is the body of POST /resumes/{name}/adapt
type AdaptRequest struct {
	JobDescription string `json:"job_description" validate:"required,max=20000"`
}

// EntryResponse reports the index of an added entry
type EntryResponse struct {
	Index int `json:"index"`
}

// EnrichmentResponse carries a candidate document. It is never stored by the
// endpoint that returns it.
type EnrichmentResponse struct {
	Candidate *resume.Document `json:"candidate"`
	Feedback  string           `json:"feedback,omitempty"`
}

// DuplicateResponse reports whether a record was copied
type DuplicateResponse struct {
	Copied bool `json:"copied"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DuplicateRequest using the validator.
func (r *DuplicateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetFieldRequest using the validator.
func (r *SetFieldRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AdaptRequest using the validator.
func (r *AdaptRequest) Validate() error {
	return validate.Struct(r)
}
