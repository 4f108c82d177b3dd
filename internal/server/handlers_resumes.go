package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// decodeJSON decodes the request body into v, writing a 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeError(w, r, &resume.ValidationError{Field: "body", Message: "invalid JSON", Cause: err})
		return false
	}
	return true
}

// validationError turns validator output into a resume.ValidationError
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := "failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &resume.ValidationError{Field: fe.Field(), Message: msg}
	}
	return &resume.ValidationError{Field: "body", Message: "invalid request", Cause: err}
}

func identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, err := middleware.GetIdentity(r)
	if err != nil {
		jsonResponse(w, r, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return "", false
	}
	return owner, true
}

func sectionParam(r *http.Request, op string) (resume.Section, error) {
	key := chi.URLParam(r, "section")
	section, ok := resume.ParseSection(key)
	if !ok {
		return "", &resume.UnknownSectionError{Section: key, Op: op}
	}
	return section, nil
}

func intParam(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &resume.ValidationError{Field: key, Message: fmt.Sprintf("not an integer: %q", raw)}
	}
	return n, nil
}

// mutate applies fn to the caller's named record. On failure the error
// response is already written and the second result is false.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*resume.Document) error) (*resume.Record, bool) {
	owner, ok := identity(w, r)
	if !ok {
		return nil, false
	}
	rec, err := s.resumes.Update(r.Context(), owner, chi.URLParam(r, "name"), fn)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return rec, true
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	records, err := s.resumes.LoadAll(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, records)
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	var req types.CreateResumeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	doc := &resume.Document{}
	if len(req.Document) > 0 && string(req.Document) != "null" {
		var err error
		if doc, err = resume.NormalizeJSON(req.Document); err != nil {
			writeError(w, r, err)
			return
		}
	}

	saved, err := s.resumes.Create(r.Context(), owner, req.Name, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusCreated, resume.Record{Owner: owner, Name: req.Name, Document: saved})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	rec, err := s.resumes.Get(r.Context(), owner, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, rec)
}

func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, &resume.ValidationError{Field: "body", Message: "unreadable body", Cause: err})
		return
	}
	doc, err := resume.NormalizeJSON(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	saved, err := s.resumes.Save(r.Context(), owner, name, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, resume.Record{Owner: owner, Name: name, Document: saved})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	if err := s.resumes.Delete(r.Context(), owner, chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	var req types.DuplicateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	copied, err := s.resumes.Duplicate(r.Context(), owner, chi.URLParam(r, "name"), req.NewName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if copied {
		status = http.StatusCreated
	}
	jsonResponse(w, r, status, types.DuplicateResponse{Copied: copied})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	section, err := sectionParam(r, "add_entry")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var index int
	_, ok := s.mutate(w, r, func(d *resume.Document) error {
		var err error
		index, err = resume.AddEntry(d, section)
		return err
	})
	if ok {
		jsonResponse(w, r, http.StatusCreated, types.EntryResponse{Index: index})
	}
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	section, err := sectionParam(r, "remove_entry")
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rec, ok := s.mutate(w, r, func(d *resume.Document) error {
		return resume.RemoveEntry(d, section, index)
	}); ok {
		jsonResponse(w, r, http.StatusOK, rec)
	}
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	section, err := sectionParam(r, "set_field")
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.SetFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	if rec, ok := s.mutate(w, r, func(d *resume.Document) error {
		return resume.SetField(d, section, index, req.Field, req.Value)
	}); ok {
		jsonResponse(w, r, http.StatusOK, rec)
	}
}

// handleSetText replaces the summary or skills text
func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	section, err := sectionParam(r, "set_text")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if rec, ok := s.mutate(w, r, func(d *resume.Document) error {
		return resume.SetText(d, section, req.Value)
	}); ok {
		jsonResponse(w, r, http.StatusOK, rec)
	}
}

func (s *Server) handleAddBullet(w http.ResponseWriter, r *http.Request) {
	section, err := sectionParam(r, "add_bullet")
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var bullet int
	_, ok := s.mutate(w, r, func(d *resume.Document) error {
		var err error
		bullet, err = resume.AddBullet(d, section, index)
		return err
	})
	if ok {
		jsonResponse(w, r, http.StatusCreated, types.EntryResponse{Index: bullet})
	}
}

func (s *Server) handleSetBullet(w http.ResponseWriter, r *http.Request) {
	section, index, bullet, err := bulletParams(r, "set_bullet")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if rec, ok := s.mutate(w, r, func(d *resume.Document) error {
		return resume.SetBullet(d, section, index, bullet, req.Value)
	}); ok {
		jsonResponse(w, r, http.StatusOK, rec)
	}
}

func (s *Server) handleRemoveBullet(w http.ResponseWriter, r *http.Request) {
	section, index, bullet, err := bulletParams(r, "remove_bullet")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rec, ok := s.mutate(w, r, func(d *resume.Document) error {
		return resume.RemoveBullet(d, section, index, bullet)
	}); ok {
		jsonResponse(w, r, http.StatusOK, rec)
	}
}

func bulletParams(r *http.Request, op string) (resume.Section, int, int, error) {
	section, err := sectionParam(r, op)
	if err != nil {
		return "", 0, 0, err
	}
	index, err := intParam(r, "index")
	if err != nil {
		return "", 0, 0, err
	}
	bullet, err := intParam(r, "bullet")
	if err != nil {
		return "", 0, 0, err
	}
	return section, index, bullet, nil
}

// handleAdapt returns a candidate document tailored to a job description.
// The stored record is not modified.
func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	var req types.AdaptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	rec, err := s.resumes.Get(r.Context(), owner, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	candidate, err := s.enricher.Adapt(r.Context(), rec.Document, req.JobDescription, s.llmKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, types.EnrichmentResponse{Candidate: candidate})
}

// handleEnhance returns an improved candidate document and the provider's feedback.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	rec, err := s.resumes.Get(r.Context(), owner, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	candidate, feedback, err := s.enricher.Enhance(r.Context(), rec.Document, s.llmKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, types.EnrichmentResponse{Candidate: candidate, Feedback: feedback})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	rec, err := s.resumes.Get(r.Context(), owner, name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdf, err := s.exporter.ExportPDF(r.Context(), rec.Document)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		loggerFrom(r).Warn("failed to write pdf", zap.Error(err))
	}
}
