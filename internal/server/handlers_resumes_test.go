package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/enrich"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

func createResume(t *testing.T, ts *testServer, token, name string, document any) {
	t.Helper()
	body := map[string]any{"name": name}
	if document != nil {
		body["document"] = document
	}
	w := ts.do(t, http.MethodPost, "/resumes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHandleCreateResume(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")

	w := ts.do(t, http.MethodPost, "/resumes", token, map[string]any{
		"name": "base",
		"document": map[string]any{
			"summary":    "Engineer",
			"experience": []any{map[string]any{"company": "Acme", "present": true}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec map[string]any
	decodeBody(t, w, &rec)
	assert.Equal(t, "base", rec["name"])
	assert.Equal(t, "Engineer", rec["summary"])
	exp := rec["experience"].([]any)[0].(map[string]any)
	assert.Equal(t, resume.PresentLabel, exp["end"])

	t.Run("conflict", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/resumes", token, map[string]any{"name": "base"})
		assert.Equal(t, http.StatusConflict, w.Code)
		var resp map[string]string
		decodeBody(t, w, &resp)
		assert.Equal(t, "name_conflict", resp["error"])
	})

	t.Run("invalid name", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/resumes", token, map[string]any{"name": "a b"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]string
		decodeBody(t, w, &resp)
		assert.Equal(t, "validation_error", resp["error"])
		assert.Contains(t, resp["message"], "name")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/resumes", token, "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleListResumes_ScopedToIdentity(t *testing.T) {
	ts := newTestServer(t, nil)
	alice := ts.token(t, "alice")
	bob := ts.token(t, "bob")

	createResume(t, ts, alice, "first", map[string]any{"summary": "A"})
	createResume(t, ts, alice, "second", nil)
	createResume(t, ts, bob, "other", nil)

	w := ts.do(t, http.MethodGet, "/resumes", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var records []map[string]any
	decodeBody(t, w, &records)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0]["name"])
	assert.Equal(t, "A", records[0]["summary"])
	assert.Equal(t, "second", records[1]["name"])

	w = ts.do(t, http.MethodGet, "/resumes/other", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListResumes_Empty(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/resumes", ts.token(t, "alice"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleSaveResume_ReplacesDocument(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{"summary": "old", "skills": "Go"})

	w := ts.do(t, http.MethodPut, "/resumes/base", token, map[string]any{"summary": "new", "name": "ignored"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/resumes/base", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name": "base", "summary": "new"}`, w.Body.String())

	t.Run("creates when absent", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/resumes/fresh", token, map[string]any{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/resumes/fresh", token, nil).Code)
	})

	t.Run("invalid name", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/resumes/no", token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleDeleteResume_Idempotent(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", nil)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/resumes/base", token, nil).Code)
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/resumes/base", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/resumes/base", token, nil).Code)
}

func TestHandleDuplicateResume(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{"summary": "S"})

	w := ts.do(t, http.MethodPost, "/resumes/base/duplicate", token, types.DuplicateRequest{NewName: "copy"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.DuplicateResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Copied)

	w = ts.do(t, http.MethodGet, "/resumes/copy", token, nil)
	assert.JSONEq(t, `{"name": "copy", "summary": "S"}`, w.Body.String())

	w = ts.do(t, http.MethodPost, "/resumes/base/duplicate", token, types.DuplicateRequest{NewName: "copy"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/resumes/missing/duplicate", token, types.DuplicateRequest{NewName: "other"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.False(t, resp.Copied)

	w = ts.do(t, http.MethodPost, "/resumes/base/duplicate", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEntries(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{
		"experience": []any{map[string]any{"company": "A"}},
	})

	w := ts.do(t, http.MethodPost, "/resumes/base/sections/experience/entries", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry types.EntryResponse
	decodeBody(t, w, &entry)
	assert.Equal(t, 1, entry.Index)

	w = ts.do(t, http.MethodPatch, "/resumes/base/sections/experience/entries/1", token,
		types.SetFieldRequest{Field: "company", Value: "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec := getRecord(t, ts, "base")
	require.Len(t, rec.Document.Experience, 2)
	assert.Equal(t, "B", rec.Document.Experience[1].Company)

	w = ts.do(t, http.MethodDelete, "/resumes/base/sections/experience/entries/0", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec = getRecord(t, ts, "base")
	require.Len(t, rec.Document.Experience, 1)
	assert.Equal(t, "B", rec.Document.Experience[0].Company)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown section", http.MethodPost, "/resumes/base/sections/hobbies/entries", nil, http.StatusBadRequest, "unknown_section"},
		{"single-entry section", http.MethodPost, "/resumes/base/sections/summary/entries", nil, http.StatusBadRequest, "unknown_section"},
		{"index out of range", http.MethodDelete, "/resumes/base/sections/experience/entries/5", nil, http.StatusBadRequest, "index_out_of_range"},
		{"non-numeric index", http.MethodDelete, "/resumes/base/sections/experience/entries/x", nil, http.StatusBadRequest, "validation_error"},
		{"unknown field", http.MethodPatch, "/resumes/base/sections/experience/entries/0", types.SetFieldRequest{Field: "salary", Value: "1"}, http.StatusBadRequest, "unknown_field"},
		{"missing record", http.MethodPost, "/resumes/nothing/sections/experience/entries", nil, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.status, w.Code)
			var resp map[string]string
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.code, resp["error"])
		})
	}

	rec = getRecord(t, ts, "base")
	assert.Len(t, rec.Document.Experience, 1, "failed mutations write nothing")
}

func getRecord(t *testing.T, ts *testServer, name string) *resume.Record {
	t.Helper()
	rec, err := ts.resumes.Get(context.Background(), "alice", name)
	require.NoError(t, err)
	return rec
}

func TestHandleAdapt(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{"summary": "original"})

	candidate := "tailored"
	ts.enricher.candidate = &resume.Document{Summary: &candidate}

	w := ts.do(t, http.MethodPost, "/resumes/base/adapt", token, types.AdaptRequest{JobDescription: "Go developer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]map[string]any
	decodeBody(t, w, &resp)
	assert.Equal(t, "tailored", resp["candidate"]["summary"])
	assert.Equal(t, "Go developer", ts.enricher.gotJD)
	assert.Equal(t, "test-key", ts.enricher.gotKey)

	rec := getRecord(t, ts, "base")
	assert.Equal(t, "original", *rec.Document.Summary, "adapt never stores its candidate")

	t.Run("missing job description", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/resumes/base/adapt", token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleEnhance(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", nil)

	ts.enricher.candidate = &resume.Document{}
	ts.enricher.feedback = "Quantify results"

	w := ts.do(t, http.MethodPost, "/resumes/base/enhance", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	decodeBody(t, w, &resp)
	assert.Equal(t, "Quantify results", resp["feedback"])
}

func TestHandleEnrichment_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no credential", enrich.ErrNoCredential, http.StatusServiceUnavailable, "enrichment_not_configured"},
		{"no json", &enrich.Error{Kind: enrich.KindNoJSONFound, Message: "no object"}, http.StatusBadGateway, "enrichment_no_json_found"},
		{"timeout", &enrich.Error{Kind: enrich.KindTransport, Message: "deadline", Timeout: true}, http.StatusGatewayTimeout, "enrichment_transport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			token := ts.token(t, "alice")
			createResume(t, ts, token, "base", nil)
			ts.enricher.err = tt.err

			w := ts.do(t, http.MethodPost, "/resumes/base/enhance", token, nil)
			assert.Equal(t, tt.status, w.Code)
			var resp map[string]string
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.code, resp["error"])
			assert.NotEmpty(t, resp["message"])
		})
	}
}

func TestHandleExportPDF(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{"summary": "S"})

	w := ts.do(t, http.MethodGet, "/resumes/base/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="base.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())
	require.NotNil(t, ts.exporter.got)
	assert.Equal(t, "S", *ts.exporter.got.Summary)

	w = ts.do(t, http.MethodGet, "/resumes/missing/pdf", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSetText(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", nil)

	w := ts.do(t, http.MethodPut, "/resumes/base/sections/summary", token, types.TextRequest{Value: "Builder of things"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Builder of things", *getRecord(t, ts, "base").Document.Summary)

	w = ts.do(t, http.MethodPut, "/resumes/base/sections/experience", token, types.TextRequest{Value: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleBullets(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "alice")
	createResume(t, ts, token, "base", map[string]any{
		"projects": []any{map[string]any{"title": "CLI", "bullets": []any{"first"}}},
	})

	w := ts.do(t, http.MethodPost, "/resumes/base/sections/projects/entries/0/bullets", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry types.EntryResponse
	decodeBody(t, w, &entry)
	assert.Equal(t, 1, entry.Index)

	w = ts.do(t, http.MethodPut, "/resumes/base/sections/projects/entries/0/bullets/1", token, types.TextRequest{Value: "second"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, resume.Bullets{"first", "second"}, getRecord(t, ts, "base").Document.Projects[0].Bullets)

	w = ts.do(t, http.MethodDelete, "/resumes/base/sections/projects/entries/0/bullets/0", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, resume.Bullets{"second"}, getRecord(t, ts, "base").Document.Projects[0].Bullets)

	w = ts.do(t, http.MethodDelete, "/resumes/base/sections/projects/entries/0/bullets/4", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/resumes/base/sections/education/entries/0/bullets", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
