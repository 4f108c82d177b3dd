package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/resumes"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

type rowKey struct{ owner, name string }

// memResumes is an in-memory resumes.Store
type memResumes struct {
	mu   sync.Mutex
	rows map[rowKey]resumes.Row
}

func newMemResumes() *memResumes {
	return &memResumes{rows: make(map[rowKey]resumes.Row)}
}

func (m *memResumes) UpsertResume(_ context.Context, owner, name string, document []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[rowKey{owner, name}]
	if !ok {
		row = resumes.Row{ID: uuid.New(), Owner: owner, Name: name, CreatedAt: time.Now()}
	}
	row.Document = document
	row.UpdatedAt = time.Now()
	m.rows[rowKey{owner, name}] = row
	return nil
}

func (m *memResumes) InsertResume(ctx context.Context, owner, name string, document []byte) error {
	m.mu.Lock()
	_, exists := m.rows[rowKey{owner, name}]
	m.mu.Unlock()
	if exists {
		return &resume.NameConflictError{Owner: owner, Name: name}
	}
	return m.UpsertResume(ctx, owner, name, document)
}

func (m *memResumes) GetResume(_ context.Context, owner, name string) (*resumes.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[rowKey{owner, name}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memResumes) ListResumes(_ context.Context, owner string) ([]resumes.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []resumes.Row
	for k, row := range m.rows {
		if k.owner == owner {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memResumes) DeleteResume(_ context.Context, owner, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, rowKey{owner, name})
	return nil
}

func (m *memResumes) DuplicateResume(_ context.Context, owner, oldName, newName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.rows[rowKey{owner, oldName}]
	if !ok {
		return false, nil
	}
	if _, exists := m.rows[rowKey{owner, newName}]; exists {
		return false, &resume.NameConflictError{Owner: owner, Name: newName}
	}
	m.rows[rowKey{owner, newName}] = resumes.Row{ID: uuid.New(), Owner: owner, Name: newName, Document: src.Document}
	return true, nil
}

// memUsers is an in-memory UserStore
type memUsers struct {
	mu    sync.Mutex
	users map[string]*types.User
	err   error
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*types.User)}
}

func (m *memUsers) CreateUser(_ context.Context, username, passwordHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.users[username]; ok {
		return false, nil
	}
	m.users[username] = &types.User{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return true, nil
}

func (m *memUsers) GetUser(_ context.Context, username string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.users[username], nil
}

type fakeEnricher struct {
	candidate *resume.Document
	feedback  string
	err       error
	gotJD     string
	gotKey    string
	calls     int
}

func (f *fakeEnricher) Adapt(_ context.Context, _ *resume.Document, jobDescription, credential string) (*resume.Document, error) {
	f.calls++
	f.gotJD = jobDescription
	f.gotKey = credential
	return f.candidate, f.err
}

func (f *fakeEnricher) Enhance(_ context.Context, _ *resume.Document, credential string) (*resume.Document, string, error) {
	f.calls++
	f.gotKey = credential
	return f.candidate, f.feedback, f.err
}

type fakeExporter struct {
	pdf []byte
	err error
	got *resume.Document
}

func (f *fakeExporter) ExportPDF(_ context.Context, doc *resume.Document) ([]byte, error) {
	f.got = doc
	return f.pdf, f.err
}

type testServer struct {
	*Server
	store    *memResumes
	users    *memUsers
	enricher *fakeEnricher
	exporter *fakeExporter
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *testServer {
	t.Helper()
	ts := &testServer{
		store:    newMemResumes(),
		users:    newMemUsers(),
		enricher: &fakeEnricher{},
		exporter: &fakeExporter{pdf: []byte("%PDF-1.4 test")},
	}
	ts.Server = New(Deps{
		Resumes:  resumes.NewService(ts.store),
		Users:    ts.users,
		Password: &config.PasswordConfig{BcryptCost: 4},
		JWT:      &config.JWTConfig{Secret: testSecret, ExpirationHours: 1},
		Enricher: ts.enricher,
		Exporter: ts.exporter,
		Limiter:  limiter,
		LLMKey:   "test-key",
	})
	if limiter != nil {
		t.Cleanup(limiter.Stop)
	}
	return ts
}

// token issues a session token for username without going through the API
func (ts *testServer) token(t *testing.T, username string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateToken(username)
	require.NoError(t, err)
	return token
}

// do sends a request through the full router
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestResumeRoutes_RequireAuth(t *testing.T) {
	ts := newTestServer(t, nil)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/resumes"},
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/base"},
		{http.MethodGet, "/resumes/base/pdf"},
		{http.MethodPost, "/resumes/base/adapt"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := ts.do(t, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	w := ts.do(t, http.MethodGet, "/resumes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorResponse_HidesInternalDetails(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.exporter.err = assert.AnError

	token := ts.token(t, "alice")
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/resumes", token, map[string]any{"name": "base"}).Code)

	w := ts.do(t, http.MethodGet, "/resumes/base/pdf", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "internal_error", resp["error"])
	assert.Equal(t, "internal server error", resp["message"])
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestCorruptStoredResume_IsInternalError(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.store.rows[rowKey{"alice", "broken"}] = resumes.Row{Owner: "alice", Name: "broken", Document: []byte(`[1, 2]`)}

	w := ts.do(t, http.MethodGet, "/resumes/broken", ts.token(t, "alice"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "internal_error", resp["error"])
}

func TestEnrichmentRoutes_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.EnrichmentConfig(true, 2, time.Hour, 2))
	ts := newTestServer(t, limiter)
	ts.enricher.candidate = &resume.Document{}

	alice := ts.token(t, "alice")
	bob := ts.token(t, "bob")
	for _, tok := range []string{alice, bob} {
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/resumes", tok, map[string]any{"name": "base"}).Code)
	}

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, "/resumes/base/enhance", alice, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}
	w := ts.do(t, http.MethodPost, "/resumes/base/enhance", alice, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Other identities and other routes are unaffected
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/resumes/base/enhance", bob, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/resumes/base", alice, nil).Code)
	assert.Equal(t, 3, ts.enricher.calls)
}
