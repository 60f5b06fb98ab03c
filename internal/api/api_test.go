package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/nodeenv"
	"github.com/jmgilman/nodeenv/cache"
	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/internal/logging"
	"github.com/jmgilman/nodeenv/manager"
	"github.com/jmgilman/nodeenv/project"
	"github.com/jmgilman/nodeenv/version"
)

type fakeEngine struct {
	managers    []manager.Descriptor
	current     string
	configs     map[string]project.Config
	invalidated []string
	cleared     bool
	clearedNS   []string
	panicOnPlan bool
}

func (f *fakeEngine) DetectAllManagers(context.Context) []manager.Descriptor { return f.managers }

func (f *fakeEngine) GetPreferredManager(context.Context) (manager.Descriptor, bool) {
	return manager.Preferred(f.managers)
}

func (f *fakeEngine) IsManagerAvailable(_ context.Context, t manager.Type) bool {
	for _, m := range f.managers {
		if m.Type == t {
			return m.Available
		}
	}
	return false
}

func (f *fakeEngine) CurrentVersion(context.Context) string { return f.current }

func (f *fakeEngine) GetProjectVersionConfig(_ context.Context, root string) (project.Config, bool) {
	cfg, ok := f.configs[root]
	return cfg, ok
}

func (f *fakeEngine) HasConfigFiles(_ context.Context, root string) bool {
	_, ok := f.configs[root]
	return ok
}

func (f *fakeEngine) Invalidate(root string) { f.invalidated = append(f.invalidated, root) }

func (f *fakeEngine) MatchVersion(_ context.Context, current, required string) version.Result {
	return version.Match(current, required)
}

func (f *fakeEngine) Plan(_ context.Context, root string) nodeenv.Plan {
	if f.panicOnPlan {
		panic("boom")
	}
	return nodeenv.Plan{Root: root}
}

func (f *fakeEngine) Clear() { f.cleared = true }

func (f *fakeEngine) ClearNamespace(name string) error {
	if _, err := cache.ParseNamespace(name); err != nil {
		return err
	}
	f.clearedNS = append(f.clearedNS, name)
	return nil
}

func (f *fakeEngine) Stats() cache.Stats { return cache.Stats{TotalEntries: 3, Hits: 2} }

func (f *fakeEngine) Cleanup(context.Context) int { return 4 }

func newTestEngine() *fakeEngine {
	return &fakeEngine{
		managers: []manager.Descriptor{
			{Type: manager.TypeNVM, Available: true, Version: "0.39.7"},
		},
		current: "v20.11.0",
		configs: map[string]project.Config{
			"/repo": {Version: "20.11.0", Source: project.SourceNVMRC},
		},
	}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_Managers(t *testing.T) {
	h := NewRouter(newTestEngine(), logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/managers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var list managersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Managers, 1)
	assert.Equal(t, manager.TypeNVM, list.Managers[0].Type)

	rec = do(t, h, http.MethodGet, "/managers/preferred")
	require.Equal(t, http.StatusOK, rec.Code)
	var preferred manager.Descriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preferred))
	assert.Equal(t, "0.39.7", preferred.Version)

	rec = do(t, h, http.MethodGet, "/managers/fnm")
	require.Equal(t, http.StatusOK, rec.Code)
	var avail availabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avail))
	assert.Equal(t, manager.TypeFNM, avail.Type)
	assert.False(t, avail.Available)
}

func TestRouter_ManagersErrors(t *testing.T) {
	engine := newTestEngine()
	engine.managers = nil
	h := NewRouter(engine, logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/managers/preferred")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.CodeNotFound), decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/managers/volta")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.CodeInvalidInput), decodeError(t, rec).Code)
}

func TestRouter_Current(t *testing.T) {
	engine := newTestEngine()
	h := NewRouter(engine, logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/current")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"v20.11.0"}`, rec.Body.String())

	engine.current = ""
	rec = do(t, h, http.MethodGet, "/current")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Project(t *testing.T) {
	engine := newTestEngine()
	h := NewRouter(engine, logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/project?root=/repo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"20.11.0","source":".nvmrc"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/project?root=/empty")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "/empty", resp.Context["root"])

	rec = do(t, h, http.MethodGet, "/project")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "root", decodeError(t, rec).Context["param"])

	rec = do(t, h, http.MethodGet, "/project/has-config?root=/repo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"root":"/repo","hasConfig":true}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/project?root=/repo")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"/repo"}, engine.invalidated)
}

func TestRouter_Match(t *testing.T) {
	h := NewRouter(newTestEngine(), logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/match?current=v20.11.0&required=%5E20.0.0")
	require.Equal(t, http.StatusOK, rec.Code)
	var res version.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Matches)

	rec = do(t, h, http.MethodGet, "/match?current=v20.11.0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", decodeError(t, rec).Context["param"])
}

func TestRouter_Cache(t *testing.T) {
	engine := newTestEngine()
	h := NewRouter(engine, logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalEntries)

	rec = do(t, h, http.MethodPost, "/cache/cleanup")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":4}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/cache/managers")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"managers"}, engine.clearedNS)

	rec = do(t, h, http.MethodDelete, "/cache/bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/cache")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, engine.cleared)
}

func TestRouter_PanicAndNotFound(t *testing.T) {
	engine := newTestEngine()
	engine.panicOnPlan = true
	h := NewRouter(engine, logging.NewNopLogger())

	rec := do(t, h, http.MethodGet, "/plan?root=/repo")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(errors.CodeInternal), decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", newTestEngine(), logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
