package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/manager"
)

// Handler serves the API endpoints.
type Handler struct {
	engine Engine
}

// NewHandler creates a Handler over engine.
func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

type managersResponse struct {
	Managers []manager.Descriptor `json:"managers"`
}

// GetManagers lists probed managers.
func (h *Handler) GetManagers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, managersResponse{Managers: h.engine.DetectAllManagers(r.Context())})
}

// GetPreferredManager returns the preferred manager or 404.
func (h *Handler) GetPreferredManager(w http.ResponseWriter, r *http.Request) {
	m, ok := h.engine.GetPreferredManager(r.Context())
	if !ok {
		writeError(w, errors.New(errors.CodeNotFound, "no version manager available"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type availabilityResponse struct {
	Type      manager.Type `json:"type"`
	Available bool         `json:"available"`
}

// GetManager reports whether one manager is available.
func (h *Handler) GetManager(w http.ResponseWriter, r *http.Request) {
	t, err := manager.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		Type:      t,
		Available: h.engine.IsManagerAvailable(r.Context(), t),
	})
}

type currentResponse struct {
	Version string `json:"version"`
}

// GetCurrent returns the active Node version or 404.
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	v := h.engine.CurrentVersion(r.Context())
	if v == "" {
		writeError(w, errors.New(errors.CodeNotFound, "no active node version"))
		return
	}
	writeJSON(w, http.StatusOK, currentResponse{Version: v})
}

func requireRoot(r *http.Request) (string, error) {
	root := r.URL.Query().Get("root")
	if root == "" {
		return "", invalidInput("query parameter root is required", "root")
	}
	return root, nil
}

// GetProject returns the project's version requirement or 404.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	root, err := requireRoot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, ok := h.engine.GetProjectVersionConfig(r.Context(), root)
	if !ok {
		writeError(w, errors.WithContext(
			errors.New(errors.CodeNotFound, "no version requirement found"), "root", root))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type hasConfigResponse struct {
	Root      string `json:"root"`
	HasConfig bool   `json:"hasConfig"`
}

// GetHasConfig reports whether root has any configuration file.
func (h *Handler) GetHasConfig(w http.ResponseWriter, r *http.Request) {
	root, err := requireRoot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hasConfigResponse{
		Root:      root,
		HasConfig: h.engine.HasConfigFiles(r.Context(), root),
	})
}

// DeleteProject drops cached configuration for root.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	root, err := requireRoot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.engine.Invalidate(root)
	w.WriteHeader(http.StatusNoContent)
}

// GetMatch compares the current and required query parameters.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	current, required := q.Get("current"), q.Get("required")
	if current == "" {
		writeError(w, invalidInput("query parameter current is required", "current"))
		return
	}
	if required == "" {
		writeError(w, invalidInput("query parameter required is required", "required"))
		return
	}
	writeJSON(w, http.StatusOK, h.engine.MatchVersion(r.Context(), current, required))
}

// GetPlan returns the switch plan for root.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	root, err := requireRoot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Plan(r.Context(), root))
}

// GetCacheStats returns cache diagnostics.
func (h *Handler) GetCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Stats())
}

type cleanupResponse struct {
	Removed int `json:"removed"`
}

// PostCacheCleanup sweeps expired entries.
func (h *Handler) PostCacheCleanup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cleanupResponse{Removed: h.engine.Cleanup(r.Context())})
}

// DeleteCache empties the cache.
func (h *Handler) DeleteCache(w http.ResponseWriter, _ *http.Request) {
	h.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCacheNamespace empties one namespace.
func (h *Handler) DeleteCacheNamespace(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearNamespace(chi.URLParam(r, "namespace")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Healthz always reports ok.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
