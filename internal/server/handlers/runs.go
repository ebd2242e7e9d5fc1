// internal/server/handlers/runs.go

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialpulse/internal/adapter/storage"
)

// RunReader reads archived runs
type RunReader interface {
	GetRun(ctx context.Context, id string) (*storage.RunRecord, error)
}

// RunHandler serves the run archive
type RunHandler struct {
	runs RunReader
}

// NewRunHandler creates a new run handler. runs may be nil when the archive is
// disabled.
func NewRunHandler(runs RunReader) *RunHandler {
	return &RunHandler{
		runs: runs,
	}
}

// GetRun returns an archived run by ID
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Run archive is disabled", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing run ID", nil)
		return
	}

	run, err := h.runs.GetRun(r.Context(), id)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, run)
}
