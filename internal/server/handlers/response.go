// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"socialpulse/internal/domain/pulse"
)

// respondWithJSON writes payload as a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes {"error": message}
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		slog.Error("HTTP error", "code", code, "message", message, "error", err)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithPipelineError maps a pipeline error onto its HTTP status
func respondWithPipelineError(w http.ResponseWriter, err error) {
	respondWithError(w, statusFor(err), err.Error(), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pulse.ErrEmptyResult), errors.Is(err, pulse.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pulse.ErrValidation), errors.Is(err, pulse.ErrUnknownSource):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// intParam reads an integer query parameter, falling back to def when absent
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", name, raw, pulse.ErrValidation)
	}
	return v, nil
}

// channelParam reads the channel, accepting "subreddit" as an alias
func channelParam(r *http.Request) string {
	q := r.URL.Query()
	if c := q.Get("channel"); c != "" {
		return c
	}
	return q.Get("subreddit")
}
