// internal/server/handlers/analysis.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/service/pipeline"
)

// Query defaults
const (
	DefaultFetchLimit  = 10
	DefaultHorizonDays = 7
)

// RunIDHeader carries the id of the run a response belongs to
const RunIDHeader = "X-Run-ID"

// AnalysisHandler serves the analytical views
type AnalysisHandler struct {
	pipeline *pipeline.Pipeline
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(p *pipeline.Pipeline) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: p,
	}
}

// Home reports that the server is running
func (h *AnalysisHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Social pulse server is running!"})
}

// Analyze classifies the sentiment of the posted text
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	label, err := h.pipeline.Analyze(withRunID(w, r), req.Text)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]pulse.SentimentLabel{"sentiment": label})
}

// FetchPosts returns one page of posts with sentiment and cluster ids
func (h *AnalysisHandler) FetchPosts(w http.ResponseWriter, r *http.Request) {
	req, err := classifyRequest(r)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	page, err := h.pipeline.Classify(withRunID(w, r), req)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// PredictTrends returns the forecast for the requested horizon
func (h *AnalysisHandler) PredictTrends(w http.ResponseWriter, r *http.Request) {
	req, err := trendRequest(r)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	points, err := h.pipeline.PredictTrends(withRunID(w, r), req)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, points)
}

// TopEntities returns the most mentioned entities of a channel
func (h *AnalysisHandler) TopEntities(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", pipeline.EntityFetchLimit)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	ranked, err := h.pipeline.TopEntities(withRunID(w, r), pipeline.EntitiesRequest{
		Source:  r.URL.Query().Get("source"),
		Channel: channelParam(r),
		Limit:   limit,
	})
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]pulse.EntityCount{"top_entities": ranked})
}

func classifyRequest(r *http.Request) (pipeline.ClassifyRequest, error) {
	limit, err := intParam(r, "limit", DefaultFetchLimit)
	if err != nil {
		return pipeline.ClassifyRequest{}, err
	}
	q := r.URL.Query()
	return pipeline.ClassifyRequest{
		Source:  q.Get("source"),
		Channel: channelParam(r),
		Limit:   limit,
		Cursor:  q.Get("cursor"),
	}, nil
}

func trendRequest(r *http.Request) (pipeline.TrendRequest, error) {
	horizon, err := intParam(r, "horizon_days", DefaultHorizonDays)
	if err != nil {
		return pipeline.TrendRequest{}, err
	}
	q := r.URL.Query()
	return pipeline.TrendRequest{
		Source:  q.Get("source"),
		Channel: channelParam(r),
		Horizon: horizon,
		Metric:  q.Get("metric"),
	}, nil
}

// withRunID assigns the request a run id and echoes it in the response
func withRunID(w http.ResponseWriter, r *http.Request) context.Context {
	id := uuid.New().String()
	w.Header().Set(RunIDHeader, id)
	return pipeline.WithRunID(r.Context(), id)
}
