// internal/server/handlers/render.go

package handlers

import (
	"fmt"
	"net/http"

	"socialpulse/internal/adapter/render"
	"socialpulse/internal/service/pipeline"
)

// RenderHandler serves PNG renderings of the pipeline views
type RenderHandler struct {
	pipeline *pipeline.Pipeline
	config   render.Config
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(p *pipeline.Pipeline, config render.Config) *RenderHandler {
	return &RenderHandler{
		pipeline: p,
		config:   config,
	}
}

// TrendChart renders the observed series and its forecast
func (h *RenderHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	req, err := trendRequest(r)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	report, err := h.pipeline.Trend(withRunID(w, r), req)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	title := fmt.Sprintf("%s %s, %d day forecast", req.Channel, report.Metric, req.Horizon)
	img, err := render.TrendChart(h.config, title, report.Series, report.Fitted)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render chart", err)
		return
	}

	respondWithPNG(w, img)
}

// WordCloud renders the heaviest terms of one page of posts
func (h *RenderHandler) WordCloud(w http.ResponseWriter, r *http.Request) {
	req, err := classifyRequest(r)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	terms, err := h.pipeline.Terms(r.Context(), req)
	if err != nil {
		respondWithPipelineError(w, err)
		return
	}

	words := make([]render.Word, len(terms))
	for i, t := range terms {
		words[i] = render.Word{Text: t.Term, Weight: t.Weight}
	}

	img, err := render.WordCloud(h.config, words)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render word cloud", err)
		return
	}

	respondWithPNG(w, img)
}

func respondWithPNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
