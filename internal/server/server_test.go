package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/adapter/render"
	"socialpulse/internal/adapter/source"
	"socialpulse/internal/config"
	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/service/cluster"
	"socialpulse/internal/service/entity"
	"socialpulse/internal/service/forecast"
	"socialpulse/internal/service/pipeline"
	"socialpulse/internal/service/sentiment"
	"socialpulse/internal/service/worker"
)

type staticFetcher struct{}

func (staticFetcher) Name() string { return "static" }

func (staticFetcher) FetchPage(ctx context.Context, channel string, limit int, cursor string) ([]pulse.Post, string, error) {
	return []pulse.Post{
		{ID: "1", Title: "Go is great", Score: 3, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, "", nil
}

func testRouter() http.Handler {
	p := pipeline.New(
		source.NewRegistry(staticFetcher{}),
		sentiment.NewScorer(),
		cluster.NewEngine(),
		forecast.NewEngine(),
		entity.NewCapitalizedExtractor(),
		worker.NewPool(1, time.Second),
	)
	cfg := config.ServerConfig{
		CorsOrigins:    []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	return NewRouter(cfg, Dependencies{
		Pipeline: p,
		Render:   render.Config{Width: 200, Height: 100},
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutesAreMountedTwice(t *testing.T) {
	h := testRouter()

	for _, prefix := range []string{"", "/api/v1"} {
		rec := get(h, prefix+"/fetch_reddit?channel=golang&limit=1")
		assert.Equal(t, http.StatusOK, rec.Code, prefix)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"I love this"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := testRouter()

	rec := get(h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	get(h, "/top_entities?channel=golang")

	rec = get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "socialpulse_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/top_entities"`)
}

func TestArchiveAndStreamDisabled(t *testing.T) {
	h := testRouter()

	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/runs/abc").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/ws/events").Code)
}
