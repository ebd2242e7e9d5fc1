// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialpulse/internal/adapter/render"
	"socialpulse/internal/config"
	"socialpulse/internal/metrics"
	"socialpulse/internal/server/handlers"
	"socialpulse/internal/service/pipeline"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Dependencies are the collaborators the routes are served from. Runs and
// Events may be nil.
type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Runs     handlers.RunReader
	Events   handlers.Feed
	Render   render.Config
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	router := NewRouter(cfg, deps)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter builds the routing tree. The analysis routes are served both at
// the root and under /api/v1.
func NewRouter(cfg config.ServerConfig, deps Dependencies) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(instrument)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", handlers.RunIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	analysisHandler := handlers.NewAnalysisHandler(deps.Pipeline)
	renderHandler := handlers.NewRenderHandler(deps.Pipeline, deps.Render)
	runHandler := handlers.NewRunHandler(deps.Runs)

	routes := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Get("/", analysisHandler.Home)
			r.Post("/analyze", analysisHandler.Analyze)
			r.Get("/fetch_reddit", analysisHandler.FetchPosts)
			r.Get("/predict_trends", analysisHandler.PredictTrends)
			r.Get("/top_entities", analysisHandler.TopEntities)

			r.Route("/render", func(r chi.Router) {
				r.Get("/trend_chart.png", renderHandler.TrendChart)
				r.Get("/wordcloud.png", renderHandler.WordCloud)
			})

			r.Get("/runs/{id}", runHandler.GetRun)
		})
	}

	routes(router)
	router.Route("/api/v1", routes)

	// Health check
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint for completed run events
	router.Get("/ws/events", handlers.EventsWebSocketHandler(deps.Events, handlers.DefaultWebSocketConfig()))

	return router
}

// instrument records request counts and latencies by route pattern
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
