// Package httpapi exposes the scenario prediction REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
	"github.com/aquaforesee/water-scenario-service/internal/engine"
	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

// Store is the persistence surface the API reads and writes. A nil Store
// switches every read onto the built-in catalog and the synthetic history
// generator, and disables prediction persistence.
type Store interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	GetRegion(ctx context.Context, id string) (domain.Region, error)
	HistoricalSeries(ctx context.Context, regionID string, years int) ([]domain.HistoricalRecord, error)
	SavePrediction(ctx context.Context, rec domain.PredictionRecord) error
	Ping(ctx context.Context) error
}

// Publisher emits computed scenario results to downstream consumers. May be
// nil when event publishing is disabled.
type Publisher interface {
	Publish(ctx context.Context, rec domain.PredictionRecord) error
}

// Insights produces narrative insight text for a computed scenario. The bool
// reports whether the text came from the advisory channel.
type Insights interface {
	KeyInsights(ctx context.Context, params domain.ScenarioParams, summary domain.Summary) (string, bool)
}

// Options carries the collaborators and switches for NewServer.
type Options struct {
	Engine      *engine.Engine
	Store       Store
	Publisher   Publisher
	Insights    Insights
	AdvisorOn   bool
	CORSOrigins []string
	Logger      *slog.Logger
	Metrics     *observability.Metrics
}

// Server exposes the prediction, catalog, history, and operational routes.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	store      Store
	publisher  Publisher
	insights   Insights
	advisorOn  bool
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the API server with all routes registered.
func NewServer(addr string, opts Options) *Server {
	s := &Server{
		engine:    opts.Engine,
		store:     opts.Store,
		publisher: opts.Publisher,
		insights:  opts.Insights,
		advisorOn: opts.AdvisorOn,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}

	r := mux.NewRouter()
	r.Use(s.requestMetrics)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/baseline/{region_id}", s.handleBaseline).Methods(http.MethodGet)
	api.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	api.HandleFunc("/historical/{region_id}", s.handleHistorical).Methods(http.MethodGet)
	api.HandleFunc("/historical-multiple", s.handleHistoricalMultiple).Methods(http.MethodGet)
	api.HandleFunc("/key-insights", s.handleKeyInsights).Methods(http.MethodPost)
	api.HandleFunc("/ai-status", s.handleAIStatus).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         86400,
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// statusRecorder captures the response code for metrics and logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Catalog mode has no dependencies to wait for.
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

// writeError renders the error envelope used across the API.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
