// Package api serves the read-only reporting endpoints over the transaction store.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/momo-ledger/internal/metrics"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// Store is the part of the storage layer the API reads from.
type Store interface {
	service.Reporter
	Ping(ctx context.Context) error
}

// Server provides HTTP endpoints for transaction queries and monitoring.
type Server struct {
	store     Store
	metrics   metrics.Collector
	logger    *slog.Logger
	server    *http.Server
	router    *mux.Router
	startedAt time.Time
	config    ServerConfig
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	// Address to listen on (e.g., ":3000")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration

	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// DefaultServerConfig returns a default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":3000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer creates a new API server. A nil collector disables request metrics.
func NewServer(store Store, collector metrics.Collector, config ServerConfig, logger *slog.Logger) *Server {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:     store,
		metrics:   collector,
		logger:    logger,
		config:    config,
		startedAt: time.Now(),
	}

	r := mux.NewRouter()
	r.Use(s.metricsMiddleware)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions/{id}", s.handleTransaction).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", s.handleCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/monthly", s.handleMonthly).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/contacts", s.handleContacts).Methods(http.MethodGet)
	r.HandleFunc("/api/export/json", s.handleExportJSON).Methods(http.MethodGet)
	r.HandleFunc("/api/export/pdf", s.handleExportPDF).Methods(http.MethodGet)

	gatherer := config.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "endpoint not found")
	})

	s.router = r
	s.server = &http.Server{
		Addr:         config.Address,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server in a goroutine. Listen errors other than a
// clean shutdown are delivered on the returned channel.
func (s *Server) Start() <-chan error {
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		s.logger.Info("API server listening", "address", s.config.Address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
			errs <- err
		}
	}()
	return errs
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
