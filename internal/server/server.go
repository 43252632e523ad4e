// Package server exposes the dashboard HTTP API: gauge snapshots,
// threshold editing, hive events and the live websocket feed.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hivewatch/internal/config"
	"hivewatch/internal/model"
	"hivewatch/internal/service"
	"hivewatch/internal/ws"
)

// ThresholdUpdater writes threshold edits back to the upstream store.
type ThresholdUpdater interface {
	UpdateThreshold(ctx context.Context, metricID string, ts model.ThresholdSet) (model.ThresholdSet, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg      *config.ServerConfig
	store    *service.Store
	table    *config.MetricTable
	upstream ThresholdUpdater
	hub      *ws.Hub
	logger   zerolog.Logger

	httpServer *http.Server
}

// NewServer creates a Server and wires its routes.
func NewServer(
	cfg *config.ServerConfig,
	store *service.Store,
	table *config.MetricTable,
	upstream ThresholdUpdater,
	hub *ws.Hub,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		table:    table,
		upstream: upstream,
		hub:      hub,
		logger:   logger.With().Str("component", "server").Logger(),
	}

	router := mux.NewRouter()
	router.Use(s.metricsMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/gauges", s.handleGauges).Methods(http.MethodGet)
	api.HandleFunc("/telemetry", s.handleTelemetry).Methods(http.MethodGet)
	api.HandleFunc("/thresholds", s.handleThresholds).Methods(http.MethodGet)
	api.HandleFunc("/thresholds/{metric}", s.handleThresholdUpdate).Methods(http.MethodPut)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handler)

	s.httpServer = &http.Server{
		Addr:         cfg.Listen,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("listen", s.cfg.Listen).Msg("dashboard server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return err
		}
		s.logger.Info().Msg("dashboard server stopped")
		return ctx.Err()
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(s.hub, s.logger, w, r)
}

// Handler exposes the wired route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
