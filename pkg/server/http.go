package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/session"
)

// HTTPServer serves the chat page, the JSON API, health and metrics.
type HTTPServer struct {
	gateway  *gateway.Gateway
	sessions *session.Manager
	logger   *logrus.Logger
	server   *http.Server
}

// NewHTTPServer creates a new HTTP server listening on addr.
func NewHTTPServer(gw *gateway.Gateway, sessions *session.Manager, logger *logrus.Logger, addr string) *HTTPServer {
	if logger == nil {
		logger = logrus.New()
	}
	s := &HTTPServer{
		gateway:  gw,
		sessions: sessions,
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	// Leaves headroom over the provider timeout so degraded results still render.
	r.Use(middleware.Timeout(s.gateway.Timeout() + 5*time.Second))

	r.Get("/", s.handleIndex)
	r.Post("/translate", s.handleSubmit)
	r.Post("/clear", s.handleClear)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/translate", RestHandler(s.logger, s.Translate))
		r.Get("/languages", RestHandler(s.logger, s.Languages))
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", RestHandler(s.logger, s.CreateSession))
			r.Get("/{session_id}", RestHandler(s.logger, s.GetSession))
			r.Delete("/{session_id}", RestHandler(s.logger, s.DeleteSession))
			r.Post("/{session_id}/messages", RestHandler(s.logger, s.SubmitMessage))
			r.Delete("/{session_id}/messages", RestHandler(s.logger, s.ClearMessages))
		})
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start listens until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr": s.server.Addr,
	}).Info("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Warn("HTTP request failed")
			return
		}
		entry.Debug("HTTP request served")
	})
}

// handleHealth reports liveness and whether the provider answers its health check.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":              "healthy",
		"provider_configured": s.gateway.IsConfigured(r.Context()),
		"engine":              s.gateway.Engine(),
		"sessions":            s.sessions.Len(),
	})
}
