// Package api exposes the recommendation services over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"product-recommender/internal/common/config"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	ServiceName string
	Version     string
	Server      config.ServerConfig
	Logger      logger.Logger
	Obs         *observability.Observability
	// Readiness checks run on GET /ready; a failing check only marks the service degraded.
	Readiness map[string]ReadinessCheck
}

// Server holds the process-wide route table and the dependencies shared by every request.
type Server struct {
	opts   Options
	router *mux.Router
	logger logger.Logger
}

// NewServer registers recommend at POST /recommend next to the operational endpoints.
func NewServer(opts Options, recommend http.Handler) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	s := &Server{
		opts:   opts,
		router: mux.NewRouter(),
		logger: opts.Logger,
	}

	s.router.Use(requestIDMiddleware, s.loggingMiddleware, metricsMiddleware)

	s.router.Handle("/recommend", recommend).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.readyHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.registerStatic()

	return s
}

func (s *Server) registerStatic() {
	dir := s.opts.Server.StaticDir
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		s.logger.Warn("static directory not found, landing page disabled", map[string]interface{}{
			"staticDir": dir,
		})
		return
	}

	index := filepath.Join(dir, "index.html")
	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}).Methods(http.MethodGet)
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(dir))),
	).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	origins := s.opts.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(s.router)
}

// HTTPServer builds the listening server from the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	cfg := s.opts.Server
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"service":   s.opts.ServiceName,
		"version":   s.opts.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readyHandler always answers 200: upstream outages degrade responses rather than failing them.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	checks := make(map[string]string, len(s.opts.Readiness))
	for name, check := range s.opts.Readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	s.writeJSON(w, r, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// writeJSON marshals body before touching w, so an encode failure leaves the
// response unwritten for the caller to answer with an error instead.
func writeJSON(w http.ResponseWriter, status int, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, body interface{}) {
	if err := writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
