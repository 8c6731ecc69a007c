// Package status serves the active route tables and remapper metrics over HTTP.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/logger"
)

// ModelSource provides the active configuration
type ModelSource interface {
	Model() *config.Model
}

// RouteInfo describes one route table
type RouteInfo struct {
	Name         string        `json:"name"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	FilterPrefix string        `json:"filter_prefix"`
	Passthrough  bool          `json:"passthrough"`
	Mappings     []MappingInfo `json:"mappings"`
}

// MappingInfo describes one mapping of a route table
type MappingInfo struct {
	Source       string   `json:"source"`
	Destinations []string `json:"destinations"`
}

// RoutesResponse is the body of GET /routes
type RoutesResponse struct {
	Fallback bool        `json:"fallback"`
	Routes   []RouteInfo `json:"routes"`
}

// Server exposes /routes, /healthz and /metrics
type Server struct {
	source   ModelSource
	gatherer prometheus.Gatherer
	logger   *logger.Logger

	httpServer *http.Server
	listener   net.Listener
}

// New creates a status server
func New(logger *logger.Logger, source ModelSource, gatherer prometheus.Gatherer) *Server {
	return &Server{
		source:   source,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/routes", s.handleRoutes)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start starts serving on addr
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          s.logger.StdLogger(logger.LevelError),
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server stopped: %v", err)
		}
	}()
	s.logger.Info("Status server listening on %s", ln.Addr())
	return nil
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.logger.Debug("request: %s %s (from %s)", r.Method, r.URL.Path, r.RemoteAddr)
	writeJSON(w, s.logger, describe(s.source.Model()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	model := s.source.Model()
	writeJSON(w, s.logger, map[string]interface{}{
		"status":   "ok",
		"tables":   model.Len(),
		"fallback": model.IsFallback(),
	})
}

func describe(model *config.Model) RoutesResponse {
	resp := RoutesResponse{
		Fallback: model.IsFallback(),
		Routes:   make([]RouteInfo, 0, model.Len()),
	}
	for _, t := range model.Tables() {
		info := RouteInfo{
			Name:         t.Name(),
			Host:         t.Host(),
			Port:         t.Port(),
			FilterPrefix: t.FilterPrefix(),
			Passthrough:  t.IsPassthrough(),
			Mappings:     make([]MappingInfo, 0, t.Len()),
		}
		for _, m := range t.Mappings() {
			info.Mappings = append(info.Mappings, MappingInfo{Source: m.Source, Destinations: m.Destinations})
		}
		resp.Routes = append(resp.Routes, info)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, v interface{}) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error("failed to marshal response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonData); err != nil {
		log.Error("failed to write response: %v", err)
	}
}
