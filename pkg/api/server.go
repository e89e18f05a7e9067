// Package api exposes crawls and their results over HTTP: a crawl trigger
// endpoint, the last graph snapshot as JSON or via GraphQL, plus health and
// Prometheus metrics.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telgraph/mantela/pkg/graph"
	"github.com/telgraph/mantela/pkg/logging"
	"github.com/telgraph/mantela/pkg/mantela"
	"github.com/telgraph/mantela/pkg/metrics"
)

// Server is the HTTP API server. It owns the fetcher and metrics shared by
// all crawls and retains the most recent graph snapshot for the read
// endpoints.
type Server struct {
	fetcher        mantela.Fetcher
	logger         logging.Logger
	metricsReg     *metrics.Registry
	port           int
	defaultMaxHops int
	startTime      time.Time

	mu         sync.RWMutex
	lastGraph  *graph.Graph
	lastCrawl  time.Time
	crawlGuard sync.Mutex
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithFetcher replaces the descriptor fetcher used for crawls.
func WithFetcher(f mantela.Fetcher) ServerOption {
	return func(s *Server) {
		s.fetcher = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithDefaultMaxHops sets the hop bound used when a crawl request omits one.
func WithDefaultMaxHops(n int) ServerOption {
	return func(s *Server) {
		s.defaultMaxHops = n
	}
}

// NewServer creates an API server listening on the given port.
func NewServer(port int, opts ...ServerOption) *Server {
	s := &Server{
		fetcher:        mantela.NewHTTPFetcher(),
		logger:         logging.NewNopLogger(),
		metricsReg:     metrics.DefaultRegistry(),
		port:           port,
		defaultMaxHops: 3,
		startTime:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed handler with middleware applied. Split from
// Start so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metricsReg.PrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	mux.HandleFunc("/api/v1/crawl", s.handleCrawl)
	mux.HandleFunc("/api/v1/graph", s.handleGraph)
	mux.Handle("/api/v1/graphql", s.graphqlHandler())

	return s.loggingMiddleware(s.metricsMiddleware(mux))
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", logging.String("addr", addr))

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a crawl runs inside the request
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// setLastGraph retains the most recent snapshot for the read endpoints.
func (s *Server) setLastGraph(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGraph = g
	s.lastCrawl = time.Now()
}

// LastGraph returns the most recent snapshot, or nil if no crawl has run.
func (s *Server) LastGraph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGraph
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hasGraph := s.lastGraph != nil
	lastCrawl := s.lastCrawl
	s.mu.RUnlock()

	response := map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		"has_graph":      hasGraph,
	}
	if hasGraph {
		response["last_crawl"] = lastCrawl.Format(time.RFC3339)
	}
	s.respondJSON(w, http.StatusOK, response)
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
