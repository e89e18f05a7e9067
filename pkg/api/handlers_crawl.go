package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/telgraph/mantela/pkg/crawler"
	"github.com/telgraph/mantela/pkg/validation"
)

// CrawlRequest is the body of POST /api/v1/crawl. MaxHops may be omitted, in
// which case the server default applies.
type CrawlRequest struct {
	URL     string `json:"url"`
	MaxHops *int   `json:"maxHops,omitempty"`
}

// CrawlStats summarizes a finished crawl.
type CrawlStats struct {
	Nodes      int   `json:"nodes"`
	Edges      int   `json:"edges"`
	DurationMS int64 `json:"duration_ms"`
}

// CrawlResponse is the reply to a successful crawl.
type CrawlResponse struct {
	Graph    any        `json:"graph"`
	Statuses []string   `json:"statuses"`
	Stats    CrawlStats `json:"stats"`
}

// handleCrawl runs a discovery for the requested URL and responds with the
// assembled graph plus the status messages the crawl emitted. Only one crawl
// runs at a time; concurrent requests queue behind the guard.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	maxHops := s.defaultMaxHops
	if req.MaxHops != nil {
		maxHops = *req.MaxHops
	}

	if err := validation.ValidateCrawlRequest(&validation.CrawlRequest{
		URL:     req.URL,
		MaxHops: maxHops,
	}); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.crawlGuard.Lock()
	defer s.crawlGuard.Unlock()

	var statuses []string
	c := crawler.New(
		crawler.WithFetcher(s.fetcher),
		crawler.WithLogger(s.logger),
		crawler.WithMetrics(s.metricsReg),
		crawler.WithStatusSink(crawler.StatusFunc(func(msg string) {
			statuses = append(statuses, msg)
		})),
	)

	start := time.Now()
	g, err := c.Discover(r.Context(), req.URL, maxHops)
	if err != nil {
		// Context cancelled or deadline hit; the partial graph is not
		// retained.
		s.respondError(w, http.StatusRequestTimeout, "crawl cancelled")
		return
	}

	s.setLastGraph(g)

	s.respondJSON(w, http.StatusOK, CrawlResponse{
		Graph:    g,
		Statuses: statuses,
		Stats: CrawlStats{
			Nodes:      len(g.Nodes),
			Edges:      len(g.Edges),
			DurationMS: time.Since(start).Milliseconds(),
		},
	})
}

// handleGraph serves the most recent crawl snapshot.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	g := s.LastGraph()
	if g == nil {
		s.respondError(w, http.StatusNotFound, "no crawl has completed yet")
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}
