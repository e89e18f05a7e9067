// Package crawler implements breadth-first discovery of a telephony switch
// network. Starting from one descriptor URL it walks provider links up to a
// hop limit and assembles a directed graph of switches, their extensions,
// and the labeled links between them.
//
// The traversal is strictly sequential: one frontier item at a time, one
// outstanding fetch at a time. That yields deterministic visitation order and
// keeps the node table free of concurrent mutation.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/telgraph/mantela/pkg/graph"
	"github.com/telgraph/mantela/pkg/logging"
	"github.com/telgraph/mantela/pkg/mantela"
	"github.com/telgraph/mantela/pkg/metrics"
)

// Unbounded disables the hop limit when passed as maxHops.
const Unbounded = -1

// frontierItem is one queued fetch task. Never exposed outside the engine.
type frontierItem struct {
	url  string
	nest int
}

// Crawler drives the fetch → resolve → expand loop.
type Crawler struct {
	fetcher mantela.Fetcher
	logger  logging.Logger
	metrics *metrics.Registry
	sink    StatusSink
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithFetcher replaces the descriptor fetcher. Tests use this to feed canned
// documents.
func WithFetcher(f mantela.Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Crawler) {
		c.logger = l
	}
}

// WithMetrics enables Prometheus instrumentation of fetches and crawls.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Crawler) {
		c.metrics = r
	}
}

// WithStatusSink sets the progress sink. A nil sink means no reporting.
func WithStatusSink(s StatusSink) Option {
	return func(c *Crawler) {
		if s != nil {
			c.sink = s
		}
	}
}

// New creates a Crawler. Without options it fetches over HTTP with default
// timeouts, logs nowhere, and reports status nowhere.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: mantela.NewHTTPFetcher(),
		logger:  logging.NewNopLogger(),
		sink:    nopSink{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Discover crawls the network reachable from startURL, following provider
// links breadth-first up to maxHops hops (Unbounded for no limit), and
// returns the assembled graph snapshot.
//
// Fetch failures and descriptors without a self-identity section are
// non-fatal: they are reported and the crawl moves on, so the returned graph
// is always valid, empty at worst. The only error Discover returns is the
// context's, and even then the partial snapshot built so far accompanies it.
func (c *Crawler) Discover(ctx context.Context, startURL string, maxHops int) (*graph.Graph, error) {
	start := time.Now()
	builder := graph.NewBuilder()

	visitedURLs := make(map[string]struct{})
	visitedIdentities := make(map[string]struct{})

	queue := []frontierItem{{url: startURL, nest: 0}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			g, _ := c.finish(builder, start, "cancelled")
			return g, err
		}

		current := queue[0]
		queue = queue[1:]
		c.setFrontierDepth(len(queue))

		// Pop-and-skip: already fetched via another route, or past the
		// hop bound. No side effects, no status.
		if _, ok := visitedURLs[current.url]; ok {
			continue
		}
		if maxHops >= 0 && current.nest > maxHops {
			continue
		}

		c.sink.Report(current.url)

		doc, err := c.fetch(ctx, current.url)
		if err != nil {
			if ctx.Err() != nil {
				g, _ := c.finish(builder, start, "cancelled")
				return g, ctx.Err()
			}
			// Non-fatal: the URL stays unvisited, the crawl moves on.
			c.logger.Error("descriptor fetch failed",
				logging.URL(current.url),
				logging.Hop(current.nest),
				logging.Error(err),
			)
			c.sink.Report(fmt.Sprintf("failed to fetch %s: %v", current.url, err))
			continue
		}
		visitedURLs[current.url] = struct{}{}

		// A switch that cannot name itself contributes nothing.
		if doc.AboutMe == nil {
			c.logger.Warn("descriptor has no self-identity, abandoning",
				logging.URL(current.url),
			)
			continue
		}

		self := builder.Resolve(doc.AboutMe.Identifier, doc.AboutMe.Name, graph.TypePBX)

		// Already fully processed via a different URL: merge the alias
		// above, but do not re-register extensions or re-enqueue
		// providers.
		if _, ok := visitedIdentities[self.ID]; ok {
			continue
		}
		visitedIdentities[self.ID] = struct{}{}
		if c.metrics != nil {
			c.metrics.SwitchesDiscovered.Inc()
		}
		c.logger.Info("registered switch",
			logging.Identity(self.ID),
			logging.URL(current.url),
			logging.Hop(current.nest),
		)

		for _, ext := range doc.Extensions {
			node := builder.AddExtension(self.ID, ext.Name, ext.Type)
			builder.Link(self.ID, node.ID, ext.Extension)
		}

		// Providers found at the last permitted hop are recorded but not
		// expanded.
		expand := maxHops < 0 || current.nest < maxHops
		for _, p := range doc.Providers {
			provider := builder.Resolve(p.Identifier, p.Name, graph.TypePBX)
			builder.Link(self.ID, provider.ID, p.Prefix)
			if expand && p.Mantela != "" {
				queue = append(queue, frontierItem{url: p.Mantela, nest: current.nest + 1})
			}
		}
		c.setFrontierDepth(len(queue))
	}

	g, duration := c.finish(builder, start, "complete")
	c.sink.Report(fmt.Sprintf("discovery complete: %d nodes, %d edges", len(g.Nodes), len(g.Edges)))
	c.logger.Info("discovery complete",
		logging.Int("nodes", len(g.Nodes)),
		logging.Int("edges", len(g.Edges)),
		logging.Duration("duration", duration),
	)
	return g, nil
}

// fetch performs the single suspension point of the loop and records fetch
// metrics.
func (c *Crawler) fetch(ctx context.Context, url string) (*mantela.Mantela, error) {
	start := time.Now()
	doc, err := c.fetcher.Fetch(ctx, url)
	if c.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		c.metrics.RecordFetch(status, time.Since(start))
	}
	return doc, err
}

func (c *Crawler) setFrontierDepth(n int) {
	if c.metrics != nil {
		c.metrics.FrontierDepth.Set(float64(n))
	}
}

func (c *Crawler) finish(builder *graph.Builder, start time.Time, status string) (*graph.Graph, time.Duration) {
	duration := time.Since(start)
	g := builder.Snapshot()
	if c.metrics != nil {
		c.metrics.RecordCrawl(status, duration, len(g.Nodes), len(g.Edges))
		c.metrics.FrontierDepth.Set(0)
	}
	return g, duration
}
