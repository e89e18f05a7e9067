// Command crawl runs a single discovery and writes the resulting graph as
// JSON. Status messages go to stderr so the graph on stdout stays pipeable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/telgraph/mantela/pkg/crawler"
	"github.com/telgraph/mantela/pkg/logging"
	"github.com/telgraph/mantela/pkg/mantela"
)

func main() {
	url := flag.String("url", "", "Starting descriptor URL (required)")
	maxHops := flag.Int("max-hops", 3, "Maximum provider hops; -1 for unbounded")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-fetch timeout")
	output := flag.String("o", "", "Write graph JSON to file instead of stdout")
	quiet := flag.Bool("q", false, "Suppress progress output")
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: crawl -url <descriptor-url> [-max-hops n] [-o file]")
		os.Exit(2)
	}

	logger := logging.NewDefaultLogger()

	opts := []crawler.Option{
		crawler.WithFetcher(mantela.NewHTTPFetcher(mantela.WithTimeout(*timeout))),
		crawler.WithLogger(logger),
	}
	if !*quiet {
		opts = append(opts, crawler.WithStatusSink(crawler.StatusFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})))
	}

	// Ctrl-C aborts the crawl at the next fetch boundary; whatever has been
	// discovered so far is still written out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := crawler.New(opts...).Discover(ctx, *url, *maxHops)
	if err != nil {
		logger.Warn("crawl interrupted, writing partial graph", logging.Error(err))
	}

	out := os.Stdout
	if *output != "" {
		f, ferr := os.Create(*output)
		if ferr != nil {
			logger.Error("create output file", logging.Error(ferr))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		logger.Error("encode graph", logging.Error(err))
		os.Exit(1)
	}
}
