package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/telgraph/mantela/pkg/api"
	"github.com/telgraph/mantela/pkg/config"
	"github.com/telgraph/mantela/pkg/logging"
	"github.com/telgraph/mantela/pkg/mantela"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logging.NewDefaultLogger().Error("failed to load config",
				logging.String("path", *configPath),
				logging.Error(err),
			)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flag beats config file beats default; PORT env slots in between.
	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			}
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))

	fetcher := mantela.NewHTTPFetcher(
		mantela.WithTimeout(cfg.FetchTimeout()),
		mantela.WithUserAgent(cfg.Crawler.UserAgent),
	)

	server := api.NewServer(cfg.Server.Port,
		api.WithFetcher(fetcher),
		api.WithLogger(logger),
		api.WithDefaultMaxHops(cfg.Crawler.DefaultMaxHops),
	)

	logger.Info("mantela discovery server starting",
		logging.Int("port", cfg.Server.Port),
		logging.Int("default_max_hops", cfg.Crawler.DefaultMaxHops),
	)

	if err := server.Start(); err != nil {
		logger.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
}
