// Command discover queries the catalog views from a terminal.
//
//	discover popular
//	discover trending
//	discover search -q godzilla -genre action -sort rating
//	discover recent [clear]
//	discover genres
//	discover interactive
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/reelscout/internal/app"
	"github.com/Clark-Hu/reelscout/internal/config"
	"github.com/Clark-Hu/reelscout/internal/recent"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stderr, "[discover] ", log.LstdFlags)
	if os.Getenv("DISCOVER_VERBOSE") == "" {
		logger.SetOutput(io.Discard)
	}

	agg, err := app.NewAggregator(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open recent-search store: %v", err)
	}
	defer backend.Close()

	c := &cli{
		agg:      agg,
		recent:   recent.NewStore(backend.Store, recent.DefaultKey, recent.WithLimit(cfg.RecentSearchLimit), recent.WithLogger(logger)),
		debounce: time.Duration(cfg.SearchDebounceMS) * time.Millisecond,
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	if err := c.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
