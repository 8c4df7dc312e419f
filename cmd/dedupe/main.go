// Command dedupe removes content duplicates from the offline catalog. Run
// with -dry-run first; deletions are permanent.
package main

import (
	"context"
	"flag"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/dedupe"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/store"
)

func main() {
	var dryRun = flag.Bool("dry-run", false, "report duplicates without deleting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.RequireStore(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))

	res, err := dedupe.Run(ctx, lectures, *dryRun)
	if err != nil {
		logging.Fatal().Err(err).Msg("sweep failed")
	}
	logging.Info().
		Int("scanned", res.Scanned).
		Int("duplicates", res.Duplicates).
		Int("deleted", res.Deleted).
		Bool("dry_run", *dryRun).
		Msg("duplicate sweep complete")
}
