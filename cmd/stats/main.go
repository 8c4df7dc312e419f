// Command stats prints a health report over the catalog: source mix,
// active/expired split, coordinate coverage and category distribution.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/domain"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/stats"
	"lecture-sync/internal/store"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.RequireStore(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))

	var rows []domain.Lecture
	for offset := 0; ; offset += store.MaxPageRows {
		page, err := lectures.Page(ctx, offset, store.MaxPageRows, "id,period,address,category,lat,lng")
		if err != nil {
			logging.Fatal().Err(err).Msg("load rows")
		}
		rows = append(rows, page...)
		if len(page) < store.MaxPageRows {
			break
		}
	}

	now := time.Now()
	s := stats.Summarize(rows, now)

	fmt.Printf("catalog stats (%s)\n", now.Format("2006-01-02"))
	fmt.Printf("  total:       %d (standard %d, kmooc %d)\n", s.Total, s.Standard, s.Kmooc)
	fmt.Printf("  active:      %d\n", s.Active)
	fmt.Printf("  expired:     %d\n", s.Expired)
	fmt.Printf("  always open: %d\n", s.AlwaysOpen)
	fmt.Printf("  online:      %d\n", s.Online)
	fmt.Printf("  with coords: %d (%.1f%% of offline rows)\n", s.WithCoords, s.CoordCoverage()*100)
	fmt.Printf("  categorized: %d\n", s.Categorized)
	for cat, n := range s.ByCategory {
		fmt.Printf("    %-12s %d\n", cat, n)
	}
}
