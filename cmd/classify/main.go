// Command classify assigns a category to every row that has none, from
// keywords in the title.
package main

import (
	"context"
	"flag"
	"time"

	"lecture-sync/internal/classify"
	"lecture-sync/internal/config"
	"lecture-sync/internal/domain"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/store"
)

func main() {
	var dryRun = flag.Bool("dry-run", false, "classify but skip the store write")
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

	updated, failed, byCategory, err := run(ctx, lectures, *dryRun)
	if err != nil {
		logging.Fatal().Err(err).Msg("load rows")
	}

	ev := logging.Info()
	if failed > 0 {
		ev = logging.Warn()
	}
	ev = ev.Int("updated", updated).Int("failed", failed)
	for _, cat := range classify.Categories() {
		if n := byCategory[cat]; n > 0 {
			ev = ev.Int(cat, n)
		}
	}
	ev.Msg("classification complete")
}

type catalogStore interface {
	UncategorizedPage(ctx context.Context, offset, limit int) ([]domain.Lecture, error)
	SetCategory(ctx context.Context, id, category string) error
}

// run classifies every uncategorized row. A failed write is logged and
// skipped rather than aborting the pass. Written rows drop out of the
// category-is-null filter, so the offset only advances past rows that stayed
// in it (failures, and everything under -dry-run); that keeps the window
// aligned and the loop terminating either way.
func run(ctx context.Context, s catalogStore, dryRun bool) (updated, failed int, byCategory map[string]int, err error) {
	byCategory = map[string]int{}

	offset := 0
	for {
		page, err := s.UncategorizedPage(ctx, offset, store.MaxPageRows)
		if err != nil {
			return updated, failed, byCategory, err
		}
		if len(page) == 0 {
			break
		}

		remained := 0
		for _, l := range page {
			cat := classify.Title(l.Title)
			byCategory[cat]++
			if dryRun {
				remained++
				continue
			}
			if err := s.SetCategory(ctx, l.ID, cat); err != nil {
				logging.Error().Err(err).Str("id", l.ID).Msg("write failed, continuing")
				failed++
				remained++
				continue
			}
			updated++
		}
		offset += remained

		if len(page) < store.MaxPageRows {
			break
		}
	}
	return updated, failed, byCategory, nil
}
