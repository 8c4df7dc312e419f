// Command applyend backfills the apply_end column from the period text for
// rows ingested before the column existed.
package main

import (
	"context"
	"flag"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/domain"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/store"
)

func main() {
	var dryRun = flag.Bool("dry-run", false, "parse but skip the store write")
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

	res, err := run(ctx, lectures, *dryRun)
	if err != nil {
		logging.Fatal().Err(err).Msg("load rows")
	}

	ev := logging.Info()
	if res.failed > 0 {
		ev = logging.Warn()
	}
	ev.Int("scanned", res.scanned).
		Int("updated", res.updated).
		Int("failed", res.failed).
		Int("left_null", res.unparseable).
		Bool("dry_run", *dryRun).
		Msg("apply_end backfill complete")
}

type backfillStore interface {
	Page(ctx context.Context, offset, limit int, columns string) ([]domain.Lecture, error)
	SetApplyEnd(ctx context.Context, id string, applyEnd *string) error
}

type backfillResult struct {
	scanned     int
	updated     int
	failed      int
	unparseable int
}

// run walks the whole table and fills apply_end where it is null and the
// period parses. A failed write is logged and skipped; the pass keeps going.
func run(ctx context.Context, s backfillStore, dryRun bool) (backfillResult, error) {
	var res backfillResult

	for offset := 0; ; offset += store.MaxPageRows {
		page, err := s.Page(ctx, offset, store.MaxPageRows, "id,period,apply_end")
		if err != nil {
			return res, err
		}
		if len(page) == 0 {
			break
		}

		for _, l := range page {
			res.scanned++
			if l.ApplyEnd != nil {
				continue
			}
			end := domain.ParseApplyEnd(l.Period)
			if end == nil {
				// Always-open and malformed periods stay null.
				res.unparseable++
				continue
			}
			if !dryRun {
				if err := s.SetApplyEnd(ctx, l.ID, end); err != nil {
					logging.Error().Err(err).Str("id", l.ID).Msg("write failed, continuing")
					res.failed++
					continue
				}
			}
			res.updated++
		}

		if len(page) < store.MaxPageRows {
			break
		}
	}
	return res, nil
}
