// Command sync pulls both lecture catalogs, normalizes them and upserts the
// result into the store. Safe to re-run: rows are keyed by derived ids, so a
// second run updates in place.
package main

import (
	"context"
	"flag"
	"time"

	"lecture-sync/internal/concurrency"
	"lecture-sync/internal/config"
	"lecture-sync/internal/domain"
	"lecture-sync/internal/identity"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/pace"
	"lecture-sync/internal/sources"
	"lecture-sync/internal/sources/kmooc"
	"lecture-sync/internal/sources/standard"
	"lecture-sync/internal/store"
)

func main() {
	var (
		batchSize = flag.Int("batch", 500, "rows per upsert request")
		dryRun    = flag.Bool("dry-run", false, "fetch and map but skip the store write")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.RequirePortal(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	if !*dryRun {
		if err := cfg.RequireStore(); err != nil {
			logging.Fatal().Err(err).Msg("config")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	srcs := []sources.Source{
		standard.New(cfg.StandardBaseURL, cfg.DataPortalKey),
		kmooc.New(cfg.KmoocBaseURL, cfg.DataPortalKey),
	}

	start := time.Now()
	catalogs, errs := concurrency.ProcessParallel(ctx, srcs, len(srcs),
		func(ctx context.Context, i int, src sources.Source) ([]domain.Lecture, error) {
			return sources.FetchAll(ctx, src, pace.New(cfg.PageDelay))
		})
	for _, err := range errs {
		// Provider failures are swallowed inside the drain; only
		// cancellation surfaces here.
		logging.Fatal().Err(err).Msg("fetch aborted")
	}

	var all []domain.Lecture
	for i, rows := range catalogs {
		logging.Info().Str("source", srcs[i].Name()).Int("rows", len(rows)).Msg("catalog fetched")
		all = append(all, rows...)
	}
	all = identity.DedupeByID(all)
	logging.Info().Int("rows", len(all)).Dur("elapsed", time.Since(start)).Msg("catalogs merged")

	if *dryRun {
		logging.Info().Msg("dry run, skipping store write")
		return
	}

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))
	written, failed := upsertBatches(ctx, lectures, all, *batchSize)

	ev := logging.Info()
	if failed > 0 {
		ev = logging.Warn()
	}
	ev.Int("rows", written).
		Int("failed_batches", failed).
		Dur("elapsed", time.Since(start)).
		Msg("sync complete")
}

type batchWriter interface {
	Upsert(ctx context.Context, lectures []domain.Lecture) error
}

// upsertBatches submits rows in batchSize chunks. A failed batch is logged
// and skipped so one bad record cannot block the rest of the catalog; the
// run reports how many batches it had to leave behind.
func upsertBatches(ctx context.Context, w batchWriter, rows []domain.Lecture, batchSize int) (written, failed int) {
	for off := 0; off < len(rows); off += batchSize {
		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := w.Upsert(ctx, rows[off:end]); err != nil {
			logging.Error().Err(err).Int("offset", off).Int("rows", end-off).Msg("batch upsert failed, continuing")
			failed++
			continue
		}
		written += end - off
		logging.Debug().Int("offset", off).Int("rows", end-off).Msg("batch upserted")
	}
	return written, failed
}
