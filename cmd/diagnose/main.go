// Command diagnose inspects the pipeline end to end: store row counts per
// source, a few sample rows, and optionally a live probe of both upstream
// APIs. Useful when a nightly run looks off and the question is "which side
// broke".
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/dedupe"
	"lecture-sync/internal/devutil"
	"lecture-sync/internal/identity"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/sources"
	"lecture-sync/internal/sources/kmooc"
	"lecture-sync/internal/sources/standard"
	"lecture-sync/internal/store"
)

func main() {
	var (
		sample = flag.Int("sample", 5, "sample rows to print")
		probe  = flag.Bool("probe", false, "fetch page 1 from both upstream APIs")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.RequireStore(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))

	total, err := lectures.CountAll(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("count")
	}
	std, err := lectures.CountByIDPrefix(ctx, identity.StandardPrefix)
	if err != nil {
		logging.Fatal().Err(err).Msg("count")
	}
	km, err := lectures.CountByIDPrefix(ctx, identity.KmoocPrefix)
	if err != nil {
		logging.Fatal().Err(err).Msg("count")
	}

	fmt.Printf("store rows: %d (standard %d, kmooc %d, other %d)\n", total, std, km, total-std-km)

	if *sample > 0 {
		rows, err := lectures.Page(ctx, 0, *sample, "id,title,period,apply_end,address,lat,lng,category")
		if err != nil {
			logging.Fatal().Err(err).Msg("sample")
		}
		fmt.Println("sample rows:")
		for _, l := range rows {
			fmt.Printf("  %v\n", devutil.Pick(l, "id", "title", "period", "apply_end", "address", "category"))
		}
	}

	// Invariant checks: online rows must not carry coordinates, and the
	// offline catalog should hold no content duplicates.
	stale, err := lectures.OnlineWithCoords(ctx, *sample)
	if err != nil {
		logging.Fatal().Err(err).Msg("online check")
	}
	if len(stale) == 0 {
		fmt.Println("online rows with coordinates: none")
	} else {
		fmt.Printf("online rows with coordinates (run geocode -reset-online):\n")
		for _, l := range stale {
			fmt.Printf("  %v\n", devutil.Pick(l, "id", "title", "address", "lat", "lng"))
		}
	}

	sweep, err := dedupe.Run(ctx, lectures, true)
	if err != nil {
		logging.Fatal().Err(err).Msg("duplicate check")
	}
	fmt.Printf("offline duplicates: %d of %d scanned\n", sweep.Duplicates, sweep.Scanned)

	if !*probe {
		return
	}
	if err := cfg.RequirePortal(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	probes := []sources.Source{
		standard.New(cfg.StandardBaseURL, cfg.DataPortalKey),
		kmooc.New(cfg.KmoocBaseURL, cfg.DataPortalKey),
	}
	for _, src := range probes {
		page, err := src.FetchPage(ctx, 1)
		if err != nil {
			fmt.Printf("probe %s: ERROR %v\n", src.Name(), err)
			continue
		}
		fmt.Printf("probe %s: page 1 has %d rows, reported total %d\n", src.Name(), len(page.Items), page.Total)
		if len(page.Items) > 0 {
			fmt.Printf("  first: %v\n", devutil.Pick(page.Items[0], "id", "title", "period", "address"))
		}
	}
}
