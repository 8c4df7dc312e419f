// Command geocode backfills coordinates for rows that have none, running the
// cascade from cheapest to most speculative: reuse coordinates already in the
// store, then ask the geocoding service, then fall back to region centroids.
package main

import (
	"context"
	"flag"
	"time"

	"lecture-sync/internal/config"
	"lecture-sync/internal/geocode"
	"lecture-sync/internal/identity"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/pace"
	"lecture-sync/internal/store"
)

func main() {
	var (
		limit       = flag.Int("limit", 100, "max rows to process in one run")
		all         = flag.Bool("all", false, "include expired lectures, not just active ones")
		dryRun      = flag.Bool("dry-run", false, "resolve but skip the store write")
		resetOnline = flag.Bool("reset-online", false, "null out coordinates on online catalog rows and exit")
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

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	lectures := store.NewLectures(store.New(cfg.StoreURL, cfg.StoreKey))

	if *resetOnline {
		// Online courses must carry no coordinates; earlier runs attached
		// some via the keyword fallback before online rows were excluded.
		if err := lectures.ClearCoordsByIDPrefix(ctx, identity.KmoocPrefix); err != nil {
			logging.Fatal().Err(err).Msg("reset failed")
		}
		logging.Info().Msg("online catalog coordinates cleared")
		return
	}

	if err := cfg.RequireKakao(); err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	today := time.Now().Format("2006-01-02")
	rows, err := lectures.MissingCoords(ctx, *limit, !*all, today)
	if err != nil {
		logging.Fatal().Err(err).Msg("load rows")
	}
	logging.Info().Int("rows", len(rows)).Bool("active_only", !*all).Msg("rows without coordinates")

	kakao := geocode.NewKakao(cfg.KakaoBaseURL, cfg.KakaoRESTKey)
	resolver := geocode.NewResolver(kakao, pace.New(cfg.GeocodeDelay))

	tally := map[geocode.Tier]int{}
	for _, l := range rows {
		// Seed the reuse tiers from rows already geocoded with the same
		// address or instructor.
		if c, err := lectures.CoordsForAddress(ctx, l.Address); err == nil && c != nil {
			resolver.SeedAddress(l.Address, *c)
		}
		if c, err := lectures.CoordsForInstructor(ctx, l.Instructor); err == nil && c != nil {
			resolver.SeedInstructor(l.Instructor, *c)
		}

		res, err := resolver.Resolve(ctx, l)
		if err != nil {
			logging.Fatal().Err(err).Str("id", l.ID).Msg("resolve aborted")
		}
		tally[res.Tier]++
		if res.Place == nil {
			logging.Debug().Str("id", l.ID).Str("tier", res.Tier.String()).Msg("no coordinates")
			continue
		}

		logging.Debug().
			Str("id", l.ID).
			Str("tier", res.Tier.String()).
			Float64("lat", res.Place.Coords.Lat).
			Float64("lng", res.Place.Coords.Lng).
			Msg("resolved")
		if *dryRun {
			continue
		}
		if err := lectures.SetCoords(ctx, l.ID, *res.Place); err != nil {
			logging.Error().Err(err).Str("id", l.ID).Msg("write failed")
		}
	}

	ev := logging.Info().Int("rows", len(rows))
	for tier, n := range tally {
		ev = ev.Int(tier.String(), n)
	}
	ev.Msg("geocode pass complete")
}
