// Package sources defines the catalog providers and the shared pagination
// loop that drains them.
package sources

import (
	"context"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/pace"
)

// maxPages bounds a single drain so a provider that keeps returning full
// pages (or misreports its total) cannot loop forever.
const maxPages = 500

// Page is one page of a provider's catalog.
type Page struct {
	Items []domain.Lecture
	// Total is the provider-reported catalog size, 0 when unknown.
	Total int
	// Requested is the page size the provider honors. 0 means the provider
	// ignores the requested size, so a short page does not imply the end.
	Requested int
}

// Source is one remote lecture catalog. Pages are 1-based.
type Source interface {
	Name() string
	FetchPage(ctx context.Context, page int) (Page, error)
}

// FetchAll drains src page by page, pacing between pages. A provider error
// mid-drain (gateway HTML pages, timeouts) ends the drain with whatever was
// collected so far; a nightly run should keep what it has rather than throw
// a whole source away. Only context cancellation is returned as an error.
func FetchAll(ctx context.Context, src Source, pacer *pace.Pacer) ([]domain.Lecture, error) {
	if pacer == nil {
		pacer = pace.New(0)
	}

	var all []domain.Lecture
	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := pacer.Wait(ctx); err != nil {
				return all, err
			}
		}

		p, err := src.FetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			logging.Warn().
				Str("source", src.Name()).
				Int("page", page).
				Int("collected", len(all)).
				Err(err).
				Msg("page fetch failed, keeping partial catalog")
			return all, nil
		}
		if len(p.Items) == 0 {
			break
		}
		all = append(all, p.Items...)

		logging.Debug().
			Str("source", src.Name()).
			Int("page", page).
			Int("items", len(p.Items)).
			Int("total", p.Total).
			Msg("page fetched")

		if p.Total > 0 && len(all) >= p.Total {
			break
		}
		if p.Requested > 0 && len(p.Items) < p.Requested {
			break
		}
	}
	return all, nil
}
