// Package dedupe sweeps the catalog for rows that are the same lecture under
// different ids. Two offline rows with the same title and address are one
// lecture that arrived twice (typically once before and once after an id
// scheme change); the oldest row keeps its id, the rest are removed.
package dedupe

import (
	"context"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/logging"
	"lecture-sync/internal/store"
)

// Store is the slice of the catalog the sweep needs. Online rows are excluded
// at the query level: every online course shares the same placeholder
// address, so a content key over them would conflate unrelated courses.
type Store interface {
	OfflinePage(ctx context.Context, offset, limit int) ([]domain.Lecture, error)
	DeleteIDs(ctx context.Context, ids []string) (int, error)
}

// Result summarizes one sweep.
type Result struct {
	Scanned    int
	Duplicates int
	Deleted    int
}

// Run scans every offline row and deletes content duplicates. Pages arrive
// ordered by creation time, so the first row seen for a content key is the
// oldest and is the one kept. With dryRun set, duplicates are counted and
// logged but nothing is deleted.
func Run(ctx context.Context, s Store, dryRun bool) (Result, error) {
	var res Result

	seen := make(map[string]string) // content key -> keeper id
	var doomed []string

	for offset := 0; ; offset += store.MaxPageRows {
		page, err := s.OfflinePage(ctx, offset, store.MaxPageRows)
		if err != nil {
			return res, err
		}
		if len(page) == 0 {
			break
		}
		res.Scanned += len(page)

		for _, l := range page {
			key := l.Title + "||" + l.Address
			if keeper, ok := seen[key]; ok {
				res.Duplicates++
				doomed = append(doomed, l.ID)
				logging.Debug().
					Str("id", l.ID).
					Str("keeper", keeper).
					Str("title", l.Title).
					Msg("duplicate row")
				continue
			}
			seen[key] = l.ID
		}

		if len(page) < store.MaxPageRows {
			break
		}
	}

	if dryRun || len(doomed) == 0 {
		return res, nil
	}

	n, err := s.DeleteIDs(ctx, doomed)
	res.Deleted = n
	return res, err
}
