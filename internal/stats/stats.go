// Package stats aggregates catalog health numbers for the stats report.
package stats

import (
	"strings"
	"time"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/identity"
)

// Summary is one snapshot of the catalog, taken against a reference day.
type Summary struct {
	Total    int
	Standard int // rows ingested from the nationwide dataset
	Kmooc    int // rows ingested from the K-MOOC catalog

	Active     int // end date on or after the reference day
	Expired    int // end date before the reference day
	AlwaysOpen int // no parseable end date (상시 and malformed periods)

	WithCoords  int
	Online      int
	Categorized int

	ByCategory map[string]int
}

// Summarize computes a Summary over rows. Rows need id, period, address,
// category and lat populated; everything else is ignored.
func Summarize(rows []domain.Lecture, day time.Time) Summary {
	s := Summary{ByCategory: make(map[string]int)}

	for _, l := range rows {
		s.Total++

		switch {
		case strings.HasPrefix(l.ID, identity.StandardPrefix):
			s.Standard++
		case strings.HasPrefix(l.ID, identity.KmoocPrefix):
			s.Kmooc++
		}

		if _, ok := l.EndDate(); !ok {
			s.AlwaysOpen++
		} else if l.ActiveOn(day) {
			s.Active++
		} else {
			s.Expired++
		}

		if l.Lat != nil && l.Lng != nil {
			s.WithCoords++
		}
		if l.IsOnline() {
			s.Online++
		}
		if l.Category != "" {
			s.Categorized++
			s.ByCategory[l.Category]++
		}
	}
	return s
}

// CoordCoverage is the share of offline rows carrying coordinates, 0..1.
// Online rows are excluded: they never get coordinates on purpose.
func (s Summary) CoordCoverage() float64 {
	offline := s.Total - s.Online
	if offline <= 0 {
		return 0
	}
	return float64(s.WithCoords) / float64(offline)
}
