package domain

import (
	"regexp"
	"strings"
	"time"
)

// Sentinel values shared across the pipeline. The upstream feeds are Korean
// government APIs, so placeholders stay in Korean: they are catalog data, not UI.
const (
	// PeriodAlways marks a course with no fixed schedule ("always open").
	PeriodAlways = "상시"
	// AddressOnline marks an online-only course. Rows with this address must
	// never be geocoded.
	AddressOnline = "온라인 강좌"

	AddressUnknown    = "장소 미상"
	InstructorUnknown = "강사 미상"
	TitleUnknown      = "제목 없음"
	TargetAnyone      = "누구나"
	PriceFree         = "무료"
)

// onlineMarkers are substrings that mark an address as non-physical even when
// it is not the exact AddressOnline sentinel (video calls, remote classes).
var onlineMarkers = []string{"온라인", "비대면", "줌", "Zoom"}

// Lecture is the canonical catalog row. Both source adapters map into this
// shape and the store persists it as-is; json tags match the table columns.
//
// Lat/Lng/ApplyEnd are pointers because the store distinguishes "not resolved
// yet" (null) from any real value, and upserts must be able to send explicit
// nulls the way the original rows are seeded.
type Lecture struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Instructor string   `json:"instructor"`
	Period     string   `json:"period"`
	ApplyEnd   *string  `json:"apply_end"`
	Target     string   `json:"target"`
	Link       string   `json:"link"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Address    string   `json:"address"`
	IsFree     bool     `json:"is_free"`
	Price      string   `json:"price"`

	// Filled by later backfill passes, never by the source adapters. omitempty
	// keeps re-ingestion upserts from clobbering them back to null.
	Category string  `json:"category,omitempty"`
	Sido     *string `json:"sido,omitempty"`
	Sigungu  *string `json:"sigungu,omitempty"`

	// Set by the store on insert; used by the dedup sweep ordering.
	CreatedAt string `json:"created_at,omitempty"`
}

// IsOnline reports whether the lecture has no physical venue.
func (l Lecture) IsOnline() bool { return IsOnlineAddress(l.Address) }

// IsOnlineAddress reports whether addr denotes an online/remote venue and must
// be excluded from geocoding.
func IsOnlineAddress(addr string) bool {
	if addr == "" {
		return false
	}
	for _, m := range onlineMarkers {
		if strings.Contains(addr, m) {
			return true
		}
	}
	return false
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseApplyEnd extracts the end bound of a "<start> ~ <end>" period as
// YYYY-MM-DD. Returns nil for the always-open sentinel, one-sided ranges, and
// anything that does not round-trip as a calendar date. Dotted dates
// ("2026.03.31") are normalized to dashes first.
func ParseApplyEnd(period string) *string {
	if period == "" || period == PeriodAlways {
		return nil
	}
	parts := strings.Split(period, "~")
	if len(parts) < 2 {
		return nil
	}
	end := strings.ReplaceAll(strings.TrimSpace(parts[1]), ".", "-")
	if !isoDateRe.MatchString(end) {
		return nil
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return nil
	}
	return &end
}

// EndDate parses the period's end bound as a time. ok is false when the
// period has no parseable end (always-open courses included).
func (l Lecture) EndDate() (time.Time, bool) {
	end := ParseApplyEnd(l.Period)
	if end == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *end)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ActiveOn reports whether the lecture is still running on the given day.
// Courses without a parseable end date are treated as not active here; the
// always-open online catalog is counted separately by callers.
func (l Lecture) ActiveOn(day time.Time) bool {
	end, ok := l.EndDate()
	if !ok {
		return false
	}
	y, m, d := day.Date()
	return !end.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
