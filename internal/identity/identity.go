// Package identity derives stable catalog ids and collapses duplicates.
//
// Ids are pure functions of upstream fields so that re-ingesting the same
// logical course always hits the same row: upserts overwrite, never duplicate.
package identity

import (
	"regexp"
	"strings"

	"lecture-sync/internal/domain"
)

// Source tags keep the two id spaces disjoint.
const (
	StandardPrefix = "STD_"
	KmoocPrefix    = "KMOOC_"
)

// Default tokens used when an upstream field is absent. Changing any of these
// changes every derived id, so they are frozen.
const (
	defaultInstitution = "UKN"
	defaultTitle       = "NO_LECTURE"
	defaultStart       = "NO_START"
	defaultEnd         = "NO_END"
)

// maxBaseLen bounds the joined id base (before the source prefix). Long
// near-duplicate titles can collide past this bound; accepted trade-off.
const maxBaseLen = 200

var whitespaceRe = regexp.MustCompile(`\s+`)

// StandardID derives the id for the standard (offline) source from the four
// stable upstream fields. Deterministic: equal inputs yield equal ids.
func StandardID(institution, title, start, end string) string {
	parts := []string{
		orDefault(institution, defaultInstitution),
		orDefault(title, defaultTitle),
		orDefault(start, defaultStart),
		orDefault(end, defaultEnd),
	}
	base := whitespaceRe.ReplaceAllString(strings.Join(parts, "_"), "_")
	if r := []rune(base); len(r) > maxBaseLen {
		base = string(r[:maxBaseLen])
	}
	return StandardPrefix + base
}

// KmoocID derives the id for the online-course source. The upstream id is
// already unique; only the source tag is added.
func KmoocID(sourceID string) string {
	return KmoocPrefix + strings.TrimSpace(sourceID)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// DedupeByID collapses records sharing an id within one batch. The store
// rejects a batch carrying the same key twice, and some upstream pages repeat
// items. Order follows first appearance; the kept value is the last one seen
// (all fields come from the same page, so last-writer-wins is fine).
func DedupeByID(lectures []domain.Lecture) []domain.Lecture {
	if len(lectures) == 0 {
		return lectures
	}
	idx := make(map[string]int, len(lectures))
	out := make([]domain.Lecture, 0, len(lectures))
	for _, l := range lectures {
		if i, seen := idx[l.ID]; seen {
			out[i] = l
			continue
		}
		idx[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}
