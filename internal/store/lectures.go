package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/geocode"
	"lecture-sync/internal/identity"
)

// lecturesTable is the one flat table the whole catalog lives in.
const lecturesTable = "lectures"

// deleteBatchSize bounds one DELETE ... id=in.(...) call.
const deleteBatchSize = 100

// Lectures exposes the typed operations the pipeline needs on the catalog
// table. Construct with NewLectures and pass down explicitly.
type Lectures struct {
	c *Client
}

func NewLectures(c *Client) *Lectures {
	return &Lectures{c: c}
}

// Upsert writes a batch keyed by id. The batch is de-duplicated by id first:
// the backend rejects a payload carrying the same key twice, and upstream
// pages are known to repeat items.
func (s *Lectures) Upsert(ctx context.Context, lectures []domain.Lecture) error {
	lectures = identity.DedupeByID(lectures)
	if len(lectures) == 0 {
		return nil
	}
	return s.c.Upsert(ctx, lecturesTable, "id", lectures)
}

// MissingCoords returns rows that still need geocoding: no coordinates, not
// online. With activeOnly, only courses still open on today (or with no
// deadline at all) are returned, so the cheap quota goes to rows users can
// still act on.
func (s *Lectures) MissingCoords(ctx context.Context, limit int, activeOnly bool, today string) ([]domain.Lecture, error) {
	q := url.Values{}
	q.Set("select", "id,title,address,instructor,period")
	q.Set("lat", "is.null")
	q.Set("address", "not.ilike.*온라인*")
	if activeOnly {
		q.Set("or", fmt.Sprintf("(apply_end.gte.%s,apply_end.is.null)", today))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []domain.Lecture
	if err := s.c.Get(ctx, lecturesTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// coordsRow is the projection used by the cache-seeding lookups.
type coordsRow struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// CoordsForAddress returns the coordinates of any already-geocoded row with
// exactly this address, or nil when none exists.
func (s *Lectures) CoordsForAddress(ctx context.Context, address string) (*geocode.Coords, error) {
	return s.firstCoords(ctx, "address", address)
}

// CoordsForInstructor returns the coordinates of any already-geocoded row
// taught by exactly this instructor, or nil when none exists.
func (s *Lectures) CoordsForInstructor(ctx context.Context, instructor string) (*geocode.Coords, error) {
	return s.firstCoords(ctx, "instructor", instructor)
}

func (s *Lectures) firstCoords(ctx context.Context, column, value string) (*geocode.Coords, error) {
	q := url.Values{}
	q.Set("select", "lat,lng")
	q.Set(column, "eq."+value)
	q.Set("lat", "not.is.null")
	q.Set("limit", "1")

	var rows []coordsRow
	if err := s.c.Get(ctx, lecturesTable, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Lat == nil || rows[0].Lng == nil {
		return nil, nil
	}
	return &geocode.Coords{Lat: *rows[0].Lat, Lng: *rows[0].Lng}, nil
}

// coordsPatch carries a coordinate update; region names only when known.
type coordsPatch struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Sido    *string  `json:"sido,omitempty"`
	Sigungu *string  `json:"sigungu,omitempty"`
}

// SetCoords writes resolved coordinates (and regions when the resolver knows
// them) onto one row.
func (s *Lectures) SetCoords(ctx context.Context, id string, place geocode.Place) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	p := coordsPatch{Lat: &place.Coords.Lat, Lng: &place.Coords.Lng}
	if place.Sido != "" {
		p.Sido = &place.Sido
	}
	if place.Sigungu != "" {
		p.Sigungu = &place.Sigungu
	}
	return s.c.Patch(ctx, lecturesTable, q, p)
}

// ClearCoordsByIDPrefix resets coordinates to null for every row whose id
// starts with prefix. Used to purge coordinates wrongly attached to online
// rows before a backfill.
func (s *Lectures) ClearCoordsByIDPrefix(ctx context.Context, prefix string) error {
	q := url.Values{}
	q.Set("id", "like."+prefix+"*")
	return s.c.Patch(ctx, lecturesTable, q, map[string]any{"lat": nil, "lng": nil})
}

// SetCategory writes the classifier's label onto one row.
func (s *Lectures) SetCategory(ctx context.Context, id, category string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return s.c.Patch(ctx, lecturesTable, q, map[string]string{"category": category})
}

// SetApplyEnd writes a re-parsed deadline onto one row; nil clears it.
func (s *Lectures) SetApplyEnd(ctx context.Context, id string, applyEnd *string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return s.c.Patch(ctx, lecturesTable, q, map[string]any{"apply_end": applyEnd})
}

// Page reads one offset/limit window of the table with the given projection.
// limit must respect MaxPageRows; the server truncates past it anyway.
func (s *Lectures) Page(ctx context.Context, offset, limit int, columns string) ([]domain.Lecture, error) {
	q := url.Values{}
	q.Set("select", columns)
	q.Set("order", "id.asc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var out []domain.Lecture
	if err := s.c.Get(ctx, lecturesTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OfflinePage reads one window of offline (non-online, non-KMOOC) rows in
// created_at order, oldest first, which the dedup sweep relies on.
func (s *Lectures) OfflinePage(ctx context.Context, offset, limit int) ([]domain.Lecture, error) {
	q := url.Values{}
	q.Set("select", "id,title,address,created_at")
	q.Set("address", "not.ilike.*온라인*")
	q.Set("link", "not.ilike.*kmooc.kr*")
	q.Set("order", "created_at.asc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var out []domain.Lecture
	if err := s.c.Get(ctx, lecturesTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OnlineWithCoords returns online rows that carry coordinates. The cascade
// never geocodes online addresses, so any hit here is residue from before the
// exclusion existed and a candidate for -reset-online.
func (s *Lectures) OnlineWithCoords(ctx context.Context, limit int) ([]domain.Lecture, error) {
	q := url.Values{}
	q.Set("select", "id,title,address,lat,lng")
	q.Set("address", "ilike.*온라인*")
	q.Set("lat", "not.is.null")
	q.Set("limit", strconv.Itoa(limit))

	var out []domain.Lecture
	if err := s.c.Get(ctx, lecturesTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UncategorizedPage reads one window of rows that still lack a category.
func (s *Lectures) UncategorizedPage(ctx context.Context, offset, limit int) ([]domain.Lecture, error) {
	q := url.Values{}
	q.Set("select", "id,title")
	q.Set("category", "is.null")
	q.Set("order", "id.asc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var out []domain.Lecture
	if err := s.c.Get(ctx, lecturesTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteIDs removes rows by id, batched so a long duplicate list cannot blow
// the URL length limit.
func (s *Lectures) DeleteIDs(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		q := url.Values{}
		q.Set("id", InList(batch))
		if err := s.c.Delete(ctx, lecturesTable, q); err != nil {
			return deleted, err
		}
		deleted += len(batch)
	}
	return deleted, nil
}

// CountAll returns the total catalog size.
func (s *Lectures) CountAll(ctx context.Context) (int, error) {
	return s.c.Count(ctx, lecturesTable, url.Values{})
}

// CountByIDPrefix returns how many rows belong to one source tag.
func (s *Lectures) CountByIDPrefix(ctx context.Context, prefix string) (int, error) {
	q := url.Values{}
	q.Set("id", "like."+prefix+"*")
	return s.c.Count(ctx, lecturesTable, q)
}
