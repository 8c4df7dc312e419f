package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/geocode"
	"lecture-sync/internal/httpx"
)

// recordingTransport keeps every request (with its body) and serves a fixed
// response to all of them.
type recordingTransport struct {
	status   int
	body     string
	header   http.Header
	requests []*http.Request
	bodies   []string
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	r.requests = append(r.requests, req)
	r.bodies = append(r.bodies, string(b))

	h := r.header
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{
		StatusCode: r.status,
		Header:     h,
		Body:       io.NopCloser(bytes.NewBufferString(r.body)),
	}, nil
}

func newTestStore(tr *recordingTransport) *Lectures {
	c := New("https://proj.supabase.co", "anon-key")
	c.HTTP = &http.Client{Transport: tr}
	cfg := httpx.DefaultRetryConfig()
	cfg.MaxAttempts = 1
	c.Retry = cfg
	return NewLectures(c)
}

func placeFor(lat, lng float64, sido, sigungu string) geocode.Place {
	return geocode.Place{
		Coords:  geocode.Coords{Lat: lat, Lng: lng},
		Sido:    sido,
		Sigungu: sigungu,
	}
}

func TestUpsertRequestShape(t *testing.T) {
	tr := &recordingTransport{status: 201, body: ""}
	s := newTestStore(tr)

	err := s.Upsert(context.Background(), []domain.Lecture{
		{ID: "STD_a", Title: "one"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	req := tr.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("method = %s", req.Method)
	}
	if req.URL.Path != "/rest/v1/lectures" {
		t.Errorf("path = %q", req.URL.Path)
	}
	if got := req.URL.Query().Get("on_conflict"); got != "id" {
		t.Errorf("on_conflict = %q", got)
	}
	if p := req.Header.Get("Prefer"); !strings.Contains(p, "resolution=merge-duplicates") {
		t.Errorf("Prefer = %q", p)
	}
	if req.Header.Get("apikey") != "anon-key" {
		t.Errorf("apikey header = %q", req.Header.Get("apikey"))
	}
	if auth := req.Header.Get("Authorization"); auth != "Bearer anon-key" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestUpsertDedupesBatchByID(t *testing.T) {
	tr := &recordingTransport{status: 201, body: ""}
	s := newTestStore(tr)

	err := s.Upsert(context.Background(), []domain.Lecture{
		{ID: "STD_a", Title: "first"},
		{ID: "STD_a", Title: "second"},
		{ID: "STD_b", Title: "other"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	var sent []domain.Lecture
	if err := json.Unmarshal([]byte(tr.bodies[0]), &sent); err != nil {
		t.Fatalf("decode sent batch: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d rows, want 2 (duplicate id must be collapsed)", len(sent))
	}
	if sent[0].ID != "STD_a" || sent[0].Title != "second" {
		t.Errorf("sent[0] = %+v, want last write for STD_a", sent[0])
	}
}

func TestUpsertEmptyBatchIsNoop(t *testing.T) {
	tr := &recordingTransport{status: 201, body: ""}
	s := newTestStore(tr)

	if err := s.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("Upsert(nil): %v", err)
	}
	if len(tr.requests) != 0 {
		t.Errorf("empty batch still hit the store (%d requests)", len(tr.requests))
	}
}

func TestMissingCoordsQuery(t *testing.T) {
	tr := &recordingTransport{status: 200, body: `[{"id":"STD_a","title":"t","address":"서울 어딘가 주소","instructor":"강사"}]`}
	s := newTestStore(tr)

	rows, err := s.MissingCoords(context.Background(), 2000, true, "2026-08-29")
	if err != nil {
		t.Fatalf("MissingCoords: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "STD_a" {
		t.Errorf("rows = %+v", rows)
	}

	q := tr.requests[0].URL.Query()
	if q.Get("lat") != "is.null" {
		t.Errorf("lat filter = %q", q.Get("lat"))
	}
	if q.Get("address") != "not.ilike.*온라인*" {
		t.Errorf("address filter = %q", q.Get("address"))
	}
	if q.Get("or") != "(apply_end.gte.2026-08-29,apply_end.is.null)" {
		t.Errorf("or filter = %q", q.Get("or"))
	}
	if q.Get("limit") != "2000" {
		t.Errorf("limit = %q", q.Get("limit"))
	}
}

func TestCoordsForAddress(t *testing.T) {
	tr := &recordingTransport{status: 200, body: `[{"lat":37.5,"lng":127.0}]`}
	s := newTestStore(tr)

	c, err := s.CoordsForAddress(context.Background(), "서울특별시 중구 세종대로 110")
	if err != nil {
		t.Fatalf("CoordsForAddress: %v", err)
	}
	if c == nil || c.Lat != 37.5 || c.Lng != 127.0 {
		t.Errorf("coords = %+v", c)
	}

	q := tr.requests[0].URL.Query()
	if q.Get("address") != "eq.서울특별시 중구 세종대로 110" {
		t.Errorf("address filter = %q", q.Get("address"))
	}
	if q.Get("lat") != "not.is.null" {
		t.Errorf("lat filter = %q", q.Get("lat"))
	}
	if q.Get("limit") != "1" {
		t.Errorf("limit = %q", q.Get("limit"))
	}
}

func TestCoordsForInstructorMiss(t *testing.T) {
	tr := &recordingTransport{status: 200, body: `[]`}
	s := newTestStore(tr)

	c, err := s.CoordsForInstructor(context.Background(), "김강사")
	if err != nil {
		t.Fatalf("CoordsForInstructor: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil on no rows, got %+v", c)
	}
}

func TestSetCoordsPatch(t *testing.T) {
	tr := &recordingTransport{status: 204, body: ""}
	s := newTestStore(tr)

	err := s.SetCoords(context.Background(), "STD_a", placeFor(37.5, 127.0, "서울특별시", "중구"))
	if err != nil {
		t.Fatalf("SetCoords: %v", err)
	}

	req := tr.requests[0]
	if req.Method != http.MethodPatch {
		t.Errorf("method = %s", req.Method)
	}
	if got := req.URL.Query().Get("id"); got != "eq.STD_a" {
		t.Errorf("id filter = %q", got)
	}

	var patch map[string]any
	if err := json.Unmarshal([]byte(tr.bodies[0]), &patch); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	if patch["lat"] != 37.5 || patch["lng"] != 127.0 {
		t.Errorf("patch coords = %v/%v", patch["lat"], patch["lng"])
	}
	if patch["sido"] != "서울특별시" || patch["sigungu"] != "중구" {
		t.Errorf("patch regions = %v/%v", patch["sido"], patch["sigungu"])
	}
}

func TestSetCoordsOmitsUnknownRegions(t *testing.T) {
	tr := &recordingTransport{status: 204, body: ""}
	s := newTestStore(tr)

	if err := s.SetCoords(context.Background(), "STD_a", placeFor(35.1, 129.0, "", "")); err != nil {
		t.Fatalf("SetCoords: %v", err)
	}

	var patch map[string]any
	if err := json.Unmarshal([]byte(tr.bodies[0]), &patch); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	if _, ok := patch["sido"]; ok {
		t.Error("sido should be omitted when unknown, not nulled")
	}
}

func TestOnlineWithCoordsQuery(t *testing.T) {
	tr := &recordingTransport{status: 200, body: `[{"id":"KMOOC_9","address":"온라인 강좌","lat":37.5,"lng":127.0}]`}
	s := newTestStore(tr)

	rows, err := s.OnlineWithCoords(context.Background(), 10)
	if err != nil {
		t.Fatalf("OnlineWithCoords: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "KMOOC_9" {
		t.Errorf("rows = %+v", rows)
	}

	q := tr.requests[0].URL.Query()
	if q.Get("address") != "ilike.*온라인*" {
		t.Errorf("address filter = %q", q.Get("address"))
	}
	if q.Get("lat") != "not.is.null" {
		t.Errorf("lat filter = %q", q.Get("lat"))
	}
}

func TestDeleteIDsBatches(t *testing.T) {
	tr := &recordingTransport{status: 204, body: ""}
	s := newTestStore(tr)

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = "STD_x" + string(rune('a'+i%26))
	}
	n, err := s.DeleteIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("DeleteIDs: %v", err)
	}
	if n != 250 {
		t.Errorf("deleted = %d, want 250", n)
	}
	if len(tr.requests) != 3 { // 100 + 100 + 50
		t.Errorf("requests = %d, want 3 batches", len(tr.requests))
	}
	for _, req := range tr.requests {
		if req.Method != http.MethodDelete {
			t.Errorf("method = %s", req.Method)
		}
		if !strings.HasPrefix(req.URL.Query().Get("id"), "in.(") {
			t.Errorf("id filter = %q", req.URL.Query().Get("id"))
		}
	}
}

func TestCountParsesContentRange(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Range", "0-24/3573")
	tr := &recordingTransport{status: 200, body: "", header: h}
	s := newTestStore(tr)

	n, err := s.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if n != 3573 {
		t.Errorf("count = %d, want 3573", n)
	}
	if p := tr.requests[0].Header.Get("Prefer"); p != "count=exact" {
		t.Errorf("Prefer = %q", p)
	}
}

func TestInListQuotes(t *testing.T) {
	got := InList([]string{"STD_a", "STD_b,c"})
	want := `in.("STD_a","STD_b,c")`
	if got != want {
		t.Errorf("InList = %q, want %q", got, want)
	}
}
