package sources

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"lecture-sync/internal/domain"
)

// fakeSource serves a scripted sequence of pages (or errors).
type fakeSource struct {
	pages []Page
	errAt int // 1-based page that fails, 0 for never
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchPage(ctx context.Context, page int) (Page, error) {
	f.calls++
	if f.errAt != 0 && page == f.errAt {
		return Page{}, errors.New("gateway exploded")
	}
	if page > len(f.pages) {
		return Page{}, nil
	}
	return f.pages[page-1], nil
}

func lectures(n int, prefix string) []domain.Lecture {
	out := make([]domain.Lecture, n)
	for i := range out {
		out[i] = domain.Lecture{ID: prefix + strconv.Itoa(i)}
	}
	return out
}

func TestFetchAllStopsOnShortPage(t *testing.T) {
	src := &fakeSource{pages: []Page{
		{Items: lectures(3, "a"), Requested: 3},
		{Items: lectures(1, "b"), Requested: 3},
	}}

	got, err := FetchAll(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("collected %d, want 4", len(got))
	}
	if src.calls != 2 {
		t.Errorf("calls = %d, want 2 (short page ends the drain)", src.calls)
	}
}

func TestFetchAllStopsOnReportedTotal(t *testing.T) {
	// Requested=0 simulates a provider that ignores the page size: full
	// pages of 15 keep coming and only the total can end the drain.
	src := &fakeSource{pages: []Page{
		{Items: lectures(15, "a"), Total: 30},
		{Items: lectures(15, "b"), Total: 30},
		{Items: lectures(15, "c"), Total: 30},
	}}

	got, err := FetchAll(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 30 {
		t.Errorf("collected %d, want 30", len(got))
	}
	if src.calls != 2 {
		t.Errorf("calls = %d, want 2 (total reached on second page)", src.calls)
	}
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	src := &fakeSource{pages: []Page{
		{Items: lectures(2, "a")},
	}}

	got, err := FetchAll(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("collected %d, want 2", len(got))
	}
	if src.calls != 2 {
		t.Errorf("calls = %d, want 2 (empty follow-up page)", src.calls)
	}
}

func TestFetchAllKeepsPartialOnError(t *testing.T) {
	src := &fakeSource{
		pages: []Page{
			{Items: lectures(5, "a"), Total: 100},
			{Items: lectures(5, "b"), Total: 100},
		},
		errAt: 3,
	}

	got, err := FetchAll(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("provider error must not surface: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("collected %d, want the 10 rows fetched before the failure", len(got))
	}
}

func TestFetchAllPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: []Page{
		{Items: lectures(5, "a"), Total: 100},
	}}
	// First page runs without pacing; the canceled context is hit on the
	// pacer wait before page two.
	_, err := FetchAll(ctx, src, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
