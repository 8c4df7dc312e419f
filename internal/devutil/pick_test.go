package devutil

import (
	"reflect"
	"testing"

	"lecture-sync/internal/domain"
)

func TestPickLectureColumns(t *testing.T) {
	l := domain.Lecture{
		ID:      "STD_a",
		Title:   "파이썬 기초",
		Address: "서울특별시 중구 세종대로 110",
		Period:  "2026-03-01 ~ 2026-05-01",
	}

	got := Pick(l, "id", "title", "address")
	want := map[string]any{
		"id":      "STD_a",
		"title":   "파이썬 기초",
		"address": "서울특별시 중구 세종대로 110",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pick = %v, want %v", got, want)
	}
}

func TestPickMissingAndUnmarshalable(t *testing.T) {
	if got := Pick(map[string]any{"a": 1}, "b"); len(got) != 0 {
		t.Errorf("missing key: %v", got)
	}
	if got := Pick(make(chan int), "a"); len(got) != 0 {
		t.Errorf("unmarshalable value: %v", got)
	}
}
