package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"

	"lecture-sync/internal/domain"
)

func sampleLectures() []domain.Lecture {
	end := "2026-05-01"
	lat, lng := 37.5665, 126.978
	sido, sigungu := "서울특별시", "중구"
	return []domain.Lecture{
		{
			ID:         "STD_서울도서관_파이썬_기초_2026-03-01_2026-05-01",
			Title:      "파이썬 기초",
			Instructor: "홍길동",
			Period:     "2026-03-01 ~ 2026-05-01",
			ApplyEnd:   &end,
			Target:     "성인",
			Category:   "IT/디지털",
			Address:    "서울특별시 중구 세종대로 110",
			Sido:       &sido,
			Sigungu:    &sigungu,
			Lat:        &lat,
			Lng:        &lng,
			IsFree:     true,
			Price:      domain.PriceFree,
			Link:       "https://lib.seoul.go.kr",
			CreatedAt:  "2026-03-01T00:00:00Z",
		},
		{
			ID:      "KMOOC_42",
			Title:   "[K-MOOC] 데이터 과학",
			Period:  domain.PeriodAlways,
			Address: domain.AddressOnline,
			IsFree:  true,
			Price:   domain.PriceFree,
		},
	}
}

func TestWriteLecturesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLecturesCSV(&buf, sampleLectures()); err != nil {
		t.Fatalf("WriteLecturesCSV: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\r\n") {
		t.Error("expected CRLF line endings")
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if records[0][0] != "ID" || records[0][len(records[0])-1] != "CREATED_AT" {
		t.Errorf("header = %v", records[0])
	}

	first := records[1]
	if first[1] != "파이썬 기초" || first[4] != "2026-05-01" {
		t.Errorf("row 1 = %v", first)
	}
	if first[10] != "37.5665" || first[11] != "126.978" {
		t.Errorf("coordinates = %q/%q", first[10], first[11])
	}
	if first[12] != "true" {
		t.Errorf("IS_FREE = %q", first[12])
	}

	second := records[2]
	if second[4] != "" || second[8] != "" || second[10] != "" {
		t.Errorf("unset optionals must be empty, row = %v", second)
	}
}

func TestWriteLecturesCSVBrotliRoundTrip(t *testing.T) {
	var plain, compressed bytes.Buffer
	rows := sampleLectures()

	if err := WriteLecturesCSV(&plain, rows); err != nil {
		t.Fatalf("plain: %v", err)
	}
	if err := WriteLecturesCSVBrotli(&compressed, rows); err != nil {
		t.Fatalf("brotli: %v", err)
	}

	decompressed, err := io.ReadAll(brotli.NewReader(&compressed))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, plain.Bytes()) {
		t.Error("compressed output does not decompress to the plain CSV")
	}
}
