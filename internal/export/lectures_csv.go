// Package export renders the catalog as CSV for downstream consumers (map
// tooling, spreadsheets) and optionally brotli-compresses the output for
// delivery.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/andybalholm/brotli"

	"lecture-sync/internal/domain"
)

// Keep header order EXACT; downstream imports are positional.
var lectureHeader = []string{
	"ID",
	"TITLE",
	"INSTRUCTOR",
	"PERIOD",
	"APPLY_END",
	"TARGET",
	"CATEGORY",
	"ADDRESS",
	"SIDO",
	"SIGUNGU",
	"LAT",
	"LNG",
	"IS_FREE",
	"PRICE",
	"LINK",
	"CREATED_AT",
}

// WriteLecturesCSV writes the catalog in the export format. Unset optional
// columns stay empty.
func WriteLecturesCSV(w io.Writer, lectures []domain.Lecture) error {
	cw := csv.NewWriter(w)
	// match typical import templates
	cw.UseCRLF = true

	if err := cw.Write(lectureHeader); err != nil {
		return err
	}
	for _, l := range lectures {
		if err := cw.Write(toRow(l)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLecturesCSVBrotli writes the same CSV through a brotli compressor.
// The nightly full catalog compresses to a few percent of its raw size, which
// matters on the metered SFTP drop.
func WriteLecturesCSVBrotli(w io.Writer, lectures []domain.Lecture) error {
	bw := brotli.NewWriter(w)
	if err := WriteLecturesCSV(bw, lectures); err != nil {
		bw.Close()
		return err
	}
	return bw.Close()
}

func toRow(l domain.Lecture) []string {
	return []string{
		l.ID,
		l.Title,
		l.Instructor,
		l.Period,
		strOrEmpty(l.ApplyEnd),
		l.Target,
		l.Category,
		l.Address,
		strOrEmpty(l.Sido),
		strOrEmpty(l.Sigungu),
		floatOrEmpty(l.Lat),
		floatOrEmpty(l.Lng),
		strconv.FormatBool(l.IsFree),
		l.Price,
		l.Link,
		l.CreatedAt,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
