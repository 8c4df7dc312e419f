package domain

import (
	"testing"
	"time"
)

func TestParseApplyEnd(t *testing.T) {
	cases := []struct {
		period string
		want   string // "" means nil expected
	}{
		{"2026-01-01 ~ 2026-03-31", "2026-03-31"},
		{"2026.01.01 ~ 2026.03.31", "2026-03-31"},
		{"2026-03-01 ~ 2026-05-01", "2026-05-01"},
		{PeriodAlways, ""},
		{"", ""},
		{"2026-01-01", ""},                  // one-sided
		{"2026-01-01 ~ ", ""},               // empty end
		{"2026-01-01 ~ 31/03/2026", ""},     // wrong format
		{"2026-01-01 ~ 2026-02-30", ""},     // not a calendar date
		{"2026-01-01 ~ 2026-13-01", ""},     // month out of range
		{" ~ 2026-03-31", "2026-03-31"},     // start missing is fine
		{"상시 ~ 상시", ""},                   // sentinel inside a range
	}

	for _, c := range cases {
		got := ParseApplyEnd(c.period)
		if c.want == "" {
			if got != nil {
				t.Errorf("ParseApplyEnd(%q) = %q, want nil", c.period, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseApplyEnd(%q) = nil, want %q", c.period, c.want)
			continue
		}
		if *got != c.want {
			t.Errorf("ParseApplyEnd(%q) = %q, want %q", c.period, *got, c.want)
		}
	}
}

func TestParseApplyEndRoundTrip(t *testing.T) {
	// The stored string must parse back as the same calendar date.
	period := "2026-03-01 ~ 2026-05-01"
	end := ParseApplyEnd(period)
	if end == nil {
		t.Fatal("expected an end date")
	}
	parsed, err := time.Parse("2006-01-02", *end)
	if err != nil {
		t.Fatalf("stored apply_end does not parse: %v", err)
	}
	if parsed.Format("2006-01-02") != *end {
		t.Errorf("round trip mismatch: %q -> %q", *end, parsed.Format("2006-01-02"))
	}
}

func TestIsOnlineAddress(t *testing.T) {
	online := []string{
		AddressOnline,
		"온라인 (줌)",
		"비대면 수업",
		"Zoom 회의실",
		"줌으로 진행",
	}
	for _, a := range online {
		if !IsOnlineAddress(a) {
			t.Errorf("IsOnlineAddress(%q) = false, want true", a)
		}
	}

	offline := []string{
		"",
		"서울특별시 중구 세종대로 110",
		AddressUnknown,
	}
	for _, a := range offline {
		if IsOnlineAddress(a) {
			t.Errorf("IsOnlineAddress(%q) = true, want false", a)
		}
	}
}

func TestActiveOn(t *testing.T) {
	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	l := Lecture{Period: "2026-03-01 ~ 2026-05-01"}
	if !l.ActiveOn(day) {
		t.Error("lecture ending 2026-05-01 should be active on 2026-03-15")
	}

	ended := Lecture{Period: "2026-01-01 ~ 2026-02-01"}
	if ended.ActiveOn(day) {
		t.Error("lecture ending 2026-02-01 should not be active on 2026-03-15")
	}

	sameDay := Lecture{Period: "2026-01-01 ~ 2026-03-15"}
	if !sameDay.ActiveOn(day) {
		t.Error("lecture ending on the reference day should still count as active")
	}

	always := Lecture{Period: PeriodAlways}
	if always.ActiveOn(day) {
		t.Error("always-open period has no end date and is not counted as active here")
	}
}
