package geocode

import "testing"

func TestRegionCenter(t *testing.T) {
	name, c, ok := RegionCenter("서울특별시 중구 세종대로 110")
	if !ok || name != "서울" {
		t.Fatalf("RegionCenter = %q ok=%v", name, ok)
	}
	if c.Lat != 37.5665 || c.Lng != 126.9780 {
		t.Errorf("Seoul centroid = %+v", c)
	}

	if _, _, ok := RegionCenter("동네 공원 산책 모임"); ok {
		t.Error("no province mentioned, expected miss")
	}
}

func TestRegionCenterFirstMatchWins(t *testing.T) {
	// Both 서울 and 부산 appear; 서울 is earlier in the scan order.
	name, c, ok := RegionCenter("부산에서 서울로") // contains 부산 before 서울 in text
	if !ok {
		t.Fatal("expected a match")
	}
	// Scan order is the table order, not text order.
	if name != "서울" {
		t.Errorf("name = %q, want 서울 (table order)", name)
	}
	if c.Lat != 37.5665 {
		t.Errorf("coords = %+v", c)
	}
}

func TestExtractInstitution(t *testing.T) {
	got, ok := ExtractInstitution("강남구립도서관 특강: 파이썬")
	if !ok {
		t.Fatal("expected an institution")
	}
	if got != "강남구립도서관" {
		t.Errorf("extracted %q", got)
	}

	if _, ok := ExtractInstitution("파이썬 기초"); ok {
		t.Error("no venue keyword, expected miss")
	}
}

func TestExtractInstitutionWindowBound(t *testing.T) {
	// More than 10 runes before the keyword: only the trailing window is kept.
	title := "아주아주아주아주 긴 수식어가 붙은 행복 평생학습관 강좌"
	got, ok := ExtractInstitution(title)
	if !ok {
		t.Fatal("expected an institution")
	}
	if n := len([]rune(got)); n > institutionWindow+len([]rune("평생학습관")) {
		t.Errorf("window too wide: %q (%d runes)", got, n)
	}
}

func TestCleanAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"서울특별시 중구 세종대로 110 (태평로1가)", "서울특별시 중구 세종대로 110", true},
		{"서울특별시 중구 세종대로 110, 3층", "서울특별시 중구 세종대로 110", true},
		{"부산시청", "", false}, // under 5 runes after cleaning
		{"  대전광역시 서구 둔산로 100  ", "대전광역시 서구 둔산로 100", true},
		{"(강의실 미정)", "", false},
	}
	for _, c := range cases {
		got, ok := CleanAddress(c.in)
		if ok != c.ok {
			t.Errorf("CleanAddress(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("CleanAddress(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
