package geocode

import "strings"

// Coords is a WGS84 coordinate pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// regionCenter is a province-level centroid, the coarsest fallback tier.
type regionCenter struct {
	Name   string
	Center Coords
}

// regionCenters is scanned in order; first name found in the text wins.
// A slice (not a map) keeps the scan deterministic.
var regionCenters = []regionCenter{
	{"서울", Coords{37.5665, 126.9780}},
	{"부산", Coords{35.1796, 129.0756}},
	{"대구", Coords{35.8714, 128.6014}},
	{"인천", Coords{37.4563, 126.7052}},
	{"광주", Coords{35.1595, 126.8526}},
	{"대전", Coords{36.3504, 127.3845}},
	{"울산", Coords{35.5384, 129.3114}},
	{"세종", Coords{36.4801, 127.2890}},
	{"경기", Coords{37.4138, 127.5183}},
	{"강원", Coords{37.8228, 128.1555}},
	{"충북", Coords{36.6358, 127.4914}},
	{"충남", Coords{36.5184, 126.8000}},
	{"전북", Coords{35.7175, 127.1530}},
	{"전남", Coords{34.8679, 126.9910}},
	{"경북", Coords{36.4919, 128.8889}},
	{"경남", Coords{35.4606, 128.2132}},
	{"제주", Coords{33.4996, 126.5312}},
}

// RegionCenter finds the first province name mentioned in text and returns
// its centroid. City-level precision only; used as the last cascade tier.
func RegionCenter(text string) (string, Coords, bool) {
	for _, rc := range regionCenters {
		if strings.Contains(text, rc.Name) {
			return rc.Name, rc.Center, true
		}
	}
	return "", Coords{}, false
}

// institutionKeywords are venue-type terms (community centers, libraries,
// district offices, ...) used to cut a searchable institution name out of a
// lecture title. Checked in order.
var institutionKeywords = []string{
	"구청", "시청", "군청", "도청",
	"도서관", "평생학습관", "평생학습센터", "문화원", "문화센터",
	"복지관", "종합사회복지관", "주민센터", "자활센터",
	"교육청", "교육지원청",
	"체육관", "스포츠센터",
	"여성회관", "청소년센터", "노인복지관",
}

// institutionWindow is how many runes of context before the keyword are kept
// in the extracted query.
const institutionWindow = 10

// ExtractInstitution cuts an institution-name query out of title: the first
// known venue keyword plus a bounded window of preceding characters.
func ExtractInstitution(title string) (string, bool) {
	runes := []rune(title)
	for _, kw := range institutionKeywords {
		idx := strings.Index(title, kw)
		if idx < 0 {
			continue
		}
		// byte index -> rune index
		ri := len([]rune(title[:idx]))
		start := ri - institutionWindow
		if start < 0 {
			start = 0
		}
		end := ri + len([]rune(kw))
		return strings.TrimSpace(string(runes[start:end])), true
	}
	return "", false
}

// minAddressRunes is the shortest cleaned address worth geocoding.
const minAddressRunes = 5

// CleanAddress strips parenthetical annotations and anything after the first
// comma. ok is false when the remainder is too short to resolve.
func CleanAddress(addr string) (string, bool) {
	s := addr
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	return s, len([]rune(s)) >= minAddressRunes
}
