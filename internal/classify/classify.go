// Package classify assigns lectures to a fixed set of topical categories by
// keyword-matching their titles.
package classify

import "strings"

// DefaultCategory is assigned when no keyword set matches.
const DefaultCategory = "기타"

// categoryRule pairs a label with its keyword set. Rules are evaluated in
// slice order and the first match wins, so a title hitting two sets always
// resolves to the earlier one. The order below is the classification
// priority and must not be reshuffled.
type categoryRule struct {
	Label    string
	Keywords []string
}

var rules = []categoryRule{
	{"IT/디지털", []string{"코딩", "컴퓨터", "스마트폰", "인공지능", "엑셀", "디지털", "영상편집", "IT", "유튜브", "파이썬", "프로그래밍"}},
	{"취미/문화", []string{"미술", "음악", "바둑", "요리", "캘리그라피", "사진", "공예", "노래", "악기", "댄스", "무용", "영화", "원예"}},
	{"재테크/자기계발", []string{"재테크", "부동산", "주식", "창업", "자격증", "영어", "일본어", "중국어", "취업", "마케팅", "리더십", "회계"}},
	{"인문/교양", []string{"인문학", "철학", "역사", "심리", "동양학", "서양학", "문학", "고전", "명리", "시민교육"}},
	{"스포츠/건강", []string{"요가", "필라테스", "스트레칭", "탁구", "배드민턴", "댄스스포츠", "에어로빅", "수영", "헬스", "태권도", "건강"}},
}

// Categories lists every label the classifier can produce, in priority order,
// with DefaultCategory last.
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Label)
	}
	return append(out, DefaultCategory)
}

// Title returns the category for a lecture title. Pure and idempotent:
// matching is case-insensitive on the lowered title, priority is the fixed
// rule order, and no match yields DefaultCategory.
func Title(title string) string {
	lowered := strings.ToLower(title)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return r.Label
			}
		}
	}
	return DefaultCategory
}
