package advice

import (
	"strings"
	"testing"

	"github.com/painnoll/painnoll-bot/internal/domain"
)

func profileWith(name, product, issue string) *domain.UserProfile {
	return &domain.UserProfile{ChatID: 1, Name: name, Product: product, Issue: issue}
}

func TestReplyKeywordMatching(t *testing.T) {
	testCases := []struct {
		name     string
		question string
		contains string
	}{
		{name: "digestion keyword", question: "Oshqozon og'riyapti, nima qilay?", contains: "Oshqozon va hazm uchun"},
		{name: "digestion synonym", question: "qornimda gaz ko'p", contains: "Oshqozon va hazm uchun"},
		{name: "joints keyword", question: "suyak og'riq bor", contains: "bo'g'imlar uchun"},
		{name: "prostate keyword", question: "prostata haqida maslahat", contains: "prostata salomatligi uchun"},
		{name: "weight keyword", question: "vazn tashlamoqchiman", contains: "vazn nazorati uchun"},
		{name: "pressure keyword", question: "qon bosim baland", contains: "qon bosimi uchun"},
		{name: "sugar keyword", question: "qand kasalligim bor", contains: "glikemik indeksli"},
	}

	profile := profileWith("Aziz", "BioDetox", "")

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			reply := Reply(tc.question, profile)
			if !strings.Contains(reply, tc.contains) {
				t.Errorf("Reply(%q) = %q, expected to contain %q", tc.question, reply, tc.contains)
			}
			if !strings.Contains(reply, "Aziz") {
				t.Errorf("Reply(%q) does not mention the user name", tc.question)
			}
			if !strings.Contains(reply, "BioDetox") {
				t.Errorf("Reply(%q) does not mention the user product", tc.question)
			}
		})
	}
}

func TestReplyRuleOrdering(t *testing.T) {
	// "og'riq" belongs to the joints rule, but "oshqozon" appears in an
	// earlier rule; the earlier rule must win for a question naming both.
	reply := Reply("oshqozon og'riq bermoqda", profileWith("Aziz", "Painnoll", ""))
	if !strings.Contains(reply, "Oshqozon va hazm uchun") {
		t.Errorf("expected digestion rule to win, got %q", reply)
	}
}

func TestReplyDefaultFallback(t *testing.T) {
	reply := Reply("salom, qalaysiz?", profileWith("Aziz", "Painnoll", "Oshqozon / hazm"))

	if !strings.Contains(reply, "umumiy tavsiya") {
		t.Errorf("expected fallback reply, got %q", reply)
	}
	if !strings.Contains(reply, "Yengil sho'rva") {
		t.Errorf("expected fallback to embed the issue meal suggestion, got %q", reply)
	}
}

func TestReplyNilProfile(t *testing.T) {
	reply := Reply("salom", nil)

	if !strings.Contains(reply, "Do'st") {
		t.Errorf("expected fallback name for nil profile, got %q", reply)
	}
}

func TestMealSuggestion(t *testing.T) {
	testCases := []struct {
		name     string
		issue    string
		expected string
	}{
		{name: "digestion branch", issue: "Oshqozon / hazm", expected: "Yengil sho'rva, jo'xori, kam yog'li ovqatlar."},
		{name: "prostate branch", issue: "Prostata", expected: "Suvni ko'proq iching, to'yimli oqsil (baliq, tovuq)."},
		{name: "detox branch", issue: "Detoks / vazn", expected: "Sabzavot, meva, kam yog'li ovqatlar."},
		{name: "bones branch", issue: "Suyak va bo'g'imlar", expected: "Kalsiyga boy ovqatlar, yog'siz sut mahsulotlari, yashil bargli sabzavotlar."},
		{name: "unset issue", issue: "", expected: "Muvozanatli ovqatlaning: oqsil, tolalar va suv."},
		{name: "unknown issue", issue: "Boshqa", expected: "Muvozanatli ovqatlaning: oqsil, tolalar va suv."},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := MealSuggestion(tc.issue); actual != tc.expected {
				t.Errorf("MealSuggestion(%q) = %q, expected %q", tc.issue, actual, tc.expected)
			}
		})
	}
}
