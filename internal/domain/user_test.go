package domain

import "testing"

func TestDoseForWeek(t *testing.T) {
	testCases := []struct {
		name     string
		week     int
		expected int
	}{
		{name: "first week single capsule", week: 1, expected: 1},
		{name: "second week doubles", week: 2, expected: 2},
		{name: "third week stays doubled", week: 3, expected: 2},
		{name: "late program week", week: 12, expected: 2},
		{name: "unset week treated as first", week: 0, expected: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := DoseForWeek(tc.week); actual != tc.expected {
				t.Errorf("DoseForWeek(%d) = %d, expected %d", tc.week, actual, tc.expected)
			}
		})
	}
}

func TestLabelFromText(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "morning reminder", text: "🌿 Assalomu alaykum, Aziz!\n\nErtalab tavsiya:", expected: LabelMorning},
		{name: "midday reminder", text: "Tushlik tavsiya:\n• Mahsulotingiz: Painnoll", expected: LabelMidday},
		{name: "evening reminder", text: "Kechqurun tavsiya:", expected: LabelEvening},
		{name: "unrelated text", text: "Assalomu alaykum!", expected: LabelAdHoc},
		{name: "empty text", text: "", expected: LabelAdHoc},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := LabelFromText(tc.text); actual != tc.expected {
				t.Errorf("LabelFromText(%q) = %q, expected %q", tc.text, actual, tc.expected)
			}
		})
	}
}
