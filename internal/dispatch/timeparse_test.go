package dispatch

import (
	"testing"
	"time"
)

func TestParseReminderTimeRelative(t *testing.T) {
	due, phrase, _, ok := parseReminderTime("30 dakika sonra çay içmeyi hatırlat", testNow)
	if !ok {
		t.Fatal("expected a match")
	}
	if want := testNow.Add(30 * time.Minute); !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
	if phrase != "30 dakika sonra" {
		t.Fatalf("phrase = %q", phrase)
	}

	due, phrase, _, ok = parseReminderTime("2 saat sonra beni uyar", testNow)
	if !ok || !due.Equal(testNow.Add(2*time.Hour)) {
		t.Fatalf("hours: due = %v ok = %v", due, ok)
	}
	if phrase != "2 saat sonra" {
		t.Fatalf("hours phrase = %q", phrase)
	}
}

func TestParseReminderTimeShortUnits(t *testing.T) {
	due, _, _, ok := parseReminderTime("15 dk sonra hatırlat", testNow)
	if !ok || !due.Equal(testNow.Add(15*time.Minute)) {
		t.Fatalf("dk: due = %v ok = %v", due, ok)
	}
	due, _, _, ok = parseReminderTime("3 sa sonra hatırlat", testNow)
	if !ok || !due.Equal(testNow.Add(3*time.Hour)) {
		t.Fatalf("sa: due = %v ok = %v", due, ok)
	}
}

func TestParseReminderTimeTomorrow(t *testing.T) {
	due, phrase, _, ok := parseReminderTime("yarın ilaç içmeyi hatırlat", testNow)
	if !ok {
		t.Fatal("expected a match")
	}
	next := testNow.AddDate(0, 0, 1)
	want := time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, testNow.Location())
	if !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
	if phrase != "yarın saat 09:00'da" {
		t.Fatalf("phrase = %q", phrase)
	}
}

func TestParseReminderTimeClock(t *testing.T) {
	// testNow is 14:30; 16.45 is still ahead today.
	due, phrase, _, ok := parseReminderTime("16.45 gibi hatırlat", testNow)
	if !ok {
		t.Fatal("expected a match")
	}
	want := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 16, 45, 0, 0, testNow.Location())
	if !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
	if phrase != "saat 16:45'te" {
		t.Fatalf("phrase = %q", phrase)
	}
}

func TestParseReminderTimeClockRollsToTomorrow(t *testing.T) {
	// 08.00 already passed at 14:30, so the due date moves a day forward.
	due, _, _, ok := parseReminderTime("8.00 hatırlat", testNow)
	if !ok {
		t.Fatal("expected a match")
	}
	want := time.Date(testNow.Year(), testNow.Month(), testNow.Day()+1, 8, 0, 0, 0, testNow.Location())
	if !due.Equal(want) {
		t.Fatalf("due = %v, want %v", due, want)
	}
}

func TestParseReminderTimeInvalidClock(t *testing.T) {
	if _, _, _, ok := parseReminderTime("25.99 hatırlat", testNow); ok {
		t.Fatal("out-of-range clock must not match")
	}
}

func TestParseReminderTimeNoExpression(t *testing.T) {
	if _, _, _, ok := parseReminderTime("ilaç içmeyi hatırlat", testNow); ok {
		t.Fatal("text without a time expression must not match")
	}
}

func TestExtractReminderLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"30 dakika sonra çay içmeyi hatırlat", "sonra çay içmeyi"},
		{"yarın ilaç içmeyi hatırlat", "ilaç içmeyi"},
		{"16.45 toplantı için alarm kur", "toplantı için kur"},
		{"30 dakika hatırlat", "Hatırlatıcı"},
	}
	for _, tc := range cases {
		_, _, expr, ok := parseReminderTime(tc.in, testNow)
		if !ok {
			t.Fatalf("parseReminderTime(%q): no match", tc.in)
		}
		if got := extractReminderLabel(tc.in, expr); got != tc.want {
			t.Fatalf("extractReminderLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractReminderLabelKeepsOtherBranchWords(t *testing.T) {
	// Scheduled via the minutes branch, so "yarın" belongs to the label.
	in := "30 dakika sonra yarın sınav var diye hatırlat"
	_, _, expr, ok := parseReminderTime(in, testNow)
	if !ok {
		t.Fatal("expected a match")
	}
	if got := extractReminderLabel(in, expr); got != "sonra yarın sınav var diye" {
		t.Fatalf("label = %q, want yarın kept", got)
	}
}
