package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Reminder time expressions, scanned in fixed priority order: relative
// minutes, relative hours, "yarın" (tomorrow 09:00), then an absolute HH.MM
// clock time. The first match wins and the rest are not evaluated.
var (
	minutesRe  = regexp.MustCompile(`(?i)(\d+)\s*(dakika|dk)`)
	hoursRe    = regexp.MustCompile(`(?i)(\d+)\s*(saat|sa)`)
	tomorrowRe = regexp.MustCompile(`(?i)yarın`)
	clockRe    = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})`)

	reminderVerbsRe = regexp.MustCompile(`(?i)(hatırlat|hatırlatıcı|alarm|uyar)`)
)

// parseReminderTime extracts the reminder's due time from text. The phrase
// describes the branch taken, in the words the assistant speaks back; expr is
// that branch's pattern, so the label keeps time words belonging to other
// branches ("yarın sınav var" stays intact when scheduled in minutes).
func parseReminderTime(text string, now time.Time) (due time.Time, phrase string, expr *regexp.Regexp, ok bool) {
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		return now.Add(time.Duration(minutes) * time.Minute), fmt.Sprintf("%d dakika sonra", minutes), minutesRe, true
	}

	if m := hoursRe.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return now.Add(time.Duration(hours) * time.Hour), fmt.Sprintf("%d saat sonra", hours), hoursRe, true
	}

	if tomorrowRe.MatchString(text) {
		next := now.AddDate(0, 0, 1)
		due = time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, now.Location())
		return due, "yarın saat 09:00'da", tomorrowRe, true
	}

	if m := clockRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return time.Time{}, "", nil, false
		}
		due = time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		// Already passed today: roll to the same time tomorrow.
		if due.Before(now) {
			due = due.AddDate(0, 0, 1)
		}
		return due, fmt.Sprintf("saat %02d:%02d'te", hour, minute), clockRe, true
	}

	return time.Time{}, "", nil, false
}

// extractReminderLabel strips trigger verbs and the matched time expression,
// leaving the free-text label. Empty leftovers get a placeholder.
func extractReminderLabel(text string, expr *regexp.Regexp) string {
	label := reminderVerbsRe.ReplaceAllString(text, "")
	if expr != nil {
		label = expr.ReplaceAllString(label, "")
	}
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		return "Hatırlatıcı"
	}
	return label
}
