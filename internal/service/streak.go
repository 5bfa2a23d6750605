package service

import (
	"time"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
)

const (
	practiceDateLayout = "2006-01-02"
	// Blobs written by the browser client store Date.toDateString() output.
	legacyPracticeDateLayout = "Mon Jan 02 2006"
)

// calendarDate truncates t to its date in loc, expressed as UTC midnight so that day
// arithmetic is unaffected by DST transitions.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parsePracticeDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{practiceDateLayout, legacyPracticeDateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// applyStreak advances the daily streak for a practice event happening at now.
// Repeats on the same calendar day leave the streak unchanged, a practice on the day
// after the last one extends it, and anything else restarts it at one.
func applyStreak(stats *models.PracticeStats, now time.Time, loc *time.Location) {
	today := calendarDate(now, loc)
	last, ok := parsePracticeDate(stats.LastPracticeDate)
	if ok && last.Equal(today) {
		return
	}
	if ok && last.Equal(today.AddDate(0, 0, -1)) {
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 1
	}
	stats.LastPracticeDate = today.Format(practiceDateLayout)
}
