package timeutil

import (
	"fmt"
	"time"
)

// DayStart returns midnight of t's calendar day in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Monday of t's week. Weeks run
// Monday through Sunday.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return DayStart(t).AddDate(0, 0, -(weekday - 1))
}

// MonthStart returns midnight of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the midnight of every calendar day from start's day
// through end's day, inclusive. Returns nil if end's day precedes start's day.
func DaysBetween(start, end time.Time) []time.Time {
	first := DayStart(start)
	last := DayStart(end)
	if last.Before(first) {
		return nil
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayKey formats t as a stable per-day bucket key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DayLabel returns the short weekday name for trend-chart labeling.
func DayLabel(t time.Time) string {
	return t.Format("Mon")
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatSeconds renders a duration in seconds as a compact single-unit
// string: "45s", "12m", "3h".
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// FormatClock renders a duration in seconds as HH:MM:SS for timer displays.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
