// Package months normalizes calendar-month handling. Budget structures are
// keyed by the first day of the month and transaction queries use half-open
// month windows, so every caller goes through these helpers.
package months

import (
	"fmt"
	"time"
)

// Layout is the wire format for months in query strings and JSON.
const Layout = "2006-01"

// Normalize truncates a time to the first day of its month, UTC midnight.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Window returns the half-open interval [first of month, first of next month)
// covering the given month. Time-of-day on the input is discarded.
func Window(month time.Time) (time.Time, time.Time) {
	start := Normalize(month)
	return start, start.AddDate(0, 1, 0)
}

// Parse converts a "YYYY-MM" string to the first day of that month.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return Normalize(t), nil
}

// Format renders a month as "YYYY-MM".
func Format(month time.Time) string {
	return month.Format(Layout)
}
