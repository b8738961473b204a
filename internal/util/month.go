package util

import "time"

// MonthKeyLayout formats a time as its calendar month, e.g. "2025-03"
const MonthKeyLayout = "2006-01"

// MonthKey returns the calendar month bucket of t in UTC
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthKeyLayout)
}

// DaysForMonths converts a month count into the 30-day approximation used
// for trailing history windows
func DaysForMonths(months int) int {
	return months * 30
}
