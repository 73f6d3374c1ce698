package model

import "time"

const day = 24 * time.Hour

// DateOf truncates t to its calendar day in t's own location and returns
// that day as midnight UTC. Dates in this form compare and subtract without
// DST surprises and survive a round trip through a SQL date column.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b. Both must be
// values returned by DateOf. The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / day)
}
