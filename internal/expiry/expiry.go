// Package expiry decides whether course and activity deadlines have
// passed. Deadlines are calendar dates: a deadline expires at the end of
// that day in the institution's fixed UTC-4 timezone, i.e. at 04:00 UTC
// of the following day. Time-of-day carried by a deadline is discarded.
package expiry

import (
	"fmt"
	"time"
)

// The institution runs on a fixed UTC-4 offset, no DST.
const offsetHours = 4

// Instant returns the exact moment a deadline expires: the UTC calendar
// date of the deadline, plus one day, at 04:00 UTC.
func Instant(deadline time.Time) time.Time {
	year, month, day := deadline.UTC().Date()
	return time.Date(year, month, day+1, offsetHours, 0, 0, 0, time.UTC)
}

// IsExpired reports whether the deadline has passed at the given instant.
// A nil deadline never expires. The boundary is inclusive: now equal to
// the expiry instant counts as expired.
func IsExpired(deadline *time.Time, now time.Time) bool {
	if deadline == nil {
		return false
	}
	return !now.UTC().Before(Instant(*deadline))
}

// ParseDeadline accepts either a bare calendar date (2006-01-02) or an
// RFC 3339 timestamp. Empty input means no deadline.
func ParseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid deadline %q", value)
}
