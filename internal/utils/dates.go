package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date (2024-03-01) or an RFC3339 timestamp and returns the calendar
// date at midnight UTC. Timestamps keep the date as written, the offset is not applied.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return ToDate(t), nil
}

// ToDate drops the clock part of t, keeping its calendar date in its own location.
func ToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
