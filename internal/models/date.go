package models

import "time"

// DateLayout is the wire format for calendar days throughout the engine.
const DateLayout = "2006-01-02"

// DateKey formats a time as a calendar-day key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a calendar-day key. The zero time is returned for
// malformed input alongside the error.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateLayout, key)
}
