package utils

import (
	"medbook-service/internal/pkg/constvars"
	"time"
)

// TruncateToDay drops any time-of-day component, keeping the UTC calendar
// day. Slot matching is by day only, which keeps a booking made with a full
// timestamp from missing a slot stored at midnight.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDateOnly accepts either a plain calendar day (YYYY-MM-DD) or a full
// RFC3339 timestamp and returns the truncated day.
func ParseDateOnly(value string) (time.Time, error) {
	if t, err := time.Parse(constvars.DateOnlyFormat, value); err == nil {
		return TruncateToDay(t), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDay(t), nil
}

// ParseSlotTime validates a discrete slot time label such as "10:00".
func ParseSlotTime(value string) (string, error) {
	t, err := time.Parse(constvars.SlotTimeFormat, value)
	if err != nil {
		return "", err
	}
	return t.Format(constvars.SlotTimeFormat), nil
}
