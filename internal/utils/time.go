package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// TodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func TodayInTimezone(timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc).Format(constants.DateFormat), nil
}

// ParseDate parses a calendar date (YYYY-MM-DD). The result is midnight UTC so
// that day arithmetic is never affected by DST transitions.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// FormatDate formats t as a calendar date (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ValidateDateFormat checks if the string is a valid calendar date.
// Non-canonical inputs such as "2026-1-5" are rejected.
func ValidateDateFormat(dateStr string) bool {
	t, err := ParseDate(dateStr)
	return err == nil && FormatDate(t) == dateStr
}

// WeekBounds returns the Sunday and Saturday of the week containing date.
func WeekBounds(date string) (string, string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	start := t.AddDate(0, 0, -int(t.Weekday()))
	end := start.AddDate(0, 0, 6)
	return FormatDate(start), FormatDate(end), nil
}

// RangesOverlap reports whether two inclusive date ranges share a calendar day.
// Dates must already be in YYYY-MM-DD form, where string order is date order.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && aEnd >= bStart
}
