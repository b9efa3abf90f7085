package render

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
}

// ParseDate reads a backend date, either a plain date or a timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShortDate formats a date the Indonesian way, e.g. "Sen, 15 Jan 2024".
// Unparsable dates are returned untouched.
func ShortDate(s string) string {
	if s == "" {
		return MissingValue
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%s, %d %s %d", shortDays[t.Weekday()], t.Day(), shortMonths[t.Month()-1], t.Year())
}

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if strings.TrimSpace(s) == "" {
		return MissingValue
	}
	return s
}

// CheckInOut joins the check in and check out times.
func CheckInOut(in, out string) string {
	switch {
	case in == "":
		return MissingValue
	case out == "":
		return in
	default:
		return in + " - " + out
	}
}

// Truncate truncates a string to max runes
func Truncate(s string, max int) string {
	rr := []rune(s)
	if len(rr) <= max {
		return s
	}
	if max <= 3 {
		return string(rr[:max])
	}
	return string(rr[:max-3]) + "..."
}
