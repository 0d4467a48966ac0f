// Package dates normalizes the loosely formatted dates found in post
// frontmatter, project lists, and GitHub payloads.
package dates

import (
	"regexp"
	"strings"
	"time"
)

const (
	// ISOLayout is the manifest date format.
	ISOLayout = "2006-01-02"
	// DisplayLayout is the human-readable format shown on pages.
	DisplayLayout = "Jan 2, 2006"
	// Placeholder is shown wherever a date is missing.
	Placeholder = "TBD"
)

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"January 2, 2006",
	DisplayLayout,
	"2 January 2006",
	"2006/01/02",
}

// ParseDate parses value as a calendar date. A bare YYYY-MM-DD value is read
// as that calendar day with no timezone adjustment. Timestamps are converted
// to UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if reISODate.MatchString(value) {
		t, err := time.Parse(ISOLayout, value)
		return t, err == nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders value as "Jan 2, 2006". Values that cannot be
// parsed are returned unchanged; an empty value yields the placeholder.
func FormatDisplayDate(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		if strings.TrimSpace(value) == "" {
			return Placeholder
		}
		return value
	}
	return t.Format(DisplayLayout)
}

// CoerceISODate returns value as YYYY-MM-DD, falling back to fallback when
// value cannot be parsed, and to "" when neither can.
func CoerceISODate(value, fallback string) string {
	if v := strings.TrimSpace(value); reISODate.MatchString(v) {
		return v
	}
	if t, ok := ParseDate(value); ok {
		return t.Format(ISOLayout)
	}
	if t, ok := ParseDate(fallback); ok {
		return t.Format(ISOLayout)
	}
	return ""
}

// SortKey returns the unix time of an ISO date, or 0 when it is missing so
// undated entries sort last in descending order.
func SortKey(iso string) int64 {
	t, ok := ParseDate(iso)
	if !ok {
		return 0
	}
	return t.Unix()
}
