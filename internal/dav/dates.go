package dav

import (
	"strings"
	"time"
)

// propDateLayouts is tried in order when reading date properties off the
// wire. Most servers send RFC 1123 (getlastmodified), a few send ISO 8601
// (creationdate), with or without fractional seconds.
var propDateLayouts = []string{
	time.RFC1123,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999Z07:00",
}

// ParsePropDate parses a date property value, trying each supported layout
// in order. The second return is false when no layout matches; an
// unparsable date is not an error, the field is simply absent.
func ParsePropDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range propDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// recordDateLayouts is the fallback order for dates in portable records:
// ISO 8601 first (the canonical encode format), then the wire formats.
var recordDateLayouts = []string{
	time.RFC3339Nano, // accepts plain `2006-01-02T15:04:05Z` too
	time.RFC1123,
}

func parseRecordDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// encodeDate is the canonical record format: ISO 8601 with fractional seconds.
func encodeDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
