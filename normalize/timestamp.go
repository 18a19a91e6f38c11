package normalize

import (
	"fmt"
	"time"
)

// timestampLayout renders millisecond precision with a UTC marker.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseTime parses an exchange timestamp. The exchange usually reports
// times like "2015-03-21T17:37:39.9170000" with no zone marker; those are
// UTC. Timestamps carrying a zone marker are honored.
func ParseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	// No zone marker: parse as UTC. time.Parse accepts fractional seconds
	// of any width even when the layout omits them.
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", raw, err)
	}
	return t, nil
}

// FormatTimestamp renders a time in the canonical ISO-8601 UTC form with
// millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NormalizeTimestamp converts an exchange timestamp to the canonical
// ISO-8601 UTC form.
func NormalizeTimestamp(raw string) (string, error) {
	t, err := ParseTime(raw)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}
