// Package utils provides utility functions for the skyview application.
package utils //nolint:revive // utils is a common and acceptable package name

import (
	"fmt"
	"strings"
	"time"
)

// ParseObservationTime parses a timezone-aware RFC 3339 timestamp.
// An empty string yields now() converted to UTC.
func ParseObservationTime(s string, now func() time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now().UTC(), nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("observation time must be RFC 3339 with a UTC offset (e.g. 2024-03-20T12:00:00Z): %w", err)
	}
	return t, nil
}

// FormatUTC formats t in UTC as RFC 3339.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
