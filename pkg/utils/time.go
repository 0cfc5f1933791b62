package utils

import (
	"fmt"
	"time"
)

// ParseSince accepts an RFC3339 timestamp or a bare YYYY-MM-DD date (UTC
// midnight). An empty string yields the zero time.
func ParseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("since must be RFC3339 or YYYY-MM-DD, got %q", s)
}
