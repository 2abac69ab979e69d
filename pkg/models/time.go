package models

import (
	"fmt"
	"time"
)

// dateLayouts are the wire formats accepted for date fields. Clients send
// either a full RFC3339 timestamp or a bare calendar date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a date string in any of the accepted wire formats.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
