package planner

import (
	"strings"
	"time"

	"github.com/itlightning/dateparse"
)

// naiveLayouts are ISO-8601 forms without a zone, read in the service location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an event or task date. Zoned ISO-8601 values keep their
// instant; naive values are read in loc. Anything else goes through dateparse.
// The result is always UTC.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalid("date", "date is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := dateparse.ParseIn(value, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, invalid("date", "invalid date format")
}
