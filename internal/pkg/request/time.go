package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Accepted layouts, most specific first. Timestamps without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Timestamp is an ISO 8601 instant that tolerates a missing zone offset.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses s using the accepted ISO 8601 layouts.
// Results are truncated to microseconds, the resolution Postgres stores.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
