package timeutil

import (
	"fmt"
	"time"
)

// ParseError reports a timestamp string that could not be normalized.
// It is non-fatal: callers log it and treat the value as absent.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a timestamp", e.Raw)
}

// layouts are the accepted textual encodings, tried in order. Zone-less
// forms are treated as already UTC rather than local time; callers must
// supply UTC-equivalent strings or explicit offsets.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize parses raw into a canonical UTC timestamp. An empty string
// yields (nil, nil): absence is not an error. A malformed string yields
// (nil, *ParseError).
func Normalize(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			continue
		}
		u := t.UTC()
		return &u, nil
	}

	return nil, &ParseError{Raw: raw}
}

// FormatUTC renders t in the canonical RFC 3339 UTC form used for
// persistence and display.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
