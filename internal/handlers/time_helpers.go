package handlers

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// isoLayout matches what browsers produce with Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// parseInstant accepts RFC 3339 with an explicit offset. Wall-clock
// strings without a zone are rejected instead of guessed.
func parseInstant(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, httperr.Field("invalid_input", field, "must be an ISO-8601 instant with offset")
	}
	return t.UTC(), nil
}

func parseOptionalInstant(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseInstant(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isoStrings(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.UTC().Format(isoLayout))
	}
	return out
}
