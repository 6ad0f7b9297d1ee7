package validators

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// UUID parses an id taken from the path or query. field names the
// parameter in the error.
func UUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, httperr.Field("invalid_id", field, "must be a UUID")
	}
	return id, nil
}

// OptionalUUID returns nil for an empty value.
func OptionalUUID(field, raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := UUID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func Date(field, raw string) (timezone.Date, error) {
	if raw == "" {
		return timezone.Date{}, httperr.Field("invalid_date", field, "is required")
	}
	d, err := timezone.ParseDate(raw)
	if err != nil {
		return timezone.Date{}, httperr.Field("invalid_date", field, "must be YYYY-MM-DD")
	}
	return d, nil
}

// Int parses an optional integer; empty yields def.
func Int(field, raw string, def int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, httperr.Field("invalid_input", field, "must be an integer")
	}
	return n, nil
}
