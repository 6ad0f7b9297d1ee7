package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, nil
	}
	return "", httperr.Field("invalid_status", "status", "must be one of confirmed, completed, cancelled, no_show")
}

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Blocks reports whether an appointment in this status occupies its time.
func (s Status) Blocks() bool {
	return s == StatusConfirmed
}

func InitialStatus() Status {
	return StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanTransition allows confirmed to anything and any status to itself.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return httperr.Validation("invalid_state", map[string]string{
			"status": "appointment is already " + string(from),
		})
	}
	return nil
}
