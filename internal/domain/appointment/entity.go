package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to status to. It reports false with no error when ap is
// already in that status, so repeating a cancel is harmless.
func Transition(ap *models.Appointment, to Status, now time.Time) (bool, error) {
	from := Status(ap.Status)
	if from == to {
		return false, nil
	}
	if err := CanTransition(from, to); err != nil {
		return false, err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return true, nil
}

func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	return Transition(ap, StatusCancelled, now)
}

func Complete(ap *models.Appointment, now time.Time) (bool, error) {
	return Transition(ap, StatusCompleted, now)
}

func MarkNoShow(ap *models.Appointment, now time.Time) (bool, error) {
	return Transition(ap, StatusNoShow, now)
}

// Reschedule rewrites the time of a confirmed appointment. It does not check
// for conflicts; callers do that inside the barber transaction.
func Reschedule(ap *models.Appointment, to timewindow.Interval) error {
	if !to.Valid() {
		return httperr.Field("invalid_range", "endAt", "must be after startAt")
	}
	if Status(ap.Status) != StatusConfirmed {
		return httperr.Validation("invalid_state", map[string]string{
			"status": "only confirmed appointments can be moved",
		})
	}

	ap.StartAt = to.Start.UTC()
	ap.EndAt = to.End.UTC()
	ap.DurationMinutes = int(to.Duration() / time.Minute)
	return nil
}

// Span is the interval an appointment occupies.
func Span(ap models.Appointment) timewindow.Interval {
	return timewindow.Interval{Start: ap.StartAt, End: ap.EndAt}
}
