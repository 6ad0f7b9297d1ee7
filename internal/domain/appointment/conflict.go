package appointment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Overlaps is the only overlap test in the codebase. Intervals are half-open,
// so one ending exactly when the other starts does not overlap.
func Overlaps(a, b timewindow.Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// FindConflict returns the first confirmed appointment in existing that
// overlaps candidate, skipping exclude. It returns nil when the slot is free.
func FindConflict(
	candidate timewindow.Interval,
	existing []models.Appointment,
	exclude uuid.UUID,
) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if ap.ID == exclude && exclude != uuid.Nil {
			continue
		}
		if !Status(ap.Status).Blocks() {
			continue
		}
		if Overlaps(candidate, Span(*ap)) {
			return ap
		}
	}
	return nil
}
