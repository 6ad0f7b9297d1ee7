package appointment

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const (
	// SlotStepMinutes is the candidate grid. It does not depend on the
	// requested duration.
	SlotStepMinutes = 30

	MinDurationMinutes = 15
	MaxDurationMinutes = 120
)

// StoreHours bounds every slot of every barber.
type StoreHours struct {
	Window   timewindow.Window
	Location *time.Location
}

func DefaultStoreHours(loc *time.Location) StoreHours {
	return StoreHours{
		Window:   timewindow.Window{Start: 9 * 60, End: 20 * 60},
		Location: loc,
	}
}

// Bounds returns the open and close instants of date.
func (s StoreHours) Bounds(date timezone.Date) (time.Time, time.Time) {
	return date.At(s.Window.Start, s.Location), date.At(s.Window.End, s.Location)
}

// DayPlan is everything the resolver needs for one barber on one date.
type DayPlan struct {
	Date            timezone.Date
	DurationMinutes int
	Store           StoreHours

	// HasWindows is true when the barber has any availability window on
	// any weekday.
	HasWindows bool
	DayWindows []timewindow.Window
	OnTimeOff  bool

	Booked []models.Appointment
}

func ValidateDuration(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return httperr.Field("invalid_duration", "durationMinutes", "must be between 15 and 120")
	}
	return nil
}

// EffectiveWindows applies the default-open policy and clamps the barber's
// windows to store hours. The result is sorted by start and may overlap.
func EffectiveWindows(p DayPlan) []timewindow.Window {
	if p.OnTimeOff {
		return nil
	}
	if !p.HasWindows {
		return []timewindow.Window{p.Store.Window}
	}

	out := make([]timewindow.Window, 0, len(p.DayWindows))
	for _, w := range p.DayWindows {
		if clamped, ok := timewindow.Intersect(w, p.Store.Window); ok {
			out = append(out, clamped)
		}
	}
	timewindow.SortByStart(out)
	return out
}

// ComputeSlots lists bookable start instants in UTC, ascending. Overlapping
// windows each generate their own candidates and duplicates are dropped.
func ComputeSlots(p DayPlan) []time.Time {
	slots := []time.Time{}
	seen := map[int]bool{}

	for _, w := range EffectiveWindows(p) {
		for m := w.Start; m+p.DurationMinutes <= w.End; m += SlotStepMinutes {
			if seen[m] {
				continue
			}
			seen[m] = true

			start := p.Date.At(m, p.Store.Location)
			candidate := timewindow.NewInterval(start, p.DurationMinutes)
			if FindConflict(candidate, p.Booked, uuid.Nil) != nil {
				continue
			}
			slots = append(slots, start.UTC())
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}
