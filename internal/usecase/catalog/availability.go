package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Time off kinds.
const (
	KindTimeOff = "time_off"
	KindSick    = "sick"
	KindOther   = "other"
)

type WindowInput struct {
	DayOfWeek    int
	StartMinutes int
	EndMinutes   int
}

func (in WindowInput) validate() error {
	fields := map[string]string{}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		fields["dayOfWeek"] = "must be between 0 (Sunday) and 6 (Saturday)"
	}
	if in.StartMinutes < 0 || in.StartMinutes >= timewindow.MinutesPerDay {
		fields["startMinutes"] = "must be between 0 and 1439"
	}
	if in.EndMinutes < 0 || in.EndMinutes > timewindow.MinutesPerDay {
		fields["endMinutes"] = "must be between 0 and 1440"
	} else if in.EndMinutes <= in.StartMinutes {
		fields["endMinutes"] = "must be after startMinutes"
	}
	if len(fields) > 0 {
		return httperr.Validation("invalid_input", fields)
	}
	return nil
}

type TimeOffInput struct {
	StartDate timezone.Date
	EndDate   timezone.Date
	Kind      string
	Notes     string
}

func (in TimeOffInput) validate() error {
	fields := map[string]string{}
	if in.StartDate.IsZero() {
		fields["startDate"] = "is required"
	}
	if in.EndDate.IsZero() {
		fields["endDate"] = "is required"
	} else if in.EndDate.Before(in.StartDate) {
		fields["endDate"] = "must not be before startDate"
	}
	switch in.Kind {
	case "", KindTimeOff, KindSick, KindOther:
	default:
		fields["type"] = "must be one of time_off, sick, other"
	}
	if len(in.Notes) > 500 {
		fields["notes"] = "must be at most 500 characters"
	}
	if len(fields) > 0 {
		return httperr.Validation("invalid_input", fields)
	}
	return nil
}

// Availability manages a barber's weekly windows and time off. Every write
// drops the barber's cached slots.
type Availability struct {
	deps Deps
}

func NewAvailability(deps Deps) *Availability {
	return &Availability{deps: deps.withDefaults()}
}

func (uc *Availability) barber(ctx context.Context, id uuid.UUID) error {
	_, err := uc.deps.Repo.GetBarber(ctx, id)
	return repoErr(err, "barber_not_found", "")
}

// -------- Windows --------

func (uc *Availability) ListWindows(ctx context.Context, barberID uuid.UUID) ([]models.AvailabilityWindow, error) {
	if err := uc.barber(ctx, barberID); err != nil {
		return nil, err
	}
	out, err := uc.deps.Repo.ListWindows(ctx, barberID)
	if err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}
	if out == nil {
		out = []models.AvailabilityWindow{}
	}
	return out, nil
}

func (uc *Availability) AddWindow(
	ctx context.Context,
	barberID uuid.UUID,
	in WindowInput,
	actorID *uuid.UUID,
) (*models.AvailabilityWindow, error) {

	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := uc.barber(ctx, barberID); err != nil {
		return nil, err
	}

	w := models.AvailabilityWindow{
		BarberID:     barberID,
		DayOfWeek:    in.DayOfWeek,
		StartMinutes: in.StartMinutes,
		EndMinutes:   in.EndMinutes,
	}
	if err := uc.deps.Repo.CreateWindow(ctx, &w); err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}
	uc.deps.invalidate(ctx, barberID)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "availability_window_added",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"day_of_week": w.DayOfWeek, "start": w.StartMinutes, "end": w.EndMinutes},
	})
	return &w, nil
}

func (uc *Availability) DeleteWindow(ctx context.Context, barberID, windowID uuid.UUID, actorID *uuid.UUID) error {
	if err := uc.deps.Repo.DeleteWindow(ctx, barberID, windowID); err != nil {
		return repoErr(err, "window_not_found", "")
	}
	uc.deps.invalidate(ctx, barberID)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "availability_window_deleted",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"window_id": windowID},
	})
	return nil
}

// -------- Time off --------

func (uc *Availability) ListTimeOff(ctx context.Context, barberID uuid.UUID) ([]models.TimeOff, error) {
	if err := uc.barber(ctx, barberID); err != nil {
		return nil, err
	}
	out, err := uc.deps.Repo.ListTimeOff(ctx, barberID)
	if err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}
	if out == nil {
		out = []models.TimeOff{}
	}
	return out, nil
}

func (uc *Availability) AddTimeOff(
	ctx context.Context,
	barberID uuid.UUID,
	in TimeOffInput,
	actorID *uuid.UUID,
) (*models.TimeOff, error) {

	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := uc.barber(ctx, barberID); err != nil {
		return nil, err
	}

	kind := in.Kind
	if kind == "" {
		kind = KindTimeOff
	}
	t := models.TimeOff{
		BarberID:  barberID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Kind:      kind,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		t.Notes = &notes
	}

	if err := uc.deps.Repo.CreateTimeOff(ctx, &t); err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}
	uc.deps.invalidate(ctx, barberID)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "time_off_added",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"start_date": t.StartDate, "end_date": t.EndDate, "type": t.Kind},
	})
	uc.deps.Log.Info("time off added",
		"barber_id", barberID,
		"start_date", t.StartDate.String(),
		"end_date", t.EndDate.String(),
	)
	return &t, nil
}

func (uc *Availability) DeleteTimeOff(ctx context.Context, barberID, timeOffID uuid.UUID, actorID *uuid.UUID) error {
	if err := uc.deps.Repo.DeleteTimeOff(ctx, barberID, timeOffID); err != nil {
		return repoErr(err, "time_off_not_found", "")
	}
	uc.deps.invalidate(ctx, barberID)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "time_off_deleted",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"time_off_id": timeOffID},
	})
	return nil
}
