package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// UpdateAppointmentInput mirrors PATCH /appointments/:id. Nil fields are
// left alone. A new start without a new end keeps the current duration.
type UpdateAppointmentInput struct {
	ID      uuid.UUID
	StartAt *time.Time
	EndAt   *time.Time
	Status  *string

	ActorID *uuid.UUID
}

type UpdateAppointment struct {
	deps Deps
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	return &UpdateAppointment{deps: deps.withDefaults()}
}

// Reschedule moves a confirmed appointment to [start, end).
func (uc *UpdateAppointment) Reschedule(
	ctx context.Context,
	id uuid.UUID,
	start, end time.Time,
	actorID *uuid.UUID,
) (*models.Appointment, error) {
	return uc.Execute(ctx, UpdateAppointmentInput{ID: id, StartAt: &start, EndAt: &end, ActorID: actorID})
}

// SetStatus applies a status transition. Repeating the current status,
// e.g. cancelling twice, succeeds without writing anything.
func (uc *UpdateAppointment) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.Status,
	actorID *uuid.UUID,
) (*models.Appointment, error) {
	s := string(status)
	return uc.Execute(ctx, UpdateAppointmentInput{ID: id, Status: &s, ActorID: actorID})
}

func (uc *UpdateAppointment) Cancel(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Appointment, error) {
	return uc.SetStatus(ctx, id, domain.StatusCancelled, actorID)
}

func (uc *UpdateAppointment) Complete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Appointment, error) {
	return uc.SetStatus(ctx, id, domain.StatusCompleted, actorID)
}

func (uc *UpdateAppointment) MarkNoShow(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Appointment, error) {
	return uc.SetStatus(ctx, id, domain.StatusNoShow, actorID)
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, actions, err := uc.execute(ctx, in)
	uc.deps.Metrics.BookingOutcome("update", outcome(err))
	if err != nil {
		if httperr.KindOf(err) == httperr.KindConflict {
			uc.deps.Log.Warn("reschedule conflict", "appointment_id", in.ID)
			uc.deps.Audit.Dispatch(audit.Event{
				ActorID:  in.ActorID,
				Action:   "appointment_conflict",
				Entity:   "appointment",
				EntityID: &in.ID,
			})
		}
		return nil, err
	}

	if len(actions) == 0 {
		return ap, nil
	}

	if err := uc.deps.Cache.Invalidate(ctx, ap.BarberID); err != nil {
		uc.deps.Log.Warn("slot cache invalidate failed", "barber_id", ap.BarberID, "error", err)
	}
	for _, action := range actions {
		uc.deps.Audit.Dispatch(audit.Event{
			ActorID:  in.ActorID,
			Action:   action,
			Entity:   "appointment",
			EntityID: &ap.ID,
			Metadata: map[string]any{"status": ap.Status, "start_at": ap.StartAt, "end_at": ap.EndAt},
		})
	}
	uc.deps.Log.Info("appointment updated",
		"appointment_id", ap.ID,
		"barber_id", ap.BarberID,
		"actions", actions,
	)

	return ap, nil
}

func (uc *UpdateAppointment) execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, []string, error) {

	var target *domain.Status
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, nil, err
		}
		target = &st
	}
	if in.StartAt != nil && in.EndAt != nil && !in.EndAt.After(*in.StartAt) {
		return nil, nil, httperr.Field("invalid_range", "endAt", "must be after startAt")
	}

	current, err := uc.deps.Repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, nil, repoErr(err, "appointment_not_found")
	}

	var (
		result  *models.Appointment
		actions []string
	)

	err = uc.deps.Repo.InBarberTx(ctx, current.BarberID, func(ctx context.Context, tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, in.ID)
		if err != nil {
			return err
		}
		actions = nil

		if in.StartAt != nil || in.EndAt != nil {
			span := requestedSpan(*ap, in)
			if !span.Start.Equal(ap.StartAt) || !span.End.Equal(ap.EndAt) {
				if err := uc.reschedule(ctx, tx, ap, span); err != nil {
					return err
				}
				actions = append(actions, "appointment_rescheduled")
			}
		}

		if target != nil {
			changed, err := domain.Transition(ap, *target, uc.deps.Now().UTC())
			if err != nil {
				return err
			}
			if changed {
				actions = append(actions, "appointment_"+string(*target))
			}
		}

		if len(actions) > 0 {
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
		}
		result = ap
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorage) {
			uc.deps.Log.Error("update appointment", "appointment_id", in.ID, "error", err)
		}
		return nil, nil, repoErr(err, "appointment_not_found")
	}

	return result, actions, nil
}

func requestedSpan(ap models.Appointment, in UpdateAppointmentInput) timewindow.Interval {
	span := domain.Span(ap)
	switch {
	case in.StartAt != nil && in.EndAt != nil:
		span = timewindow.Interval{Start: *in.StartAt, End: *in.EndAt}
	case in.StartAt != nil:
		span = timewindow.Interval{Start: *in.StartAt, End: in.StartAt.Add(span.Duration())}
	case in.EndAt != nil:
		span.End = *in.EndAt
	}
	span.Start = span.Start.UTC()
	span.End = span.End.UTC()
	return span
}

// reschedule checks the new span against the barber's other confirmed
// appointments. Caller holds the barber lock.
func (uc *UpdateAppointment) reschedule(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	span timewindow.Interval,
) error {

	if span.Valid() && span.Duration() > domain.MaxAppointmentSpan {
		return httperr.Field("invalid_range", "endAt", "appointment cannot exceed 24 hours")
	}
	if err := domain.Reschedule(ap, span); err != nil {
		return err
	}

	existing, err := tx.ListConfirmedAppointments(ctx, domain.AppointmentFilter{
		BarberID: &ap.BarberID,
		From:     span.Start.Add(-domain.MaxAppointmentSpan),
		To:       span.End,
	})
	if err != nil {
		return err
	}
	if domain.FindConflict(span, existing, ap.ID) != nil {
		return domain.ErrOverlap
	}
	return nil
}
