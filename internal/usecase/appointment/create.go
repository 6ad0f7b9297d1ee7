package appointment

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarberID  uuid.UUID
	ServiceID uuid.UUID

	// DurationMinutes is copied onto the appointment. Zero means the
	// service's own duration.
	DurationMinutes int

	ClientName  string
	ClientPhone string
	ClientEmail string

	StartAt  time.Time
	IsWalkIn bool
	Notes    string

	ActorID *uuid.UUID
}

func (in CreateAppointmentInput) validate() error {
	fields := map[string]string{}

	name := strings.TrimSpace(in.ClientName)
	switch {
	case name == "":
		fields["clientName"] = "is required"
	case len(name) > 200:
		fields["clientName"] = "must be at most 200 characters"
	}
	if len(in.ClientPhone) > 50 {
		fields["clientPhone"] = "must be at most 50 characters"
	}
	if in.ClientEmail != "" {
		if _, err := mail.ParseAddress(in.ClientEmail); err != nil {
			fields["clientEmail"] = "must be a valid email"
		}
	}
	if len(in.Notes) > 500 {
		fields["notes"] = "must be at most 500 characters"
	}
	if in.StartAt.IsZero() {
		fields["startAt"] = "is required"
	}
	if in.DurationMinutes != 0 {
		if err := domain.ValidateDuration(in.DurationMinutes); err != nil {
			fields["durationMinutes"] = "must be between 15 and 120"
		}
	}

	if len(fields) > 0 {
		return httperr.Validation("invalid_input", fields)
	}
	return nil
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps.withDefaults()}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	uc.deps.Metrics.BookingOutcome("create", outcome(err))

	if httperr.KindOf(err) == httperr.KindConflict {
		uc.deps.Log.Warn("booking conflict",
			"barber_id", in.BarberID,
			"start_at", in.StartAt.UTC(),
		)
		uc.deps.Audit.Dispatch(audit.Event{
			ActorID:  in.ActorID,
			Action:   "appointment_conflict",
			Entity:   "barber",
			EntityID: &in.BarberID,
			Metadata: map[string]any{"start_at": in.StartAt.UTC(), "walk_in": in.IsWalkIn},
		})
	}
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// 1. input
	if err := in.validate(); err != nil {
		return nil, err
	}

	// 2. barber and service
	barber, err := uc.deps.Repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, repoErr(err, "barber_not_found")
	}
	if !barber.IsActive {
		return nil, httperr.Field("barber_inactive", "barberId", "barber is not taking bookings")
	}

	service, err := uc.deps.Repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, repoErr(err, "service_not_found")
	}
	if !service.IsActive {
		return nil, httperr.Field("service_inactive", "serviceId", "service is not available")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = service.DurationMinutes
	}
	if err := domain.ValidateDuration(duration); err != nil {
		return nil, err
	}

	span := timewindow.NewInterval(in.StartAt.UTC(), duration)

	ap := &models.Appointment{
		BarberID:        barber.ID,
		ServiceID:       service.ID,
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientPhone:     optional(in.ClientPhone),
		ClientEmail:     optional(in.ClientEmail),
		StartAt:         span.Start,
		EndAt:           span.End,
		DurationMinutes: duration,
		IsWalkIn:        in.IsWalkIn,
		Status:          string(domain.InitialStatus()),
		Notes:           optional(in.Notes),
	}

	// 3. conflict check and insert under the barber lock
	err = uc.deps.Repo.InBarberTx(ctx, barber.ID, func(ctx context.Context, tx domain.Repository) error {
		existing, err := tx.ListConfirmedAppointments(ctx, domain.AppointmentFilter{
			BarberID: &barber.ID,
			From:     span.Start.Add(-domain.MaxAppointmentSpan),
			To:       span.End,
		})
		if err != nil {
			return err
		}
		if domain.FindConflict(span, existing, uuid.Nil) != nil {
			return domain.ErrOverlap
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorage) {
			uc.deps.Log.Error("create appointment", "barber_id", barber.ID, "error", err)
		}
		return nil, repoErr(err, "barber_not_found")
	}

	ap.Barber = barber
	ap.Service = service

	// 4. side effects
	if err := uc.deps.Cache.Invalidate(ctx, barber.ID); err != nil {
		uc.deps.Log.Warn("slot cache invalidate failed", "barber_id", barber.ID, "error", err)
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"barber_id": barber.ID, "walk_in": in.IsWalkIn},
	})

	uc.deps.Log.Info("appointment created",
		"appointment_id", ap.ID,
		"barber_id", barber.ID,
		"start_at", ap.StartAt,
		"walk_in", ap.IsWalkIn,
	)

	return ap, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
