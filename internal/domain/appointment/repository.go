package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned by writes that would give a barber two
	// overlapping confirmed appointments.
	ErrOverlap = errors.New("appointment overlaps an existing booking")
	ErrStorage = errors.New("storage failure")
)

// MaxAppointmentSpan bounds how far back a conflicting appointment can
// start. Durations are capped well below it.
const MaxAppointmentSpan = 24 * time.Hour

// AppointmentFilter selects confirmed appointments whose start lies in
// [From, To). A nil BarberID means every barber.
type AppointmentFilter struct {
	BarberID *uuid.UUID
	From     time.Time
	To       time.Time
}

type Repository interface {
	// -------- Barber / Service --------
	GetBarber(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Barber, error)

	ListActiveBarbers(
		ctx context.Context,
	) ([]models.Barber, error)

	GetService(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Service, error)

	// -------- Availability --------
	CountAvailabilityWindows(
		ctx context.Context,
		barberID uuid.UUID,
	) (int64, error)

	ListAvailabilityWindows(
		ctx context.Context,
		barberID uuid.UUID,
		weekday time.Weekday,
	) ([]models.AvailabilityWindow, error)

	ListTimeOffCovering(
		ctx context.Context,
		barberID uuid.UUID,
		date timezone.Date,
	) ([]models.TimeOff, error)

	// -------- Appointment --------
	ListConfirmedAppointments(
		ctx context.Context,
		filter AppointmentFilter,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// InBarberTx runs fn while holding the barber's write lock. Writes for
	// one barber are serialized; fn sees a repository bound to the
	// transaction.
	InBarberTx(
		ctx context.Context,
		barberID uuid.UUID,
		fn func(ctx context.Context, tx Repository) error,
	) error
}
