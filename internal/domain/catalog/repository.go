package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var (
	ErrNotFound = appointment.ErrNotFound
	ErrStorage  = appointment.ErrStorage
	// ErrDuplicate is returned when a unique column (slug, email) is taken.
	ErrDuplicate = errors.New("duplicate key")
)

// AuditFilter narrows ListAuditLogs. Zero values mean "any".
type AuditFilter struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// Repository covers the shop's reference data: barbers, services, the
// weekly availability rules, time off, staff accounts and the audit trail.
type Repository interface {
	// -------- Barbers --------
	ListBarbers(ctx context.Context, includeInactive bool) ([]models.Barber, error)
	GetBarber(ctx context.Context, id uuid.UUID) (*models.Barber, error)
	CreateBarber(ctx context.Context, b *models.Barber) error
	UpdateBarber(ctx context.Context, b *models.Barber) error

	// -------- Services --------
	ListServices(ctx context.Context, includeInactive bool) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error

	// -------- Availability windows --------
	ListWindows(ctx context.Context, barberID uuid.UUID) ([]models.AvailabilityWindow, error)
	CreateWindow(ctx context.Context, w *models.AvailabilityWindow) error
	// DeleteWindow only removes the window when it belongs to barberID.
	DeleteWindow(ctx context.Context, barberID, id uuid.UUID) error

	// -------- Time off --------
	ListTimeOff(ctx context.Context, barberID uuid.UUID) ([]models.TimeOff, error)
	CreateTimeOff(ctx context.Context, t *models.TimeOff) error
	DeleteTimeOff(ctx context.Context, barberID, id uuid.UUID) error

	// -------- Staff --------
	GetStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	CreateStaff(ctx context.Context, u *models.StaffUser) error

	// -------- Audit --------
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error)
}
