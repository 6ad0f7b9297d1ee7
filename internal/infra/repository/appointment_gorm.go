package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// SQLSTATE codes raised by the appointment constraints.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// IsExclusionViolation reports whether err is Postgres rejecting a row
// through an EXCLUDE constraint.
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsUniqueViolation reports whether err is a duplicate key error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrOverlap),
		errors.Is(err, domain.ErrStorage),
		errors.Is(err, catalog.ErrDuplicate):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case IsExclusionViolation(err):
		return domain.ErrOverlap
	case IsUniqueViolation(err):
		return catalog.ErrDuplicate
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id uuid.UUID,
) (*models.Barber, error) {

	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

// ListActiveBarbers orders by sort order, then name.
func (r *AppointmentGormRepository) ListActiveBarbers(ctx context.Context) ([]models.Barber, error) {
	var out []models.Barber
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) CountAvailabilityWindows(
	ctx context.Context,
	barberID uuid.UUID,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AvailabilityWindow{}).
		Where("barber_id = ?", barberID).
		Count(&count).Error; err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

func (r *AppointmentGormRepository) ListAvailabilityWindows(
	ctx context.Context,
	barberID uuid.UUID,
	weekday time.Weekday,
) ([]models.AvailabilityWindow, error) {

	var ws []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND day_of_week = ?", barberID, int(weekday)).
		Order("start_minutes ASC").
		Find(&ws).Error; err != nil {
		return nil, mapErr(err)
	}
	return ws, nil
}

func (r *AppointmentGormRepository) ListTimeOffCovering(
	ctx context.Context,
	barberID uuid.UUID,
	date timezone.Date,
) ([]models.TimeOff, error) {

	var out []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND start_date <= ? AND end_date >= ?", barberID, date, date).
		Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListConfirmedAppointments(
	ctx context.Context,
	filter domain.AppointmentFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"status = ? AND start_at >= ? AND start_at < ?",
			string(domain.StatusConfirmed),
			filter.From,
			filter.To,
		)
	if filter.BarberID != nil {
		q = q.Where("barber_id = ?", *filter.BarberID)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}
	return apps, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error)
}

// InBarberTx locks the barber row FOR UPDATE so that check-then-write for
// one barber runs one at a time. The exclusion constraint backs it up.
func (r *AppointmentGormRepository) InBarberTx(
	ctx context.Context,
	barberID uuid.UUID,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Barber
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&b, "id = ?", barberID).Error; err != nil {
			return mapErr(err)
		}
		return fn(ctx, &AppointmentGormRepository{db: tx})
	})
	return txErr(err)
}

// txErr maps what a barber transaction returned. fn may return use-case
// errors, which pass through untouched; only raw driver errors get mapped.
func txErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || errors.Is(err, gorm.ErrRecordNotFound) {
		return mapErr(err)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
