package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *CatalogGormRepository) ListBarbers(ctx context.Context, includeInactive bool) ([]models.Barber, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var out []models.Barber
	if err := q.Order("sort_order ASC, name ASC").Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *CatalogGormRepository) GetBarber(ctx context.Context, id uuid.UUID) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

// CreateBarber selects every column so an explicit is_active=false is not
// replaced by the column default.
func (r *CatalogGormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	return mapErr(r.db.WithContext(ctx).Select("*").Omit(clause.Associations).Create(b).Error)
}

func (r *CatalogGormRepository) UpdateBarber(ctx context.Context, b *models.Barber) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var out []models.Service
	if err := q.Order("sort_order ASC, name ASC").Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *CatalogGormRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return mapErr(r.db.WithContext(ctx).Select("*").Create(s).Error)
}

func (r *CatalogGormRepository) UpdateService(ctx context.Context, s *models.Service) error {
	return mapErr(r.db.WithContext(ctx).Save(s).Error)
}

// --------------------------------------------------
// Availability windows
// --------------------------------------------------

func (r *CatalogGormRepository) ListWindows(ctx context.Context, barberID uuid.UUID) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("day_of_week ASC, start_minutes ASC").
		Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *CatalogGormRepository) CreateWindow(ctx context.Context, w *models.AvailabilityWindow) error {
	return mapErr(r.db.WithContext(ctx).Create(w).Error)
}

func (r *CatalogGormRepository) DeleteWindow(ctx context.Context, barberID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		Delete(&models.AvailabilityWindow{})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *CatalogGormRepository) ListTimeOff(ctx context.Context, barberID uuid.UUID) ([]models.TimeOff, error) {
	var out []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *CatalogGormRepository) CreateTimeOff(ctx context.Context, t *models.TimeOff) error {
	return mapErr(r.db.WithContext(ctx).Create(t).Error)
}

func (r *CatalogGormRepository) DeleteTimeOff(ctx context.Context, barberID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		Delete(&models.TimeOff{})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *CatalogGormRepository) GetStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var u models.StaffUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *CatalogGormRepository) CreateStaff(ctx context.Context, u *models.StaffUser) error {
	return mapErr(r.db.WithContext(ctx).Create(u).Error)
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *CatalogGormRepository) ListAuditLogs(
	ctx context.Context,
	filter catalog.AuditFilter,
) ([]models.AuditLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapErr(err)
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, mapErr(err)
	}
	return logs, total, nil
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
