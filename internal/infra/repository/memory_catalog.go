package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// AddAuditLog seeds the audit trail.
func (r *MemoryRepository) AddAuditLog(l models.AuditLog) models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.auditLogs = append(r.auditLogs, l)
	return l
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *MemoryRepository) ListBarbers(ctx context.Context, includeInactive bool) ([]models.Barber, error) {
	if !includeInactive {
		return r.ListActiveBarbers(ctx)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	out := make([]models.Barber, 0, len(r.barbers))
	for _, b := range r.barbers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	for _, other := range r.barbers {
		if other.Slug == b.Slug {
			return catalog.ErrDuplicate
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.barbers[b.ID] = *b
	return nil
}

func (r *MemoryRepository) UpdateBarber(ctx context.Context, b *models.Barber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if _, ok := r.barbers[b.ID]; !ok {
		return catalog.ErrNotFound
	}
	for id, other := range r.barbers {
		if id != b.ID && other.Slug == b.Slug {
			return catalog.ErrDuplicate
		}
	}
	b.UpdatedAt = time.Now()
	r.barbers[b.ID] = *b
	return nil
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *MemoryRepository) ListServices(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	out := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		if includeInactive || s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) CreateService(ctx context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	for _, other := range r.services {
		if other.Slug == s.Slug {
			return catalog.ErrDuplicate
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	r.services[s.ID] = *s
	return nil
}

func (r *MemoryRepository) UpdateService(ctx context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if _, ok := r.services[s.ID]; !ok {
		return catalog.ErrNotFound
	}
	for id, other := range r.services {
		if id != s.ID && other.Slug == s.Slug {
			return catalog.ErrDuplicate
		}
	}
	s.UpdatedAt = time.Now()
	r.services[s.ID] = *s
	return nil
}

// --------------------------------------------------
// Availability windows
// --------------------------------------------------

func (r *MemoryRepository) ListWindows(ctx context.Context, barberID uuid.UUID) ([]models.AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	out := []models.AvailabilityWindow{}
	for _, w := range r.windows {
		if w.BarberID == barberID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartMinutes < out[j].StartMinutes
	})
	return out, nil
}

func (r *MemoryRepository) CreateWindow(ctx context.Context, w *models.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now
	r.windows = append(r.windows, *w)
	return nil
}

func (r *MemoryRepository) DeleteWindow(ctx context.Context, barberID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	for i, w := range r.windows {
		if w.ID == id && w.BarberID == barberID {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *MemoryRepository) ListTimeOff(ctx context.Context, barberID uuid.UUID) ([]models.TimeOff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	out := []models.TimeOff{}
	for _, t := range r.timeOff {
		if t.BarberID == barberID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *MemoryRepository) CreateTimeOff(ctx context.Context, t *models.TimeOff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.timeOff = append(r.timeOff, *t)
	return nil
}

func (r *MemoryRepository) DeleteTimeOff(ctx context.Context, barberID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	for i, t := range r.timeOff {
		if t.ID == id && t.BarberID == barberID {
			r.timeOff = append(r.timeOff[:i], r.timeOff[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *MemoryRepository) GetStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	for _, u := range r.staff {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *MemoryRepository) CreateStaff(ctx context.Context, u *models.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	for _, other := range r.staff {
		if other.Email == u.Email {
			return catalog.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.staff[u.ID] = *u
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *MemoryRepository) ListAuditLogs(
	ctx context.Context,
	filter catalog.AuditFilter,
) ([]models.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, 0, err
	}

	var matched []models.AuditLog
	for _, l := range r.auditLogs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Entity != "" && l.Entity != filter.Entity {
			continue
		}
		if !filter.From.IsZero() && l.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !l.CreatedAt.Before(filter.To) {
			continue
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := min(filter.Offset, len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return append([]models.AuditLog{}, matched[start:end]...), total, nil
}
