package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// MemoryRepository is an in-process domain.Repository and catalog.Repository. It enforces the same
// no-overlap rule as the database exclusion constraint, and InBarberTx holds
// a per-barber mutex. Writes inside InBarberTx are not rolled back on error.
type MemoryRepository struct {
	mu           sync.RWMutex
	barbers      map[uuid.UUID]models.Barber
	services     map[uuid.UUID]models.Service
	windows      []models.AvailabilityWindow
	timeOff      []models.TimeOff
	appointments map[uuid.UUID]models.Appointment
	staff        map[uuid.UUID]models.StaffUser
	auditLogs    []models.AuditLog
	failure      error

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		barbers:      map[uuid.UUID]models.Barber{},
		services:     map[uuid.UUID]models.Service{},
		appointments: map[uuid.UUID]models.Appointment{},
		staff:        map[uuid.UUID]models.StaffUser{},
		locks:        map[uuid.UUID]*sync.Mutex{},
	}
}

// SetFailure makes every subsequent call fail as if storage were down.
// Pass nil to recover.
func (r *MemoryRepository) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure = err
}

func (r *MemoryRepository) failed() error {
	if r.failure != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, r.failure)
	}
	return nil
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddBarber(b models.Barber) models.Barber {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.barbers[b.ID] = b
	return b
}

func (r *MemoryRepository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.services[s.ID] = s
	return s
}

func (r *MemoryRepository) AddWindow(w models.AvailabilityWindow) models.AvailabilityWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.windows = append(r.windows, w)
	return w
}

func (r *MemoryRepository) AddTimeOff(t models.TimeOff) models.TimeOff {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.timeOff = append(r.timeOff, t)
	return t
}

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (r *MemoryRepository) GetBarber(ctx context.Context, id uuid.UUID) (*models.Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	b, ok := r.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

// ListActiveBarbers orders by sort order, then name.
func (r *MemoryRepository) ListActiveBarbers(ctx context.Context) ([]models.Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	var out []models.Barber
	for _, b := range r.barbers {
		if b.IsActive {
			out = append(out, b)
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

func (r *MemoryRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *MemoryRepository) CountAvailabilityWindows(ctx context.Context, barberID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return 0, err
	}
	var n int64
	for _, w := range r.windows {
		if w.BarberID == barberID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) ListAvailabilityWindows(
	ctx context.Context,
	barberID uuid.UUID,
	weekday time.Weekday,
) ([]models.AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	var out []models.AvailabilityWindow
	for _, w := range r.windows {
		if w.BarberID == barberID && w.DayOfWeek == int(weekday) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListTimeOffCovering(
	ctx context.Context,
	barberID uuid.UUID,
	date timezone.Date,
) ([]models.TimeOff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	var out []models.TimeOff
	for _, t := range r.timeOff {
		if t.BarberID == barberID && t.Covers(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) ListConfirmedAppointments(
	ctx context.Context,
	filter domain.AppointmentFilter,
) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status != string(domain.StatusConfirmed) {
			continue
		}
		if filter.BarberID != nil && ap.BarberID != *filter.BarberID {
			continue
		}
		if ap.StartAt.Before(filter.From) || !ap.StartAt.Before(filter.To) {
			continue
		}
		out = append(out, r.withRefs(ap))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *MemoryRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.failed(); err != nil {
		return nil, err
	}
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ap = r.withRefs(ap)
	return &ap, nil
}

func (r *MemoryRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if err := r.checkOverlap(*ap); err != nil {
		return err
	}

	now := time.Now()
	ap.CreatedAt, ap.UpdatedAt = now, now
	r.appointments[ap.ID] = stripRefs(*ap)
	return nil
}

func (r *MemoryRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failed(); err != nil {
		return err
	}
	if _, ok := r.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkOverlap(*ap); err != nil {
		return err
	}

	ap.UpdatedAt = time.Now()
	r.appointments[ap.ID] = stripRefs(*ap)
	return nil
}

func (r *MemoryRepository) InBarberTx(
	ctx context.Context,
	barberID uuid.UUID,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	if _, err := r.GetBarber(ctx, barberID); err != nil {
		return err
	}

	lock := r.barberLock(barberID)
	lock.Lock()
	defer lock.Unlock()

	return fn(ctx, r)
}

func (r *MemoryRepository) barberLock(id uuid.UUID) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

// checkOverlap mirrors the exclusion constraint. Caller holds mu.
func (r *MemoryRepository) checkOverlap(ap models.Appointment) error {
	if ap.Status != string(domain.StatusConfirmed) {
		return nil
	}
	var same []models.Appointment
	for _, other := range r.appointments {
		if other.BarberID == ap.BarberID {
			same = append(same, other)
		}
	}
	if domain.FindConflict(domain.Span(ap), same, ap.ID) != nil {
		return domain.ErrOverlap
	}
	return nil
}

func (r *MemoryRepository) withRefs(ap models.Appointment) models.Appointment {
	if b, ok := r.barbers[ap.BarberID]; ok {
		ap.Barber = &b
	}
	if s, ok := r.services[ap.ServiceID]; ok {
		ap.Service = &s
	}
	return ap
}

func stripRefs(ap models.Appointment) models.Appointment {
	ap.Barber = nil
	ap.Service = nil
	return ap
}

var (
	_ domain.Repository  = (*MemoryRepository)(nil)
	_ catalog.Repository = (*MemoryRepository)(nil)
)
