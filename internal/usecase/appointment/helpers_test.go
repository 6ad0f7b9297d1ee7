package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var newYork = timezone.Location("America/New_York")

// 2025-03-10 is a Monday.
var monday = timezone.Date{Year: 2025, Month: time.March, Day: 10}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type memoryCache struct {
	mu          sync.Mutex
	gens        map[uuid.UUID]int64
	entries     map[string][]time.Time
	invalidated []uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{gens: map[uuid.UUID]int64{}, entries: map[string][]time.Time{}}
}

func cacheKey(id uuid.UUID, gen int64, date timezone.Date, d int) string {
	return fmt.Sprintf("%s|%d|%s|%d", id, gen, date, d)
}

func (c *memoryCache) Generation(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID, gen int64, date timezone.Date, d int) ([]time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[cacheKey(id, gen, date, d)]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, id uuid.UUID, gen int64, date timezone.Date, d int, slots []time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(id, gen, date, d)] = slots
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[id]++
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixture struct {
	repo    *repository.MemoryRepository
	audit   *recordingAuditor
	cache   *memoryCache
	deps    Deps
	barber  models.Barber
	service models.Service
}

func newFixture() *fixture {
	repo := repository.NewMemoryRepository()
	f := &fixture{
		repo:  repo,
		audit: &recordingAuditor{},
		cache: newMemoryCache(),
	}
	f.barber = repo.AddBarber(models.Barber{Name: "Johan", Slug: "johan", IsActive: true})
	f.service = repo.AddService(models.Service{Name: "Haircut Adult", DurationMinutes: 30, PriceCents: 4000, IsActive: true})
	f.deps = Deps{
		Repo:  repo,
		Store: domain.DefaultStoreHours(newYork),
		Cache: f.cache,
		Audit: f.audit,
		Now: func() time.Time {
			return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
		},
	}
	return f
}

func (f *fixture) book(start time.Time, minutes int) *models.Appointment {
	ap, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		BarberID:        f.barber.ID,
		ServiceID:       f.service.ID,
		DurationMinutes: minutes,
		ClientName:      "Client",
		StartAt:         start,
	})
	if err != nil {
		panic(err)
	}
	return ap
}

func localAt(d timezone.Date, hour, minute int) time.Time {
	return d.At(hour*60+minute, newYork)
}

func clock(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.In(newYork).Format("15:04"))
	}
	return out
}
