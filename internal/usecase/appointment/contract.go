package appointment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// SlotCache stores computed slot lists under a per-barber generation.
// Invalidate moves the barber to a new generation, so a list computed from
// data read before the bump is written under a generation nobody reads.
// Implementations must tolerate concurrent use.
type SlotCache interface {
	Generation(ctx context.Context, barberID uuid.UUID) (int64, error)
	Get(ctx context.Context, barberID uuid.UUID, gen int64, date timezone.Date, durationMinutes int) ([]time.Time, bool, error)
	Set(ctx context.Context, barberID uuid.UUID, gen int64, date timezone.Date, durationMinutes int, slots []time.Time) error
	Invalidate(ctx context.Context, barberID uuid.UUID) error
}

type NopSlotCache struct{}

func (NopSlotCache) Generation(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (NopSlotCache) Get(context.Context, uuid.UUID, int64, timezone.Date, int) ([]time.Time, bool, error) {
	return nil, false, nil
}

func (NopSlotCache) Set(context.Context, uuid.UUID, int64, timezone.Date, int, []time.Time) error {
	return nil
}

func (NopSlotCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type NopAuditor struct{}

func (NopAuditor) Dispatch(audit.Event) {}

// Recorder is implemented by *metrics.Metrics.
type Recorder interface {
	BookingOutcome(operation, outcome string)
	SlotCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) BookingOutcome(string, string) {}
func (nopRecorder) SlotCacheLookup(bool)          {}

// Deps is shared by every use case in this package. Only Repo and Store
// are required.
type Deps struct {
	Repo    domain.Repository
	Store   domain.StoreHours
	Cache   SlotCache
	Audit   Auditor
	Metrics Recorder
	Log     *slog.Logger
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = NopSlotCache{}
	}
	if d.Audit == nil {
		d.Audit = NopAuditor{}
	}
	if d.Metrics == nil {
		d.Metrics = nopRecorder{}
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// repoErr turns a repository sentinel into the caller-facing error kind.
// notFoundCode names what was missing.
func repoErr(err error, notFoundCode string) error {
	var he *httperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return httperr.NotFound(notFoundCode)
	case errors.Is(err, domain.ErrOverlap):
		return httperr.Conflict("slot_taken")
	}
	return httperr.Unavailable(err)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := httperr.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
