package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailabilityInput struct {
	BarberID        uuid.UUID
	Date            timezone.Date
	DurationMinutes int
}

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps.withDefaults()}
}

// Execute returns bookable start instants in UTC. An inactive barber has no
// slots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]time.Time, error) {

	if err := domain.ValidateDuration(in.DurationMinutes); err != nil {
		return nil, err
	}

	barber, err := uc.deps.Repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, repoErr(err, "barber_not_found")
	}
	if !barber.IsActive {
		return []time.Time{}, nil
	}

	// The generation is read before any booking data so that a write
	// committed in between leaves this result under a stale generation.
	gen, err := uc.deps.Cache.Generation(ctx, in.BarberID)
	useCache := err == nil
	if err != nil {
		uc.deps.Log.Warn("slot cache generation read failed", "barber_id", in.BarberID, "error", err)
	}

	if useCache {
		cached, hit, err := uc.deps.Cache.Get(ctx, in.BarberID, gen, in.Date, in.DurationMinutes)
		if err != nil {
			uc.deps.Log.Warn("slot cache read failed", "barber_id", in.BarberID, "error", err)
		} else {
			uc.deps.Metrics.SlotCacheLookup(hit)
			if hit {
				return cached, nil
			}
		}
	}

	plan, err := uc.plan(ctx, in)
	if err != nil {
		uc.deps.Log.Error("load availability", "barber_id", in.BarberID, "date", in.Date, "error", err)
		return nil, repoErr(err, "barber_not_found")
	}

	slots := domain.ComputeSlots(plan)

	if useCache {
		if err := uc.deps.Cache.Set(ctx, in.BarberID, gen, in.Date, in.DurationMinutes, slots); err != nil {
			uc.deps.Log.Warn("slot cache write failed", "barber_id", in.BarberID, "error", err)
		}
	}
	return slots, nil
}

func (uc *GetAvailability) plan(
	ctx context.Context,
	in GetAvailabilityInput,
) (domain.DayPlan, error) {

	plan := domain.DayPlan{
		Date:            in.Date,
		DurationMinutes: in.DurationMinutes,
		Store:           uc.deps.Store,
	}

	// 1. time off blocks the whole day
	off, err := uc.deps.Repo.ListTimeOffCovering(ctx, in.BarberID, in.Date)
	if err != nil {
		return plan, err
	}
	if len(off) > 0 {
		plan.OnTimeOff = true
		return plan, nil
	}

	// 2. weekly windows, default open when the barber has none at all
	total, err := uc.deps.Repo.CountAvailabilityWindows(ctx, in.BarberID)
	if err != nil {
		return plan, err
	}
	plan.HasWindows = total > 0

	if plan.HasWindows {
		rows, err := uc.deps.Repo.ListAvailabilityWindows(ctx, in.BarberID, in.Date.Weekday())
		if err != nil {
			return plan, err
		}
		plan.DayWindows = make([]timewindow.Window, 0, len(rows))
		for _, r := range rows {
			plan.DayWindows = append(plan.DayWindows, r.Window())
		}
	}

	// 3. confirmed bookings starting on this store-local date
	from, to := in.Date.Bounds(uc.deps.Store.Location)
	plan.Booked, err = uc.deps.Repo.ListConfirmedAppointments(ctx, domain.AppointmentFilter{
		BarberID: &in.BarberID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return plan, err
	}

	return plan, nil
}
