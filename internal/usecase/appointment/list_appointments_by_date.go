package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointmentsByDate struct {
	deps Deps
}

func NewListAppointmentsByDate(deps Deps) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{deps: deps.withDefaults()}
}

// Execute lists confirmed appointments starting between store open and
// close on date. A nil barberID lists every barber.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date timezone.Date,
	barberID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	from, to := uc.deps.Store.Bounds(date)

	appointments, err := uc.deps.Repo.ListConfirmedAppointments(ctx, domain.AppointmentFilter{
		BarberID: barberID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, repoErr(err, "appointment_not_found")
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}

	return out, nil
}
