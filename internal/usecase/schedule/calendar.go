package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/ics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ExportCalendar struct {
	deps Deps
}

func NewExportCalendar(deps Deps) *ExportCalendar {
	return &ExportCalendar{deps: deps}
}

// Execute builds a feed of the confirmed appointments starting on date,
// midnight to midnight in the store zone. A nil barberID exports everyone.
func (uc *ExportCalendar) Execute(
	ctx context.Context,
	date timezone.Date,
	barberID *uuid.UUID,
) (ics.Calendar, error) {

	from, to := date.Bounds(uc.deps.Store.Location)
	apps, err := uc.deps.Source.ListConfirmedAppointments(ctx, domain.AppointmentFilter{
		BarberID: barberID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return ics.Calendar{}, httperr.Unavailable(err)
	}

	stamp := uc.deps.now()
	cal := ics.Calendar{
		ProdID: uc.deps.Calendar.ProdID,
		Events: make([]ics.Event, 0, len(apps)),
	}
	for _, ap := range apps {
		cal.Events = append(cal.Events, ics.Event{
			UID:     fmt.Sprintf("%s@%s", ap.ID, uc.deps.Calendar.UIDDomain),
			Stamp:   stamp,
			Start:   ap.StartAt,
			End:     ap.EndAt,
			Summary: Summary(ap),
		})
	}
	return cal, nil
}

// Summary reads like "Haircut – Sam (Walk-in) @ Johan".
func Summary(ap models.Appointment) string {
	service := "Appointment"
	if ap.Service != nil && ap.Service.Name != "" {
		service = ap.Service.Name
	}

	s := service + " – " + ap.ClientName
	if ap.IsWalkIn {
		s += " (Walk-in)"
	}
	if ap.Barber != nil && ap.Barber.Name != "" {
		s += " @ " + ap.Barber.Name
	}
	return s
}

type PublishCalendar struct {
	export *ExportCalendar
	deps   Deps
}

func NewPublishCalendar(deps Deps) *PublishCalendar {
	return &PublishCalendar{export: NewExportCalendar(deps), deps: deps}
}

// Execute uploads the whole shop's feed for date and returns its URL.
func (uc *PublishCalendar) Execute(ctx context.Context, date timezone.Date) (string, error) {
	if uc.deps.Objects == nil {
		return "", httperr.UnavailableCode("storage_not_configured", nil)
	}

	cal, err := uc.export.Execute(ctx, date, nil)
	if err != nil {
		return "", err
	}

	url, err := uc.deps.Objects.Put(ctx, CalendarKey(date), "text/calendar; charset=utf-8", []byte(cal.String()))
	if err != nil {
		return "", httperr.Unavailable(err)
	}
	return url, nil
}

func CalendarKey(date timezone.Date) string {
	return "calendar/schedule-" + date.String() + ".ics"
}
