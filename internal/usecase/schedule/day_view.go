package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type SegmentKind string

const (
	SegmentOpen   SegmentKind = "open"
	SegmentBooked SegmentKind = "booked"
)

// Segment spans grid columns [StartColumn, EndColumn).
type Segment struct {
	Kind           SegmentKind `json:"kind"`
	StartColumn    int         `json:"start_column"`
	EndColumn      int         `json:"end_column"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	AppointmentIDs []uuid.UUID `json:"appointment_ids,omitempty"`
}

type BarberDay struct {
	BarberID     uuid.UUID                `json:"barber_id"`
	Name         string                   `json:"name"`
	Slug         string                   `json:"slug"`
	AvatarURL    string                   `json:"avatar_url,omitempty"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	Segments     []Segment                `json:"segments"`
}

type DayView struct {
	Date          timezone.Date `json:"date"`
	Open          time.Time     `json:"open"`
	Close         time.Time     `json:"close"`
	ColumnMinutes int           `json:"column_minutes"`
	Columns       []time.Time   `json:"columns"`
	Barbers       []BarberDay   `json:"barbers"`
}

type BuildDayView struct {
	deps Deps
}

func NewBuildDayView(deps Deps) *BuildDayView {
	return &BuildDayView{deps: deps}
}

// Execute groups the day's confirmed appointments by barber. Every active
// barber gets a row, plus any inactive barber who still has bookings.
func (uc *BuildDayView) Execute(ctx context.Context, date timezone.Date) (*DayView, error) {
	dayOpen, dayClose := uc.deps.Store.Bounds(date)

	barbers, err := uc.deps.Source.ListActiveBarbers(ctx)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}
	apps, err := uc.deps.Source.ListConfirmedAppointments(ctx, domain.AppointmentFilter{From: dayOpen, To: dayClose})
	if err != nil {
		return nil, httperr.Unavailable(err)
	}

	view := &DayView{
		Date:          date,
		Open:          dayOpen.UTC(),
		Close:         dayClose.UTC(),
		ColumnMinutes: domain.SlotStepMinutes,
		Columns:       Columns(dayOpen, dayClose),
		Barbers:       []BarberDay{},
	}

	byBarber := map[uuid.UUID][]models.Appointment{}
	for _, ap := range apps {
		byBarber[ap.BarberID] = append(byBarber[ap.BarberID], ap)
	}

	seen := map[uuid.UUID]bool{}
	for _, b := range barbers {
		seen[b.ID] = true
		view.Barbers = append(view.Barbers, uc.row(b, byBarber[b.ID], dayOpen, dayClose))
	}
	var extra []BarberDay
	for id, list := range byBarber {
		if seen[id] {
			continue
		}
		b := models.Barber{ID: id}
		if list[0].Barber != nil {
			b = *list[0].Barber
		}
		extra = append(extra, uc.row(b, list, dayOpen, dayClose))
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })
	view.Barbers = append(view.Barbers, extra...)

	return view, nil
}

func (uc *BuildDayView) row(b models.Barber, apps []models.Appointment, dayOpen, dayClose time.Time) BarberDay {
	sort.Slice(apps, func(i, j int) bool { return apps[i].StartAt.Before(apps[j].StartAt) })

	day := BarberDay{
		BarberID:     b.ID,
		Name:         b.Name,
		Slug:         b.Slug,
		AvatarURL:    b.AvatarURL,
		Appointments: make([]dto.AppointmentListDTO, 0, len(apps)),
		Segments:     Segments(apps, dayOpen, dayClose),
	}
	for _, ap := range apps {
		day.Appointments = append(day.Appointments, dto.NewAppointmentListDTO(ap))
	}
	return day
}

// Columns lists the start of every grid column between open and close.
func Columns(dayOpen, dayClose time.Time) []time.Time {
	step := time.Duration(domain.SlotStepMinutes) * time.Minute
	var out []time.Time
	for t := dayOpen; t.Before(dayClose); t = t.Add(step) {
		out = append(out, t.UTC())
	}
	return out
}

// Segments partitions the grid into open and booked runs. An appointment
// occupies every column it touches. Appointments sharing a column merge
// into one booked segment, so none is hidden.
func Segments(apps []models.Appointment, dayOpen, dayClose time.Time) []Segment {
	columns := Columns(dayOpen, dayClose)
	n := len(columns)
	step := time.Duration(domain.SlotStepMinutes) * time.Minute

	type block struct {
		from, to int
		id       uuid.UUID
	}
	var blocks []block
	for _, ap := range apps {
		from := int(ap.StartAt.Sub(dayOpen) / step)
		if ap.StartAt.Before(dayOpen) {
			from = 0
		}
		to := int((ap.EndAt.Sub(dayOpen) + step - 1) / step)
		from, to = max(from, 0), min(to, n)
		if to <= from {
			continue
		}
		blocks = append(blocks, block{from: from, to: to, id: ap.ID})
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].from < blocks[j].from })

	colStart := func(i int) time.Time {
		if i >= n {
			return dayClose.UTC()
		}
		return columns[i]
	}

	var out []Segment
	cursor := 0
	for _, b := range blocks {
		if last := len(out) - 1; last >= 0 && out[last].Kind == SegmentBooked && b.from < out[last].EndColumn {
			out[last].AppointmentIDs = append(out[last].AppointmentIDs, b.id)
			if b.to > out[last].EndColumn {
				out[last].EndColumn = b.to
				out[last].End = colStart(b.to)
				cursor = b.to
			}
			continue
		}
		if b.from > cursor {
			out = append(out, Segment{
				Kind: SegmentOpen, StartColumn: cursor, EndColumn: b.from,
				Start: colStart(cursor), End: colStart(b.from),
			})
		}
		out = append(out, Segment{
			Kind: SegmentBooked, StartColumn: b.from, EndColumn: b.to,
			Start: colStart(b.from), End: colStart(b.to),
			AppointmentIDs: []uuid.UUID{b.id},
		})
		cursor = b.to
	}
	if cursor < n {
		out = append(out, Segment{
			Kind: SegmentOpen, StartColumn: cursor, EndColumn: n,
			Start: colStart(cursor), End: colStart(n),
		})
	}
	return out
}
