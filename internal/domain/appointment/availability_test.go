package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var newYork = timezone.Location("America/New_York")

// 2025-03-10 is a Monday, the day after DST starts.
var monday = timezone.Date{Year: 2025, Month: time.March, Day: 10}

func at(d timezone.Date, hour, minute int) time.Time {
	return d.At(hour*60+minute, newYork)
}

func clock(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.In(newYork).Format("15:04"))
	}
	return out
}

func booked(start time.Time, minutes int, status Status) models.Appointment {
	return models.Appointment{
		ID:              uuid.New(),
		StartAt:         start.UTC(),
		EndAt:           start.Add(time.Duration(minutes) * time.Minute).UTC(),
		DurationMinutes: minutes,
		Status:          string(status),
	}
}

func TestComputeSlots_DefaultOpenLastSlot(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
	})

	require.Len(t, slots, 22)
	assert.Equal(t, "09:00", clock(slots)[0])
	assert.Equal(t, "19:30", clock(slots)[21])
	assert.Equal(t, time.UTC, slots[0].Location())
}

func TestComputeSlots_MondayWindow(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 60,
		Store:           DefaultStoreHours(newYork),
		HasWindows:      true,
		DayWindows:      []timewindow.Window{{Start: 600, End: 720}},
	})

	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, clock(slots))
}

func TestComputeSlots_ExistingBookingRemovesOnlyItsSlot(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
		Booked:          []models.Appointment{booked(at(monday, 10, 0), 30, StatusConfirmed)},
	})

	got := clock(slots)
	assert.NotContains(t, got, "10:00")
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "10:30")
	assert.Len(t, got, 21)
}

func TestComputeSlots_IgnoresHistoricalAppointments(t *testing.T) {
	plan := DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
		Booked: []models.Appointment{
			booked(at(monday, 9, 0), 30, StatusCancelled),
			booked(at(monday, 9, 30), 30, StatusNoShow),
			booked(at(monday, 10, 0), 30, StatusCompleted),
		},
	}

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, clock(ComputeSlots(plan))[:3])
}

func TestComputeSlots_NeverOverlapsBooking(t *testing.T) {
	existing := booked(at(monday, 13, 15), 45, StatusConfirmed)
	plan := DayPlan{
		Date:            monday,
		DurationMinutes: 60,
		Store:           DefaultStoreHours(newYork),
		Booked:          []models.Appointment{existing},
	}

	for _, s := range ComputeSlots(plan) {
		assert.False(t, Overlaps(timewindow.NewInterval(s, 60), Span(existing)), s)
	}
	assert.NotContains(t, clock(ComputeSlots(plan)), "12:30")
	assert.Contains(t, clock(ComputeSlots(plan)), "12:00")
	assert.Contains(t, clock(ComputeSlots(plan)), "14:00")
}

func TestComputeSlots_TimeOffBlocksDay(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
		HasWindows:      true,
		DayWindows:      []timewindow.Window{{Start: 600, End: 720}},
		OnTimeOff:       true,
	})

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestComputeSlots_ClosedWeekday(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
		HasWindows:      true,
	})

	assert.Empty(t, slots)
}

func TestComputeSlots_ClampsAndDropsDegenerateWindows(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 60,
		Store:           DefaultStoreHours(newYork),
		HasWindows:      true,
		DayWindows: []timewindow.Window{
			{Start: 1080, End: 1300},
			{Start: 300, End: 540},
			{Start: 480, End: 570},
		},
	})

	// 480-570 clamps to 540-570, too short for 60 minutes.
	assert.Equal(t, []string{"18:00", "18:30", "19:00"}, clock(slots))
}

func TestComputeSlots_OverlappingWindowsDeduplicated(t *testing.T) {
	slots := ComputeSlots(DayPlan{
		Date:            monday,
		DurationMinutes: 30,
		Store:           DefaultStoreHours(newYork),
		HasWindows:      true,
		DayWindows: []timewindow.Window{
			{Start: 600, End: 690},
			{Start: 645, End: 705},
		},
	})

	assert.Equal(t, []string{"10:00", "10:30", "10:45", "11:00", "11:15"}, clock(slots))
}

func TestEffectiveWindows_DefaultOpen(t *testing.T) {
	store := DefaultStoreHours(newYork)
	got := EffectiveWindows(DayPlan{Store: store})

	assert.Equal(t, []timewindow.Window{store.Window}, got)
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(15))
	assert.NoError(t, ValidateDuration(120))
	assert.Error(t, ValidateDuration(14))
	assert.Error(t, ValidateDuration(121))
}

func TestStoreHoursBoundsAcrossDST(t *testing.T) {
	store := DefaultStoreHours(newYork)
	opening, closing := store.Bounds(timezone.Date{Year: 2025, Month: time.March, Day: 9})

	assert.Equal(t, 13, opening.UTC().Hour())
	assert.Equal(t, 11*time.Hour, closing.Sub(opening))
}
