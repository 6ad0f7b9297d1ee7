package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// AvailabilityWindow is a weekly recurring rule in store-local minutes.
type AvailabilityWindow struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BarberID uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_barber_day" json:"barber_id"`

	DayOfWeek    int `gorm:"not null;index:idx_availability_barber_day" json:"day_of_week"`
	StartMinutes int `gorm:"not null" json:"start_minutes"`
	EndMinutes   int `gorm:"not null" json:"end_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w AvailabilityWindow) Window() timewindow.Window {
	return timewindow.Window{Start: w.StartMinutes, End: w.EndMinutes}
}

// TimeOff blocks a barber for whole days, endDate inclusive.
type TimeOff struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BarberID uuid.UUID `gorm:"type:uuid;not null;index" json:"barber_id"`

	StartDate timezone.Date `gorm:"type:date;not null" json:"start_date"`
	EndDate   timezone.Date `gorm:"type:date;not null" json:"end_date"`
	Kind      string        `gorm:"column:type;size:20;not null;default:'time_off'" json:"type"`
	Notes     *string       `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeOff) TableName() string {
	return "barber_time_off"
}

// Covers reports whether date falls inside [StartDate, EndDate].
func (t TimeOff) Covers(date timezone.Date) bool {
	return !date.Before(t.StartDate) && !date.After(t.EndDate)
}
