package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BarberID uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_barber_start" json:"barber_id"`
	Barber   *Barber   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber,omitempty"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`
	Service   *Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service,omitempty"`

	ClientName  string  `gorm:"size:200;not null" json:"client_name"`
	ClientPhone *string `gorm:"size:50" json:"client_phone"`
	ClientEmail *string `gorm:"size:200" json:"client_email"`

	StartAt         time.Time `gorm:"type:timestamptz;not null;index:idx_appointments_barber_start" json:"start_at"`
	EndAt           time.Time `gorm:"type:timestamptz;not null" json:"end_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	IsWalkIn        bool      `gorm:"not null;default:false" json:"is_walk_in"`

	Status string  `gorm:"size:20;not null;default:'confirmed';index" json:"status"`
	Notes  *string `gorm:"size:500" json:"notes"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
