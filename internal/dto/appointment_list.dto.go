package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentListDTO struct {
	ID              uuid.UUID `json:"id"`
	BarberID        uuid.UUID `json:"barber_id"`
	BarberName      string    `json:"barber_name"`
	ServiceID       uuid.UUID `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	ClientName      string    `json:"client_name"`
	ClientPhone     *string   `json:"client_phone"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	IsWalkIn        bool      `json:"is_walk_in"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:              ap.ID,
		BarberID:        ap.BarberID,
		ServiceID:       ap.ServiceID,
		ClientName:      ap.ClientName,
		ClientPhone:     ap.ClientPhone,
		StartAt:         ap.StartAt.UTC(),
		EndAt:           ap.EndAt.UTC(),
		DurationMinutes: ap.DurationMinutes,
		IsWalkIn:        ap.IsWalkIn,
		Status:          ap.Status,
		Notes:           ap.Notes,
	}
	if ap.Barber != nil {
		out.BarberName = ap.Barber.Name
	}
	if ap.Service != nil {
		out.ServiceName = ap.Service.Name
	}
	return out
}
