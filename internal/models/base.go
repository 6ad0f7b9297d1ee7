package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (w *AvailabilityWindow) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

func (t *TimeOff) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (u *StaffUser) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
