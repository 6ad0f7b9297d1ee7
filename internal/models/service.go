package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable item from the price list.
type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Slug            string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description     string    `gorm:"size:255" json:"description,omitempty"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	PriceCents      int       `gorm:"not null" json:"price_cents"`
	Category        string    `gorm:"size:50" json:"category"`
	SortOrder       int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
