package models

import (
	"time"

	"github.com/google/uuid"
)

type Barber struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Email     string    `gorm:"size:100" json:"email,omitempty"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`

	AvailabilityWindows []AvailabilityWindow `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TimeOff             []TimeOff            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
