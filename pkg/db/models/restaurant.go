package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is a tenant on the ordering platform, optionally hosted by a venue.
type Restaurant struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	VenueID   *uuid.UUID `gorm:"column:venue_id;type:uuid"`
	Venue     *Venue     `gorm:"foreignKey:VenueID"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
