package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dariomunoz/forkline-backend/pkg/enums"
)

// SettlementRecord is the settlement-of-record for one captured payment: the
// four-way decomposition of the charged total. The parts always sum exactly
// to TotalCents; the restaurant amount carries any rounding residue.
type SettlementRecord struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID               uuid.UUID      `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	RestaurantID          uuid.UUID      `gorm:"column:restaurant_id;type:uuid;not null;index"`
	VenueID               *uuid.UUID     `gorm:"column:venue_id;type:uuid;index"`
	Currency              enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	TotalCents            int64          `gorm:"column:total_cents;not null"`
	ProcessorFeeCents     int64          `gorm:"column:processor_fee_cents;not null"`
	PlatformFeeCents      int64          `gorm:"column:platform_fee_cents;not null"`
	VenueFeeCents         int64          `gorm:"column:venue_fee_cents;not null"`
	RestaurantAmountCents int64          `gorm:"column:restaurant_amount_cents;not null"`
	SettledAt             time.Time      `gorm:"column:settled_at;not null;index"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime"`
}
