package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/pkg/enums"
)

// FeeConfiguration is the per-restaurant fee override record. Amount fields
// are major currency units; percentage fields are percent-of-subtotal.
// VenueFeePercentage is nullable: nil means "inherit the venue's fee".
type FeeConfiguration struct {
	ID                     uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID           uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex"`
	FeeType                enums.FeeType    `gorm:"column:fee_type;type:text;not null;default:'fixed'"`
	ServiceFeeFixed        decimal.Decimal  `gorm:"column:service_fee_fixed;type:numeric(12,2);not null;default:0"`
	ServiceFeePercentage   decimal.Decimal  `gorm:"column:service_fee_percentage;type:numeric(5,2);not null;default:0"`
	VenueFeePercentage     *decimal.Decimal `gorm:"column:venue_fee_percentage;type:numeric(5,2)"`
	TaxRate                decimal.Decimal  `gorm:"column:tax_rate;type:numeric(6,5);not null;default:0"`
	ProcessorFeePercentage decimal.Decimal  `gorm:"column:processor_fee_percentage;type:numeric(5,2);not null;default:0"`
	ProcessorFlatFee       decimal.Decimal  `gorm:"column:processor_flat_fee;type:numeric(12,2);not null;default:0"`
	MinimumOrderAmount     decimal.Decimal  `gorm:"column:minimum_order_amount;type:numeric(12,2);not null;default:0"`
	IsNegotiated           bool             `gorm:"column:is_negotiated;not null;default:false"`
	CreatedAt              time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
