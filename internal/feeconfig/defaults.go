package feeconfig

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/pkg/enums"
)

// Platform-wide fee defaults applied to any restaurant without an override.
var (
	defaultServiceFeeFixed        = decimal.RequireFromString("2.00")
	defaultTaxRate                = decimal.RequireFromString("0.085")
	defaultProcessorFeePercentage = decimal.RequireFromString("2.9")
	defaultProcessorFlatFee       = decimal.RequireFromString("0.30")
)

// DefaultConfig returns the platform default configuration for a restaurant.
func DefaultConfig(restaurantID uuid.UUID) Config {
	return Config{
		RestaurantID:           restaurantID,
		FeeType:                enums.FeeTypeFixed,
		ServiceFeeFixed:        defaultServiceFeeFixed,
		ServiceFeePercentage:   decimal.Zero,
		VenueFeePercentage:     decimal.Zero,
		TaxRate:                defaultTaxRate,
		ProcessorFeePercentage: defaultProcessorFeePercentage,
		ProcessorFlatFee:       defaultProcessorFlatFee,
		MinimumOrderAmount:     decimal.Zero,
		IsDefault:              true,
	}
}
