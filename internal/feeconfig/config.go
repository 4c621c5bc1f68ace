package feeconfig

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
)

// Config is the effective fee configuration for a restaurant after merging
// the per-restaurant override, the venue overlay, and platform defaults.
// Amount fields are major currency units; percentages are percent of the
// order subtotal; TaxRate is a fraction in [0,1].
type Config struct {
	RestaurantID           uuid.UUID       `json:"restaurant_id"`
	FeeType                enums.FeeType   `json:"fee_type"`
	ServiceFeeFixed        decimal.Decimal `json:"service_fee_fixed"`
	ServiceFeePercentage   decimal.Decimal `json:"service_fee_percentage"`
	VenueFeePercentage     decimal.Decimal `json:"venue_fee_percentage"`
	VenueID                *uuid.UUID      `json:"venue_id,omitempty"`
	VenueName              *string         `json:"venue_name,omitempty"`
	TaxRate                decimal.Decimal `json:"tax_rate"`
	ProcessorFeePercentage decimal.Decimal `json:"processor_fee_percentage"`
	ProcessorFlatFee       decimal.Decimal `json:"processor_flat_fee"`
	MinimumOrderAmount     decimal.Decimal `json:"minimum_order_amount"`
	IsNegotiated           bool            `json:"is_negotiated"`
	IsDefault              bool            `json:"is_default"`
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Validate rejects degenerate configurations before any engine arithmetic
// divides by a derived denominator.
func (c Config) Validate() error {
	if !c.FeeType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "unknown fee type")
	}
	if c.ServiceFeeFixed.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "service fee fixed amount must be non-negative")
	}
	if c.ServiceFeePercentage.IsNegative() || c.ServiceFeePercentage.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "service fee percentage must be within [0,100]")
	}
	if c.VenueFeePercentage.IsNegative() || c.VenueFeePercentage.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "venue fee percentage must be within [0,100]")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(one) {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "tax rate must be a fraction within [0,1]")
	}
	if c.ProcessorFeePercentage.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "processor fee percentage must be non-negative")
	}
	if c.ProcessorFeePercentage.GreaterThanOrEqual(hundred) {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "processor fee percentage must be below 100")
	}
	if c.ProcessorFlatFee.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "processor flat fee must be non-negative")
	}
	if c.MinimumOrderAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "minimum order amount must be non-negative")
	}
	return nil
}
