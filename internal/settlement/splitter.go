package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/internal/pricing"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
)

// Split is the four-way decomposition of a captured payment. The parts sum
// exactly to TotalCents: processor, platform, and venue each receive their
// independently rounded cut, and the restaurant bears the rounding residue.
type Split struct {
	TotalCents            int64 `json:"total_cents"`
	ProcessorFeeCents     int64 `json:"processor_fee_cents"`
	PlatformFeeCents      int64 `json:"platform_fee_cents"`
	VenueFeeCents         int64 `json:"venue_fee_cents"`
	RestaurantAmountCents int64 `json:"restaurant_amount_cents"`
}

var hundred = decimal.NewFromInt(100)

// ComputeSplit decomposes an already-captured total. Unlike the quote, the
// total is fixed here: the platform fee switch is applied to the net (total
// minus processor fee), not the subtotal, and the restaurant payout is the
// residual rather than a protected amount. The captured total may differ by
// a cent from the original quote, so this is a genuinely separate code path,
// not the quote run backwards.
//
// Safe for concurrent use; pure function of its arguments.
func ComputeSplit(cfg feeconfig.Config, totalCents int64) (Split, error) {
	if totalCents <= 0 {
		return Split{}, pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
	}
	if err := cfg.Validate(); err != nil {
		return Split{}, err
	}

	total := decimal.NewFromInt(totalCents).Div(hundred)

	processorFee := total.Mul(cfg.ProcessorFeePercentage).Div(hundred).Add(cfg.ProcessorFlatFee)
	net := total.Sub(processorFee)

	platformFee, err := pricing.PlatformFee(cfg, net)
	if err != nil {
		return Split{}, err
	}
	venueFee := net.Mul(cfg.VenueFeePercentage).Div(hundred)

	processorFeeCents := roundCents(processorFee)
	platformFeeCents := roundCents(platformFee)
	venueFeeCents := roundCents(venueFee)
	restaurantAmountCents := totalCents - processorFeeCents - platformFeeCents - venueFeeCents

	split := Split{
		TotalCents:            totalCents,
		ProcessorFeeCents:     processorFeeCents,
		PlatformFeeCents:      platformFeeCents,
		VenueFeeCents:         venueFeeCents,
		RestaurantAmountCents: restaurantAmountCents,
	}

	// structurally impossible given the residual construction; guards
	// against arithmetic regressions before books are written
	sum := split.ProcessorFeeCents + split.PlatformFeeCents + split.VenueFeeCents + split.RestaurantAmountCents
	if sum != totalCents {
		return Split{}, pkgerrors.New(pkgerrors.CodeSplitIntegrity, "split parts do not sum to total")
	}

	return split, nil
}

func roundCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
