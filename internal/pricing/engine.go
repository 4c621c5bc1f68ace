package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
)

// Quote is the customer-facing price breakdown for one order. All cent fields
// are integer minor units and sum exactly to TotalCents: any rounding residue
// from the gross-up lands in ServiceFeeCents.
type Quote struct {
	SubtotalCents   int64 `json:"subtotal_cents"`
	TaxCents        int64 `json:"tax_cents"`
	ServiceFeeCents int64 `json:"service_fee_cents"`
	VenueFeeCents   int64 `json:"venue_fee_cents"`
	TotalCents      int64 `json:"total_cents"`

	// Display-derived percentages of the subtotal. They can differ
	// fractionally from the configured percentages because the displayed
	// fees carry their share of the processor markup.
	ServiceFeePercentage decimal.Decimal `json:"service_fee_percentage"`
	VenueFeePercentage   decimal.Decimal `json:"venue_fee_percentage"`

	Currency enums.Currency `json:"currency"`
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ComputeQuote solves the gross-up problem: the customer total is chosen so
// that after the processor deducts its percentage-plus-flat fee from that
// same total, the remainder still covers subtotal + tax + the desired
// platform and venue fees.
//
// The processor fee is a function of the total being solved for, so adding
// fees on top of the subtotal under-collects. The closed form comes from
// solving total - (total*p/100 + flat) = base for total:
//
//	total = (base + flat) / (1 - p/100)
//
// Safe for concurrent use; pure function of its arguments.
func ComputeQuote(cfg feeconfig.Config, subtotalCents int64) (Quote, error) {
	if subtotalCents <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeConfiguration, "subtotal must be positive")
	}
	if err := cfg.Validate(); err != nil {
		return Quote{}, err
	}

	subtotal := centsToAmount(subtotalCents)

	desiredServiceFee, err := desiredPlatformFee(cfg, subtotal)
	if err != nil {
		return Quote{}, err
	}

	// minimum-order shortfall joins the service fee before the gross-up so
	// the processor markup on the shortfall is also covered
	if subtotal.LessThan(cfg.MinimumOrderAmount) {
		desiredServiceFee = desiredServiceFee.Add(cfg.MinimumOrderAmount.Sub(subtotal))
	}

	desiredVenueFee := subtotal.Mul(cfg.VenueFeePercentage).Div(hundred)
	taxAmount := subtotal.Mul(cfg.TaxRate)
	baseAmount := subtotal.Add(taxAmount).Add(desiredServiceFee).Add(desiredVenueFee)

	denominator := one.Sub(cfg.ProcessorFeePercentage.Div(hundred))
	if !denominator.IsPositive() {
		// Validate already rejects this; re-checked before dividing
		return Quote{}, pkgerrors.New(pkgerrors.CodeConfiguration, "processor fee percentage must be below 100")
	}
	customerTotal := baseAmount.Add(cfg.ProcessorFlatFee).Div(denominator)

	totalCents := amountToCents(customerTotal)
	taxCents := amountToCents(taxAmount)

	// the gross margin is everything above subtotal + tax: the desired fees
	// plus the processor markup. It is split between the displayed venue and
	// service fees in proportion to the desired fees, so a zero-processor
	// configuration reproduces the configured venue fee to the cent.
	marginCents := totalCents - subtotalCents - taxCents

	var venueFeeCents int64
	desiredFees := desiredServiceFee.Add(desiredVenueFee)
	if desiredFees.IsPositive() && marginCents > 0 {
		venueShare := decimal.NewFromInt(marginCents).Mul(desiredVenueFee).Div(desiredFees)
		venueFeeCents = venueShare.Round(0).IntPart()
	}
	serviceFeeCents := marginCents - venueFeeCents

	return Quote{
		SubtotalCents:        subtotalCents,
		TaxCents:             taxCents,
		ServiceFeeCents:      serviceFeeCents,
		VenueFeeCents:        venueFeeCents,
		TotalCents:           totalCents,
		ServiceFeePercentage: displayedPercentage(serviceFeeCents, subtotalCents),
		VenueFeePercentage:   displayedPercentage(venueFeeCents, subtotalCents),
		Currency:             enums.CurrencyUSD,
	}, nil
}

// desiredPlatformFee applies the fee type switch to an amount in major units.
// Shared with the settlement splitter, which applies it to the net instead of
// the subtotal.
func desiredPlatformFee(cfg feeconfig.Config, amount decimal.Decimal) (decimal.Decimal, error) {
	switch cfg.FeeType {
	case enums.FeeTypeFixed:
		return cfg.ServiceFeeFixed, nil
	case enums.FeeTypePercentage:
		return amount.Mul(cfg.ServiceFeePercentage).Div(hundred), nil
	case enums.FeeTypeHybrid:
		return cfg.ServiceFeeFixed.Add(amount.Mul(cfg.ServiceFeePercentage).Div(hundred)), nil
	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeConfiguration, "unknown fee type")
	}
}

// PlatformFee exposes the fee type switch for the settlement splitter.
func PlatformFee(cfg feeconfig.Config, amount decimal.Decimal) (decimal.Decimal, error) {
	return desiredPlatformFee(cfg, amount)
}

func centsToAmount(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// amountToCents rounds a major-unit amount to integer cents, half away from zero.
func amountToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func displayedPercentage(feeCents, subtotalCents int64) decimal.Decimal {
	if subtotalCents <= 0 || feeCents == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(feeCents).Mul(hundred).DivRound(decimal.NewFromInt(subtotalCents), 2)
}
