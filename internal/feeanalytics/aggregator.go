package feeanalytics

import "github.com/shopspring/decimal"

// Record is one historical settlement contribution. Sources with a different
// shape satisfy it structurally; a missing association is an empty key and a
// missing amount is zero, never an error.
type Record interface {
	OrderTotalCents() int64
	PlatformFeeCents() int64
	VenueFeeCents() int64
	ProcessorFeeCents() int64
	RestaurantKey() string
	VenueKey() string
}

// GroupMetrics accumulates the per-key totals.
type GroupMetrics struct {
	RevenueCents      int64 `json:"revenue_cents"`
	PlatformFeeCents  int64 `json:"platform_fee_cents"`
	VenueFeeCents     int64 `json:"venue_fee_cents"`
	ProcessorFeeCents int64 `json:"processor_fee_cents"`
	OrderCount        int64 `json:"order_count"`
}

// Metrics is the aggregate revenue report over a pre-filtered record set.
type Metrics struct {
	RevenueCents           int64 `json:"revenue_cents"`
	PlatformFeeCents       int64 `json:"platform_fee_cents"`
	VenueFeeCents          int64 `json:"venue_fee_cents"`
	ProcessorFeeCents      int64 `json:"processor_fee_cents"`
	OrderCount             int64 `json:"order_count"`
	AverageOrderValueCents int64 `json:"average_order_value_cents"`

	ByRestaurant map[string]GroupMetrics `json:"by_restaurant"`
	ByVenue      map[string]GroupMetrics `json:"by_venue"`
}

// Aggregate folds the records in a single pass. Time-window filtering is the
// caller's job: the aggregator takes whatever it is handed. Empty input
// yields zero metrics with empty groupings. Pure; safe for concurrent use.
func Aggregate(records []Record) Metrics {
	out := Metrics{
		ByRestaurant: map[string]GroupMetrics{},
		ByVenue:      map[string]GroupMetrics{},
	}

	for _, record := range records {
		if record == nil {
			continue
		}

		out.RevenueCents += record.OrderTotalCents()
		out.PlatformFeeCents += record.PlatformFeeCents()
		out.VenueFeeCents += record.VenueFeeCents()
		out.ProcessorFeeCents += record.ProcessorFeeCents()
		out.OrderCount++

		if key := record.RestaurantKey(); key != "" {
			out.ByRestaurant[key] = accumulate(out.ByRestaurant[key], record)
		}
		if key := record.VenueKey(); key != "" {
			out.ByVenue[key] = accumulate(out.ByVenue[key], record)
		}
	}

	if out.OrderCount > 0 {
		out.AverageOrderValueCents = decimal.NewFromInt(out.RevenueCents).
			DivRound(decimal.NewFromInt(out.OrderCount), 0).IntPart()
	}
	return out
}

func accumulate(group GroupMetrics, record Record) GroupMetrics {
	group.RevenueCents += record.OrderTotalCents()
	group.PlatformFeeCents += record.PlatformFeeCents()
	group.VenueFeeCents += record.VenueFeeCents()
	group.ProcessorFeeCents += record.ProcessorFeeCents()
	group.OrderCount++
	return group
}
