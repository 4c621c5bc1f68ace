package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dariomunoz/forkline-backend/api/responses"
	"github.com/dariomunoz/forkline-backend/api/validators"
	"github.com/dariomunoz/forkline-backend/internal/pricing"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
)

// QuoteService computes customer-facing quotes.
type QuoteService interface {
	Quote(ctx context.Context, restaurantID uuid.UUID, subtotalCents int64) (pricing.Quote, error)
}

type createQuoteRequest struct {
	RestaurantID  string `json:"restaurant_id" validate:"required,uuid"`
	SubtotalCents int64  `json:"subtotal_cents" validate:"required,gt=0"`
}

// CreateQuote prices an order before payment capture. Nothing is persisted;
// the checkout flow records the quote on the order.
func CreateQuote(svc QuoteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		restaurantID, err := validators.ParseUUID(req.RestaurantID, "restaurant_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithRestaurantID(ctx, restaurantID.String())
		}

		quote, err := svc.Quote(ctx, restaurantID, req.SubtotalCents)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
