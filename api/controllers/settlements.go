package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dariomunoz/forkline-backend/api/responses"
	"github.com/dariomunoz/forkline-backend/api/validators"
	"github.com/dariomunoz/forkline-backend/internal/settlement"
	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

// SettlementService records and lists payment splits.
type SettlementService interface {
	Record(ctx context.Context, input settlement.RecordInput) (*models.SettlementRecord, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) ([]models.SettlementRecord, string, error)
}

type recordSettlementRequest struct {
	OrderID      string `json:"order_id" validate:"required,uuid"`
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	TotalCents   int64  `json:"total_cents" validate:"required,gt=0"`
	SettledAt    string `json:"settled_at" validate:"omitempty"`
}

type settlementResponse struct {
	ID                    uuid.UUID  `json:"id"`
	OrderID               uuid.UUID  `json:"order_id"`
	RestaurantID          uuid.UUID  `json:"restaurant_id"`
	VenueID               *uuid.UUID `json:"venue_id,omitempty"`
	Currency              string     `json:"currency"`
	TotalCents            int64      `json:"total_cents"`
	ProcessorFeeCents     int64      `json:"processor_fee_cents"`
	PlatformFeeCents      int64      `json:"platform_fee_cents"`
	VenueFeeCents         int64      `json:"venue_fee_cents"`
	RestaurantAmountCents int64      `json:"restaurant_amount_cents"`
	SettledAt             time.Time  `json:"settled_at"`
}

type settlementListResponse struct {
	Settlements []settlementResponse `json:"settlements"`
	NextCursor  string               `json:"next_cursor,omitempty"`
}

// RecordSettlement splits a captured payment and stores the result. Posting
// the same order id again returns the stored split.
func RecordSettlement(svc SettlementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req recordSettlementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderID, err := validators.ParseUUID(req.OrderID, "order_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		restaurantID, err := validators.ParseUUID(req.RestaurantID, "restaurant_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var settledAt time.Time
		if req.SettledAt != "" {
			settledAt, err = time.Parse(time.RFC3339, req.SettledAt)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "settled_at must be an RFC 3339 timestamp"))
				return
			}
		}

		if logg != nil {
			ctx = logg.WithOrderID(logg.WithRestaurantID(ctx, restaurantID.String()), orderID.String())
		}

		record, err := svc.Record(ctx, settlement.RecordInput{
			OrderID:      orderID,
			RestaurantID: restaurantID,
			TotalCents:   req.TotalCents,
			SettledAt:    settledAt,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toSettlementResponse(record))
	}
}

// ListSettlements pages a restaurant's settlement history newest-first.
func ListSettlements(svc SettlementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		restaurantID, err := validators.ParseUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		records, next, err := svc.ListByRestaurant(ctx, restaurantID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := settlementListResponse{
			Settlements: make([]settlementResponse, 0, len(records)),
			NextCursor:  next,
		}
		for i := range records {
			out.Settlements = append(out.Settlements, toSettlementResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func toSettlementResponse(record *models.SettlementRecord) settlementResponse {
	return settlementResponse{
		ID:                    record.ID,
		OrderID:               record.OrderID,
		RestaurantID:          record.RestaurantID,
		VenueID:               record.VenueID,
		Currency:              string(record.Currency),
		TotalCents:            record.TotalCents,
		ProcessorFeeCents:     record.ProcessorFeeCents,
		PlatformFeeCents:      record.PlatformFeeCents,
		VenueFeeCents:         record.VenueFeeCents,
		RestaurantAmountCents: record.RestaurantAmountCents,
		SettledAt:             record.SettledAt,
	}
}
