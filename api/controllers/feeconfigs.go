package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/api/responses"
	"github.com/dariomunoz/forkline-backend/api/validators"
	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
)

// FeeConfigService resolves and administers per-restaurant fee configurations.
type FeeConfigService interface {
	Resolve(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error)
	Update(ctx context.Context, restaurantID uuid.UUID, input feeconfig.UpdateInput) (feeconfig.Config, error)
	Reset(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error)
}

type updateFeeConfigRequest struct {
	FeeType                string           `json:"fee_type" validate:"required,oneof=fixed percentage hybrid"`
	ServiceFeeFixed        *decimal.Decimal `json:"service_fee_fixed" validate:"omitempty"`
	ServiceFeePercentage   *decimal.Decimal `json:"service_fee_percentage" validate:"omitempty"`
	VenueFeePercentage     *decimal.Decimal `json:"venue_fee_percentage" validate:"omitempty"`
	TaxRate                *decimal.Decimal `json:"tax_rate" validate:"omitempty"`
	ProcessorFeePercentage *decimal.Decimal `json:"processor_fee_percentage" validate:"omitempty"`
	ProcessorFlatFee       *decimal.Decimal `json:"processor_flat_fee" validate:"omitempty"`
	MinimumOrderAmount     *decimal.Decimal `json:"minimum_order_amount" validate:"omitempty"`
	IsNegotiated           bool             `json:"is_negotiated"`
}

// GetFeeConfig returns the resolved effective configuration.
func GetFeeConfig(svc FeeConfigService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		restaurantID, err := validators.ParseUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.Resolve(ctx, restaurantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// PutFeeConfig upserts the restaurant's override and returns the newly
// effective configuration.
func PutFeeConfig(svc FeeConfigService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		restaurantID, err := validators.ParseUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateFeeConfigRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithRestaurantID(ctx, restaurantID.String())
		}

		cfg, err := svc.Update(ctx, restaurantID, feeconfig.UpdateInput{
			FeeType:                req.FeeType,
			ServiceFeeFixed:        req.ServiceFeeFixed,
			ServiceFeePercentage:   req.ServiceFeePercentage,
			VenueFeePercentage:     req.VenueFeePercentage,
			TaxRate:                req.TaxRate,
			ProcessorFeePercentage: req.ProcessorFeePercentage,
			ProcessorFlatFee:       req.ProcessorFlatFee,
			MinimumOrderAmount:     req.MinimumOrderAmount,
			IsNegotiated:           req.IsNegotiated,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// DeleteFeeConfig removes the override so platform defaults apply again.
func DeleteFeeConfig(svc FeeConfigService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		restaurantID, err := validators.ParseUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.Reset(ctx, restaurantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}
