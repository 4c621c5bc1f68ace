package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dariomunoz/forkline-backend/api/responses"
	"github.com/dariomunoz/forkline-backend/api/validators"
	"github.com/dariomunoz/forkline-backend/internal/feeanalytics"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
)

const defaultRevenueWindow = 30 * 24 * time.Hour

// AnalyticsService aggregates settled revenue over a time window.
type AnalyticsService interface {
	Revenue(ctx context.Context, from, to time.Time) (feeanalytics.Metrics, error)
}

// RevenueAnalytics reports aggregate revenue for [from, to), defaulting to
// the last 30 days.
func RevenueAnalytics(svc AnalyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().UTC()

		to, err := validators.ParseQueryTime(r, "to", now)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, err := validators.ParseQueryTime(r, "from", to.Add(-defaultRevenueWindow))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		metrics, err := svc.Revenue(ctx, from, to)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}
