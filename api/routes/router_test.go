package routes

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariomunoz/forkline-backend/internal/feeanalytics"
	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/internal/pricing"
	"github.com/dariomunoz/forkline-backend/internal/settlement"
	"github.com/dariomunoz/forkline-backend/pkg/config"
	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type fakeQuotes struct{}

func (fakeQuotes) Quote(ctx context.Context, restaurantID uuid.UUID, subtotalCents int64) (pricing.Quote, error) {
	return pricing.Quote{SubtotalCents: subtotalCents, TotalCents: subtotalCents}, nil
}

type fakeSettlements struct{}

func (fakeSettlements) Record(ctx context.Context, input settlement.RecordInput) (*models.SettlementRecord, error) {
	return &models.SettlementRecord{OrderID: input.OrderID, RestaurantID: input.RestaurantID, TotalCents: input.TotalCents, SettledAt: time.Now()}, nil
}

func (fakeSettlements) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) ([]models.SettlementRecord, string, error) {
	return nil, "", nil
}

type fakeFeeConfigs struct{}

func (fakeFeeConfigs) Resolve(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error) {
	return feeconfig.DefaultConfig(restaurantID), nil
}

func (fakeFeeConfigs) Update(ctx context.Context, restaurantID uuid.UUID, input feeconfig.UpdateInput) (feeconfig.Config, error) {
	return feeconfig.DefaultConfig(restaurantID), nil
}

func (fakeFeeConfigs) Reset(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error) {
	return feeconfig.DefaultConfig(restaurantID), nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) Revenue(ctx context.Context, from, to time.Time) (feeanalytics.Metrics, error) {
	return feeanalytics.Metrics{}, nil
}

func testRouterDeps() Deps {
	registry := prometheus.NewRegistry()
	return Deps{
		Config:      &config.Config{App: config.AppConfig{Env: "test"}},
		Registry:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		DBPinger:    okPinger{},
		RedisPinger: okPinger{},
		Quotes:      fakeQuotes{},
		Settlements: fakeSettlements{},
		FeeConfigs:  fakeFeeConfigs{},
		Analytics:   fakeAnalytics{},
	}
}

func TestRouterRoutes(t *testing.T) {
	router := NewRouter(testRouterDeps())
	restaurantID := uuid.NewString()

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{"GET", "/health/live", "", 200},
		{"GET", "/health/ready", "", 200},
		{"GET", "/metrics", "", 200},
		{"POST", "/api/v1/quotes", `{"restaurant_id":"` + restaurantID + `","subtotal_cents":1000}`, 200},
		{"POST", "/api/v1/settlements", `{"order_id":"` + uuid.NewString() + `","restaurant_id":"` + restaurantID + `","total_cents":1000}`, 201},
		{"GET", "/api/v1/restaurants/" + restaurantID + "/settlements", "", 200},
		{"GET", "/api/v1/analytics/revenue", "", 200},
		{"GET", "/api/admin/v1/restaurants/" + restaurantID + "/fee-config", "", 200},
		{"DELETE", "/api/admin/v1/restaurants/" + restaurantID + "/fee-config", "", 200},
		{"GET", "/nope", "", 404},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := NewRouter(testRouterDeps())

	req := httptest.NewRequest("GET", "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

type denyLimiter struct{}

func (denyLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	return false, limit + 1, nil
}

func TestRouterRateLimitsWriteAndAdminRoutes(t *testing.T) {
	deps := testRouterDeps()
	deps.Config.RateLimit = config.RateLimitConfig{Window: time.Minute, WriteLimit: 1, AdminLimit: 1}
	deps.Limiter = denyLimiter{}
	router := NewRouter(deps)
	restaurantID := uuid.NewString()

	limited := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/api/v1/quotes", `{"restaurant_id":"` + restaurantID + `","subtotal_cents":1000}`},
		{"POST", "/api/v1/settlements", `{"order_id":"` + uuid.NewString() + `","restaurant_id":"` + restaurantID + `","total_cents":1000}`},
		{"PUT", "/api/admin/v1/restaurants/" + restaurantID + "/fee-config", `{"fee_type":"fixed"}`},
	}
	for _, tc := range limited {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, 429, rec.Code)
		})
	}

	// read surfaces stay open
	req := httptest.NewRequest("GET", "/api/v1/restaurants/"+restaurantID+"/settlements", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}
