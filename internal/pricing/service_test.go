package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
)

type stubResolver struct {
	cfg feeconfig.Config
	err error
}

func (s *stubResolver) Resolve(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error) {
	if s.err != nil {
		return feeconfig.Config{}, s.err
	}
	cfg := s.cfg
	cfg.RestaurantID = restaurantID
	return cfg, nil
}

func TestServiceQuote(t *testing.T) {
	resolver := &stubResolver{cfg: feeconfig.Config{
		FeeType:                enums.FeeTypeFixed,
		ServiceFeeFixed:        decimal.RequireFromString("2.00"),
		ProcessorFeePercentage: decimal.RequireFromString("2.9"),
		ProcessorFlatFee:       decimal.RequireFromString("0.30"),
	}}
	svc, err := NewService(ServiceParams{Resolver: resolver})
	require.NoError(t, err)

	quote, err := svc.Quote(context.Background(), uuid.New(), 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1267, quote.TotalCents)
}

func TestServiceQuoteResolverError(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeDependency, "store down")}
	svc, err := NewService(ServiceParams{Resolver: resolver})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), uuid.New(), 1000)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestServiceQuoteRequiresRestaurantID(t *testing.T) {
	svc, err := NewService(ServiceParams{Resolver: &stubResolver{}})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), uuid.Nil, 1000)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
