package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
)

// ConfigResolver supplies the effective fee configuration for a restaurant.
type ConfigResolver interface {
	Resolve(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error)
}

// ServiceParams groups dependencies for the pricing service.
type ServiceParams struct {
	Resolver ConfigResolver
	Metrics  *metrics.EngineMetrics
	Logger   *logger.Logger
}

// Service computes customer-facing quotes. Quotes are ephemeral: the checkout
// flow records them on the order before payment capture, nothing is persisted
// here.
type Service struct {
	resolver ConfigResolver
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
}

// NewService builds the pricing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Resolver == nil {
		return nil, errors.New("pricing config resolver required")
	}
	return &Service{
		resolver: params.Resolver,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Quote resolves the restaurant's fee configuration and runs the gross-up.
func (s *Service) Quote(ctx context.Context, restaurantID uuid.UUID, subtotalCents int64) (Quote, error) {
	if restaurantID == uuid.Nil {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	cfg, err := s.resolver.Resolve(ctx, restaurantID)
	if err != nil {
		s.metrics.IncQuote("error")
		return Quote{}, err
	}

	quote, err := ComputeQuote(cfg, subtotalCents)
	if err != nil {
		s.metrics.IncQuote("error")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithRestaurantID(ctx, restaurantID.String()), "quote rejected")
		}
		return Quote{}, err
	}

	s.metrics.IncQuote("ok")
	return quote, nil
}
