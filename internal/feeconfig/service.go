package feeconfig

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
	"github.com/dariomunoz/forkline-backend/pkg/redis"
)

// ConfigCache is the read-through cache surface for resolved configurations.
// The engine itself stays stateless; caching and invalidation live here, in
// the store layer.
type ConfigCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	FeeConfigKey(restaurantID string) string
}

// ServiceParams groups dependencies for the fee configuration resolver.
type ServiceParams struct {
	Repo     Repository
	Cache    ConfigCache
	CacheTTL time.Duration
	Metrics  *metrics.EngineMetrics
	Logger   *logger.Logger
}

// Service resolves effective fee configurations and owns override writes.
type Service struct {
	repo     Repository
	cache    ConfigCache
	cacheTTL time.Duration
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
}

// NewService builds the fee configuration service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("feeconfig repository required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: ttl,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Resolve returns the effective configuration for the restaurant. A missing
// override record is not an error: the platform defaults apply, overlaid with
// the venue fee when the restaurant belongs to a venue.
func (s *Service) Resolve(ctx context.Context, restaurantID uuid.UUID) (Config, error) {
	if restaurantID == uuid.Nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	if cached, ok := s.fromCache(ctx, restaurantID); ok {
		s.metrics.IncConfigResolution("cache")
		return cached, nil
	}

	restaurant, err := s.repo.FindRestaurant(ctx, restaurantID)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading restaurant")
	}

	record, err := s.repo.FindByRestaurantID(ctx, restaurantID)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading fee configuration")
	}

	resolved := Merge(restaurantID, restaurant, record)

	source := "default"
	if record != nil {
		source = "override"
	}
	s.metrics.IncConfigResolution(source)

	s.toCache(ctx, resolved)
	return resolved, nil
}

// Merge layers the per-restaurant override and the venue overlay onto the
// platform defaults. Pure; exported for engine tests.
func Merge(restaurantID uuid.UUID, restaurant *models.Restaurant, record *models.FeeConfiguration) Config {
	resolved := DefaultConfig(restaurantID)

	if restaurant != nil && restaurant.Venue != nil {
		venueID := restaurant.Venue.ID
		venueName := restaurant.Venue.Name
		resolved.VenueID = &venueID
		resolved.VenueName = &venueName
		resolved.VenueFeePercentage = restaurant.Venue.FeePercentage
	}

	if record == nil {
		return resolved
	}

	resolved.FeeType = record.FeeType
	resolved.ServiceFeeFixed = record.ServiceFeeFixed
	resolved.ServiceFeePercentage = record.ServiceFeePercentage
	resolved.TaxRate = record.TaxRate
	resolved.ProcessorFeePercentage = record.ProcessorFeePercentage
	resolved.ProcessorFlatFee = record.ProcessorFlatFee
	resolved.MinimumOrderAmount = record.MinimumOrderAmount
	resolved.IsNegotiated = record.IsNegotiated
	resolved.IsDefault = false

	// nil means inherit the venue overlay
	if record.VenueFeePercentage != nil {
		resolved.VenueFeePercentage = *record.VenueFeePercentage
	}

	return resolved
}

// UpdateInput carries a complete override record; optional fields fall back
// to the platform defaults at write time so stored records are always whole.
type UpdateInput struct {
	FeeType                string
	ServiceFeeFixed        *decimal.Decimal
	ServiceFeePercentage   *decimal.Decimal
	VenueFeePercentage     *decimal.Decimal
	TaxRate                *decimal.Decimal
	ProcessorFeePercentage *decimal.Decimal
	ProcessorFlatFee       *decimal.Decimal
	MinimumOrderAmount     *decimal.Decimal
	IsNegotiated           bool
}

// Update validates and persists a per-restaurant override, then invalidates
// the cache and returns the newly effective configuration.
func (s *Service) Update(ctx context.Context, restaurantID uuid.UUID, input UpdateInput) (Config, error) {
	if restaurantID == uuid.Nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	restaurant, err := s.repo.FindRestaurant(ctx, restaurantID)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading restaurant")
	}
	if restaurant == nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	record, err := buildRecord(restaurantID, input)
	if err != nil {
		return Config{}, err
	}

	// write-time integrity gate: the engines re-check, but degenerate
	// configurations must never reach storage
	if err := Merge(restaurantID, restaurant, record).Validate(); err != nil {
		return Config{}, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing fee configuration")
	}

	s.invalidate(ctx, restaurantID)
	return Merge(restaurantID, restaurant, record), nil
}

// Reset deletes the override so the restaurant reverts to platform defaults.
func (s *Service) Reset(ctx context.Context, restaurantID uuid.UUID) (Config, error) {
	if restaurantID == uuid.Nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	restaurant, err := s.repo.FindRestaurant(ctx, restaurantID)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading restaurant")
	}
	if restaurant == nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	if err := s.repo.DeleteByRestaurantID(ctx, restaurantID); err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting fee configuration")
	}

	s.invalidate(ctx, restaurantID)
	return Merge(restaurantID, restaurant, nil), nil
}

func buildRecord(restaurantID uuid.UUID, input UpdateInput) (*models.FeeConfiguration, error) {
	feeType, err := parseFeeType(input.FeeType)
	if err != nil {
		return nil, err
	}

	record := &models.FeeConfiguration{
		RestaurantID:           restaurantID,
		FeeType:                feeType,
		ServiceFeeFixed:        valueOr(input.ServiceFeeFixed, defaultServiceFeeFixed),
		ServiceFeePercentage:   valueOr(input.ServiceFeePercentage, decimal.Zero),
		VenueFeePercentage:     input.VenueFeePercentage,
		TaxRate:                valueOr(input.TaxRate, defaultTaxRate),
		ProcessorFeePercentage: valueOr(input.ProcessorFeePercentage, defaultProcessorFeePercentage),
		ProcessorFlatFee:       valueOr(input.ProcessorFlatFee, defaultProcessorFlatFee),
		MinimumOrderAmount:     valueOr(input.MinimumOrderAmount, decimal.Zero),
		IsNegotiated:           input.IsNegotiated,
	}
	return record, nil
}

func parseFeeType(value string) (enums.FeeType, error) {
	if strings.TrimSpace(value) == "" {
		return enums.FeeTypeFixed, nil
	}
	feeType, err := enums.ParseFeeType(value)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fee type")
	}
	return feeType, nil
}

func valueOr(ptr *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if ptr == nil {
		return fallback
	}
	return *ptr
}

func (s *Service) fromCache(ctx context.Context, restaurantID uuid.UUID) (Config, bool) {
	if s.cache == nil {
		return Config{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.FeeConfigKey(restaurantID.String()))
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) && s.logg != nil {
			s.logg.Warn(ctx, "fee config cache read failed")
		}
		return Config{}, false
	}
	var cached Config
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "fee config cache entry corrupt")
		}
		return Config{}, false
	}
	return cached, true
}

func (s *Service) toCache(ctx context.Context, resolved Config) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	key := s.cache.FeeConfigKey(resolved.RestaurantID.String())
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "fee config cache write failed")
	}
}

func (s *Service) invalidate(ctx context.Context, restaurantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.FeeConfigKey(restaurantID.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "fee config cache invalidation failed")
	}
}
