package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/pkg/db"
	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

// ConfigResolver supplies the effective fee configuration for a restaurant.
type ConfigResolver interface {
	Resolve(ctx context.Context, restaurantID uuid.UUID) (feeconfig.Config, error)
}

// ServiceParams groups dependencies for the settlement service.
type ServiceParams struct {
	Repo     Repository
	Resolver ConfigResolver
	Metrics  *metrics.EngineMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

// Service records settlement splits for captured payments.
type Service struct {
	repo     Repository
	resolver ConfigResolver
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the settlement service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("settlement repository required")
	}
	if params.Resolver == nil {
		return nil, errors.New("settlement config resolver required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:     params.Repo,
		resolver: params.Resolver,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

// RecordInput identifies one captured payment to settle.
type RecordInput struct {
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	TotalCents   int64
	SettledAt    time.Time
}

// Record splits a captured payment and persists the result as the
// settlement-of-record. Recording is idempotent by order id: re-posting the
// same order with the same total returns the stored record, a different
// total is a conflict. A split that fails the exact-sum check is logged and
// never persisted.
func (s *Service) Record(ctx context.Context, input RecordInput) (*models.SettlementRecord, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	existing, err := s.repo.FindByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading settlement record")
	}
	if existing != nil {
		return s.reconcileExisting(existing, input)
	}

	cfg, err := s.resolver.Resolve(ctx, input.RestaurantID)
	if err != nil {
		s.metrics.IncSettlement("error")
		return nil, err
	}

	split, err := ComputeSplit(cfg, input.TotalCents)
	if err != nil {
		s.metrics.IncSettlement("error")
		if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeSplitIntegrity {
			s.metrics.IncIntegrityFailure()
			if s.logg != nil {
				lctx := s.logg.WithOrderID(ctx, input.OrderID.String())
				s.logg.Error(lctx, "settlement split failed integrity check, books not written", err)
			}
		}
		return nil, err
	}

	settledAt := input.SettledAt
	if settledAt.IsZero() {
		settledAt = s.now()
	}

	record := &models.SettlementRecord{
		OrderID:               input.OrderID,
		RestaurantID:          input.RestaurantID,
		VenueID:               cfg.VenueID,
		Currency:              enums.CurrencyUSD,
		TotalCents:            split.TotalCents,
		ProcessorFeeCents:     split.ProcessorFeeCents,
		PlatformFeeCents:      split.PlatformFeeCents,
		VenueFeeCents:         split.VenueFeeCents,
		RestaurantAmountCents: split.RestaurantAmountCents,
		SettledAt:             settledAt,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, "") {
			// capture callbacks race; the first write wins
			stored, findErr := s.repo.FindByOrderID(ctx, input.OrderID)
			if findErr == nil && stored != nil {
				return s.reconcileExisting(stored, input)
			}
		}
		s.metrics.IncSettlement("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing settlement record")
	}

	s.metrics.IncSettlement("ok")
	return record, nil
}

func (s *Service) reconcileExisting(existing *models.SettlementRecord, input RecordInput) (*models.SettlementRecord, error) {
	if existing.TotalCents != input.TotalCents {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already settled with a different total")
	}
	s.metrics.IncSettlement("duplicate")
	return existing, nil
}

// ListByRestaurant returns a page of settlement records newest-first plus the
// cursor for the next page, empty when this is the last page.
func (s *Service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) ([]models.SettlementRecord, string, error) {
	if restaurantID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	records, err := s.repo.ListByRestaurant(ctx, restaurantID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing settlement records")
	}

	next := ""
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Timestamp: last.SettledAt, ID: last.ID})
	}
	return records, next, nil
}
