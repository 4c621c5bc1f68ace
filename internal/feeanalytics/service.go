package feeanalytics

import (
	"context"
	"errors"
	"time"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
)

// RecordSource streams historical settlement records for a time window. The
// settlement repository satisfies it.
type RecordSource interface {
	ListSettledBetween(ctx context.Context, from, to time.Time) ([]models.SettlementRecord, error)
}

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Source RecordSource
	Logger *logger.Logger
}

// Service produces revenue reports from persisted settlements.
type Service struct {
	source RecordSource
	logg   *logger.Logger
}

// NewService builds the analytics service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Source == nil {
		return nil, errors.New("analytics record source required")
	}
	return &Service{source: params.Source, logg: params.Logger}, nil
}

// Revenue aggregates settlements with settled_at in [from, to).
func (s *Service) Revenue(ctx context.Context, from, to time.Time) (Metrics, error) {
	if !from.Before(to) {
		return Metrics{}, pkgerrors.New(pkgerrors.CodeValidation, "window start must precede window end")
	}

	rows, err := s.source.ListSettledBetween(ctx, from, to)
	if err != nil {
		return Metrics{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading settlement records")
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, settlementRow{row: &rows[i]})
	}
	return Aggregate(records), nil
}

// settlementRow adapts a persisted settlement to the aggregator's record shape.
type settlementRow struct {
	row *models.SettlementRecord
}

func (r settlementRow) OrderTotalCents() int64   { return r.row.TotalCents }
func (r settlementRow) PlatformFeeCents() int64  { return r.row.PlatformFeeCents }
func (r settlementRow) VenueFeeCents() int64     { return r.row.VenueFeeCents }
func (r settlementRow) ProcessorFeeCents() int64 { return r.row.ProcessorFeeCents }
func (r settlementRow) RestaurantKey() string    { return r.row.RestaurantID.String() }
func (r settlementRow) VenueKey() string {
	if r.row.VenueID == nil {
		return ""
	}
	return r.row.VenueID.String()
}
