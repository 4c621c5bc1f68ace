package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dariomunoz/forkline-backend/internal/feeconfig"
	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

type stubRepo struct {
	byOrder map[uuid.UUID]*models.SettlementRecord
	created []*models.SettlementRecord
}

func newStubRepo() *stubRepo {
	return &stubRepo{byOrder: map[uuid.UUID]*models.SettlementRecord{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, record *models.SettlementRecord) error {
	s.byOrder[record.OrderID] = record
	s.created = append(s.created, record)
	return nil
}
func (s *stubRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.SettlementRecord, error) {
	return s.byOrder[orderID], nil
}
func (s *stubRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.SettlementRecord, error) {
	var out []models.SettlementRecord
	for _, record := range s.created {
		if record.RestaurantID == restaurantID {
			out = append(out, *record)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
func (s *stubRepo) ListSettledBetween(ctx context.Context, from, to time.Time) ([]models.SettlementRecord, error) {
	return nil, nil
}

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

func defaultResolver() *stubResolver {
	return &stubResolver{cfg: feeconfig.Config{
		FeeType:                enums.FeeTypeFixed,
		ServiceFeeFixed:        decimal.RequireFromString("2.00"),
		ProcessorFeePercentage: decimal.RequireFromString("2.9"),
		ProcessorFlatFee:       decimal.RequireFromString("0.30"),
	}}
}

func TestRecordPersistsSplit(t *testing.T) {
	repo := newStubRepo()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Resolver: defaultResolver(),
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	input := RecordInput{OrderID: uuid.New(), RestaurantID: uuid.New(), TotalCents: 1267}
	record, err := svc.Record(context.Background(), input)
	require.NoError(t, err)

	assert.EqualValues(t, 1267, record.TotalCents)
	assert.EqualValues(t, 67, record.ProcessorFeeCents)
	assert.EqualValues(t, 200, record.PlatformFeeCents)
	assert.EqualValues(t, 1000, record.RestaurantAmountCents)
	assert.Equal(t, enums.CurrencyUSD, record.Currency)
	assert.True(t, record.SettledAt.Equal(now))
	require.Len(t, repo.created, 1)
}

func TestRecordIsIdempotentByOrderID(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Resolver: defaultResolver()})
	require.NoError(t, err)

	input := RecordInput{OrderID: uuid.New(), RestaurantID: uuid.New(), TotalCents: 1267}
	first, err := svc.Record(context.Background(), input)
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, repo.created, 1)
}

func TestRecordConflictsOnMismatchedTotal(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Resolver: defaultResolver()})
	require.NoError(t, err)

	input := RecordInput{OrderID: uuid.New(), RestaurantID: uuid.New(), TotalCents: 1267}
	_, err = svc.Record(context.Background(), input)
	require.NoError(t, err)

	input.TotalCents = 1268
	_, err = svc.Record(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestRecordCarriesVenueFromConfig(t *testing.T) {
	venueID := uuid.New()
	resolver := defaultResolver()
	resolver.cfg.VenueID = &venueID
	resolver.cfg.VenueFeePercentage = decimal.RequireFromString("3")

	repo := newStubRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Resolver: resolver})
	require.NoError(t, err)

	record, err := svc.Record(context.Background(), RecordInput{
		OrderID:      uuid.New(),
		RestaurantID: uuid.New(),
		TotalCents:   10000,
	})
	require.NoError(t, err)
	require.NotNil(t, record.VenueID)
	assert.Equal(t, venueID, *record.VenueID)
	assert.Positive(t, record.VenueFeeCents)
}

func TestRecordRejectsDegenerateConfigWithoutPersisting(t *testing.T) {
	resolver := defaultResolver()
	resolver.cfg.ProcessorFeePercentage = decimal.RequireFromString("100")

	repo := newStubRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Resolver: resolver})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordInput{
		OrderID:      uuid.New(),
		RestaurantID: uuid.New(),
		TotalCents:   1000,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestRecordValidatesInput(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: newStubRepo(), Resolver: defaultResolver()})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordInput{RestaurantID: uuid.New(), TotalCents: 100})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Record(context.Background(), RecordInput{OrderID: uuid.New(), TotalCents: 100})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListByRestaurantRejectsBadCursor(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: newStubRepo(), Resolver: defaultResolver()})
	require.NoError(t, err)

	_, _, err = svc.ListByRestaurant(context.Background(), uuid.New(), pagination.Params{Cursor: "!!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
