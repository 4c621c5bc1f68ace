package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

func setupSettlementDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`DROP TABLE IF EXISTS settlement_records`,
		`CREATE TABLE settlement_records (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			restaurant_id TEXT NOT NULL,
			venue_id TEXT,
			currency TEXT NOT NULL DEFAULT 'USD',
			total_cents INTEGER NOT NULL,
			processor_fee_cents INTEGER NOT NULL,
			platform_fee_cents INTEGER NOT NULL,
			venue_fee_cents INTEGER NOT NULL,
			restaurant_amount_cents INTEGER NOT NULL,
			settled_at DATETIME NOT NULL,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func seedRecord(t *testing.T, repo Repository, restaurantID uuid.UUID, totalCents int64, settledAt time.Time) *models.SettlementRecord {
	t.Helper()
	record := &models.SettlementRecord{
		ID:                    uuid.New(),
		OrderID:               uuid.New(),
		RestaurantID:          restaurantID,
		Currency:              enums.CurrencyUSD,
		TotalCents:            totalCents,
		ProcessorFeeCents:     0,
		PlatformFeeCents:      0,
		VenueFeeCents:         0,
		RestaurantAmountCents: totalCents,
		SettledAt:             settledAt,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestRepositoryFindByOrderID(t *testing.T) {
	repo := NewRepository(setupSettlementDB(t))
	restaurantID := uuid.New()
	created := seedRecord(t, repo, restaurantID, 1267, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))

	found, err := repo.FindByOrderID(context.Background(), created.OrderID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)
	require.EqualValues(t, 1267, found.TotalCents)

	missing, err := repo.FindByOrderID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRepositoryListByRestaurantPages(t *testing.T) {
	repo := NewRepository(setupSettlementDB(t))
	restaurantID := uuid.New()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedRecord(t, repo, restaurantID, int64(1000+i), base.Add(time.Duration(i)*time.Hour))
	}
	seedRecord(t, repo, uuid.New(), 9999, base)

	firstPage, err := repo.ListByRestaurant(context.Background(), restaurantID, 3, nil)
	require.NoError(t, err)
	require.Len(t, firstPage, 3)
	// newest first
	require.EqualValues(t, 1004, firstPage[0].TotalCents)
	require.EqualValues(t, 1002, firstPage[2].TotalCents)

	cursor := &pagination.Cursor{Timestamp: firstPage[2].SettledAt, ID: firstPage[2].ID}
	secondPage, err := repo.ListByRestaurant(context.Background(), restaurantID, 3, cursor)
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.EqualValues(t, 1001, secondPage[0].TotalCents)
	require.EqualValues(t, 1000, secondPage[1].TotalCents)
}

func TestRepositoryListSettledBetween(t *testing.T) {
	repo := NewRepository(setupSettlementDB(t))
	restaurantID := uuid.New()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seedRecord(t, repo, restaurantID, 100, base.Add(-time.Hour))
	inWindow := seedRecord(t, repo, restaurantID, 200, base.Add(time.Hour))
	seedRecord(t, repo, restaurantID, 300, base.Add(48*time.Hour))

	records, err := repo.ListSettledBetween(context.Background(), base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, inWindow.ID, records[0].ID)
}
