package feeconfig

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/enums"
)

func setupFeeConfigDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`DROP TABLE IF EXISTS fee_configurations`,
		`DROP TABLE IF EXISTS restaurants`,
		`DROP TABLE IF EXISTS venues`,
		`CREATE TABLE venues (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			fee_percentage NUMERIC NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			venue_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE fee_configurations (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL UNIQUE,
			fee_type TEXT NOT NULL DEFAULT 'fixed',
			service_fee_fixed NUMERIC NOT NULL DEFAULT 0,
			service_fee_percentage NUMERIC NOT NULL DEFAULT 0,
			venue_fee_percentage NUMERIC,
			tax_rate NUMERIC NOT NULL DEFAULT 0,
			processor_fee_percentage NUMERIC NOT NULL DEFAULT 0,
			processor_flat_fee NUMERIC NOT NULL DEFAULT 0,
			minimum_order_amount NUMERIC NOT NULL DEFAULT 0,
			is_negotiated BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func TestRepositoryFindRestaurantPreloadsVenue(t *testing.T) {
	gdb := setupFeeConfigDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	venue := &models.Venue{
		ID:            uuid.New(),
		Name:          "Harbor Market",
		FeePercentage: decimal.RequireFromString("3"),
	}
	require.NoError(t, gdb.Create(venue).Error)

	restaurant := &models.Restaurant{
		ID:      uuid.New(),
		Name:    "Noodle Bar",
		VenueID: &venue.ID,
	}
	require.NoError(t, gdb.Create(restaurant).Error)

	found, err := repo.FindRestaurant(ctx, restaurant.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Venue)
	require.Equal(t, "Harbor Market", found.Venue.Name)
	require.True(t, found.Venue.FeePercentage.Equal(venue.FeePercentage))
}

func TestRepositoryFindRestaurantMissing(t *testing.T) {
	gdb := setupFeeConfigDB(t)
	repo := NewRepository(gdb)

	found, err := repo.FindRestaurant(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestRepositoryUpsertCreatesThenUpdates(t *testing.T) {
	gdb := setupFeeConfigDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	restaurantID := uuid.New()
	record := &models.FeeConfiguration{
		ID:                     uuid.New(),
		RestaurantID:           restaurantID,
		FeeType:                enums.FeeTypeFixed,
		ServiceFeeFixed:        decimal.RequireFromString("2.00"),
		ProcessorFeePercentage: decimal.RequireFromString("2.9"),
		ProcessorFlatFee:       decimal.RequireFromString("0.30"),
	}
	require.NoError(t, repo.Upsert(ctx, record))

	stored, err := repo.FindByRestaurantID(ctx, restaurantID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, enums.FeeTypeFixed, stored.FeeType)

	update := &models.FeeConfiguration{
		RestaurantID:         restaurantID,
		FeeType:              enums.FeeTypeHybrid,
		ServiceFeeFixed:      decimal.RequireFromString("1.00"),
		ServiceFeePercentage: decimal.RequireFromString("5"),
		IsNegotiated:         true,
	}
	require.NoError(t, repo.Upsert(ctx, update))

	stored, err = repo.FindByRestaurantID(ctx, restaurantID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, record.ID, stored.ID)
	require.Equal(t, enums.FeeTypeHybrid, stored.FeeType)
	require.True(t, stored.IsNegotiated)

	var count int64
	require.NoError(t, gdb.Model(&models.FeeConfiguration{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRepositoryDeleteByRestaurantID(t *testing.T) {
	gdb := setupFeeConfigDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	restaurantID := uuid.New()
	require.NoError(t, repo.Upsert(ctx, &models.FeeConfiguration{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		FeeType:      enums.FeeTypePercentage,
	}))

	require.NoError(t, repo.DeleteByRestaurantID(ctx, restaurantID))

	stored, err := repo.FindByRestaurantID(ctx, restaurantID)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestRepositoryWithTxRollbackDiscardsWrite(t *testing.T) {
	gdb := setupFeeConfigDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	restaurantID := uuid.New()

	err := gdb.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		require.NoError(t, txRepo.Upsert(ctx, &models.FeeConfiguration{
			ID:           uuid.New(),
			RestaurantID: restaurantID,
			FeeType:      enums.FeeTypeFixed,
			TaxRate:      decimal.Zero,
		}))
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	record, err := repo.FindByRestaurantID(ctx, restaurantID)
	require.NoError(t, err)
	require.Nil(t, record)
}
