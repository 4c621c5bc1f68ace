package feeconfig

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
)

// Repository handles fee configuration persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByRestaurantID(ctx context.Context, restaurantID uuid.UUID) (*models.FeeConfiguration, error)
	FindRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.Restaurant, error)
	Upsert(ctx context.Context, record *models.FeeConfiguration) error
	DeleteByRestaurantID(ctx context.Context, restaurantID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a fee configuration repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByRestaurantID(ctx context.Context, restaurantID uuid.UUID) (*models.FeeConfiguration, error) {
	var record models.FeeConfiguration
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("id = ?", restaurantID).
		First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// Upsert writes the override record, replacing an existing one in place. The
// find and the write run in one transaction so concurrent updates cannot
// interleave into duplicate rows.
func (r *repository) Upsert(ctx context.Context, record *models.FeeConfiguration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		existing, err := txRepo.FindByRestaurantID(ctx, record.RestaurantID)
		if err != nil {
			return err
		}
		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			return tx.Save(record).Error
		}
		return tx.Create(record).Error
	})
}

func (r *repository) DeleteByRestaurantID(ctx context.Context, restaurantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&models.FeeConfiguration{}).Error
}
