package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dariomunoz/forkline-backend/pkg/db/models"
	"github.com/dariomunoz/forkline-backend/pkg/pagination"
)

// Repository handles settlement record persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.SettlementRecord) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.SettlementRecord, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.SettlementRecord, error)
	ListSettledBetween(ctx context.Context, from, to time.Time) ([]models.SettlementRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settlement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.SettlementRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByRestaurant pages newest-first on (settled_at, id). Callers request
// one row beyond the page size to detect the next page.
func (r *repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.SettlementRecord, error) {
	query := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("settled_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(settled_at < ?) OR (settled_at = ? AND id < ?)",
			cursor.Timestamp, cursor.Timestamp, cursor.ID,
		)
	}

	var records []models.SettlementRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListSettledBetween returns records with settled_at in [from, to), oldest
// first. Analytics callers hand the rows to the pure aggregator.
func (r *repository) ListSettledBetween(ctx context.Context, from, to time.Time) ([]models.SettlementRecord, error) {
	var records []models.SettlementRecord
	if err := r.db.WithContext(ctx).
		Where("settled_at >= ? AND settled_at < ?", from, to).
		Order("settled_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
