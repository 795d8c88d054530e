package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
)

// ProductCartStats is one row of the cart-analytics aggregate.
type ProductCartStats struct {
	ProductID     int64           `json:"product_id"`
	Additions     int64           `json:"additions"`
	TotalQuantity int64           `json:"total_quantity"`
	LastPrice     decimal.Decimal `json:"last_price"`
	LastAddedAt   time.Time       `json:"last_added_at"`
}

// Repository exposes the aggregate queries over cart events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CartStatsByProduct(ctx context.Context) ([]ProductCartStats, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CartStatsByProduct(ctx context.Context) ([]ProductCartStats, error) {
	var rows []ProductCartStats
	err := r.db.WithContext(ctx).
		Model(&models.CartEvent{}).
		Select(
			"product_id",
			"COUNT(*) AS additions",
			"COALESCE(SUM(quantity_added), 0) AS total_quantity",
			"MAX(product_price) AS last_price",
			"MAX(created_at) AS last_added_at",
		).
		Group("product_id").
		Order("additions DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
