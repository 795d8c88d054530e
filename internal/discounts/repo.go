package discounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
)

// Repository exposes persistence helpers for dynamic discounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveByProduct(ctx context.Context, productID int64) ([]models.DynamicDiscount, error)
	List(ctx context.Context) ([]models.DynamicDiscount, error)
	FindByID(ctx context.Context, id int64) (*models.DynamicDiscount, error)
	Create(ctx context.Context, discount *models.DynamicDiscount) error
	Update(ctx context.Context, discount *models.DynamicDiscount) error
	Delete(ctx context.Context, id int64) error
	// CountCartAdditions returns the all-time number of cart-addition events
	// for a product. Triggers are monotonic, so there is no time window.
	CountCartAdditions(ctx context.Context, productID int64) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a discounts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListActiveByProduct(ctx context.Context, productID int64) ([]models.DynamicDiscount, error) {
	var rows []models.DynamicDiscount
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.DynamicDiscount, error) {
	var rows []models.DynamicDiscount
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.DynamicDiscount, error) {
	var row models.DynamicDiscount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) Create(ctx context.Context, discount *models.DynamicDiscount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *repositoryImpl) Update(ctx context.Context, discount *models.DynamicDiscount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.DynamicDiscount{}, id).Error
}

func (r *repositoryImpl) CountCartAdditions(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartEvent{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
