package bans

import (
	"context"

	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
)

// Repository exposes persistence helpers for IP bans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	IsBanned(ctx context.Context, ip string) (bool, error)
	List(ctx context.Context) ([]models.IPBan, error)
	Create(ctx context.Context, ban *models.IPBan) error
	Deactivate(ctx context.Context, id int64) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a bans repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) IsBanned(ctx context.Context, ip string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.IPBan{}).
		Where("ip = ? AND is_active", ip).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.IPBan, error) {
	var rows []models.IPBan
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Create(ctx context.Context, ban *models.IPBan) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

func (r *repositoryImpl) Deactivate(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.IPBan{}).
		Where("id = ? AND is_active", id).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
