package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	"github.com/lucasferri/distribuidora-backend/pkg/pagination"
)

// Repository exposes persistence helpers for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) (int64, error)
	UpdatePixFields(ctx context.Context, id int64, fields PixFields) error
	Delete(ctx context.Context, id int64) error
}

// PixFields are the payment columns written after PIX (re)generation or a
// manual admin attachment.
type PixFields struct {
	QRCodeURL    *string
	PixCopyPaste *string
	PaymentID    *string
}

type listOrdersParams struct {
	Status *enums.OrderStatus
	Limit  int
	Cursor *pagination.Cursor
}
