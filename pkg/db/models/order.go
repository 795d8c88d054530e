package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	"github.com/lucasferri/distribuidora-backend/pkg/types"
)

// Order represents a storefront checkout. Items are snapshotted as JSON at
// creation time so later catalog edits never rewrite order history.
type Order struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerName    *string           `gorm:"column:customer_name"`
	CustomerPhone   *string           `gorm:"column:customer_phone"`
	CustomerEmail   *string           `gorm:"column:customer_email"`
	CustomerAddress *string           `gorm:"column:customer_address"`
	CustomerCEP     *string           `gorm:"column:customer_cep"`
	CustomerIP      *string           `gorm:"column:customer_ip"`
	Items           types.OrderItems  `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CouponCode      *string           `gorm:"column:coupon_code"`
	DiscountAmount  *decimal.Decimal  `gorm:"column:discount_amount;type:numeric(12,2)"`
	FinalAmount     decimal.Decimal   `gorm:"column:final_amount;type:numeric(12,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'awaiting_qr'"`
	PaymentMethod   string            `gorm:"column:payment_method;not null;default:'pix'"`
	QRCodeURL       *string           `gorm:"column:qr_code_url"`
	PixCopyPaste    *string           `gorm:"column:pix_copy_paste"`
	PaymentID       *string           `gorm:"column:payment_id"`
	Notes           *string           `gorm:"column:notes"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
