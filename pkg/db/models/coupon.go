package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/enums"
)

// Coupon represents a storefront discount code.
type Coupon struct {
	ID                 int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code               string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType       enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue      decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinimumOrderAmount decimal.Decimal    `gorm:"column:minimum_order_amount;type:numeric(12,2);not null;default:0"`
	UsageLimit         *int               `gorm:"column:usage_limit"`
	UsedCount          int                `gorm:"column:used_count;not null;default:0"`
	ValidFrom          *time.Time         `gorm:"column:valid_from"`
	ValidUntil         *time.Time         `gorm:"column:valid_until"`
	IsActive           bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
