package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/enums"
)

// DynamicDiscount is a per-product promotion that activates once the
// cumulative cart-addition count for the product reaches the trigger value.
type DynamicDiscount struct {
	ID               int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID        int64                  `gorm:"column:product_id;not null"`
	DiscountType     enums.DiscountType     `gorm:"column:discount_type;type:text;not null"`
	DiscountValue    decimal.Decimal        `gorm:"column:discount_value;type:numeric(12,2);not null"`
	TriggerCondition enums.TriggerCondition `gorm:"column:trigger_condition;type:text;not null;default:'cart_additions'"`
	TriggerValue     int                    `gorm:"column:trigger_value;not null"`
	IsActive         bool                   `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
