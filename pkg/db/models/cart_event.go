package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEvent records a single cart addition from the storefront. Events are
// append-only; discount triggers and analytics aggregate over them.
type CartEvent struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID     string          `gorm:"column:session_id;not null;index"`
	ProductID     int64           `gorm:"column:product_id;not null;index"`
	ProductPrice  decimal.Decimal `gorm:"column:product_price;type:numeric(12,2);not null"`
	QuantityAdded int             `gorm:"column:quantity_added;not null;default:1"`
	CustomerIP    *string         `gorm:"column:customer_ip"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
