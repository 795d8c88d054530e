package types

import (
	"github.com/shopspring/decimal"
)

// OrderItem is the durable snapshot of one line at the moment the order
// was placed. Catalog edits after that moment never change these values.
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderItems is stored as a jsonb column via the gorm json serializer.
type OrderItems []OrderItem

// Subtotal sums unit_price * quantity across all items.
func (items OrderItems) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
