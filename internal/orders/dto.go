package orders

import (
	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
)

// ItemInput is one cart line as submitted by the storefront.
type ItemInput struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// CreateInput carries everything the checkout endpoint accepts. Customer
// fields are all optional; only items and a positive total are required.
type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	CustomerCEP     string
	CustomerIP      string
	Items           []ItemInput
	TotalAmount     decimal.Decimal
	CouponCode      string
	DiscountAmount  *decimal.Decimal
	FinalAmount     *decimal.Decimal
	Notes           string
	PaymentMethod   string
}

// PaymentInfo tells the storefront how the payment side of checkout resolved,
// distinguishing "automatic succeeded", "automatic degraded", and "manual
// mode, awaiting admin".
type PaymentInfo struct {
	AutomaticModeEnabled  bool            `json:"automatic_mode_enabled"`
	AutomaticPixGenerated bool            `json:"automatic_pix_generated"`
	PixAvailable          bool            `json:"pix_available"`
	PixSource             enums.PixSource `json:"pix_source,omitempty"`
}

// CreateResult is the checkout response payload.
type CreateResult struct {
	Order       *models.Order `json:"order"`
	PaymentInfo PaymentInfo   `json:"payment_info"`
}

// ListParams configures admin order listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned orders and the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}
