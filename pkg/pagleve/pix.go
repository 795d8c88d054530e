package pagleve

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PixExpiry is applied to every generated payload regardless of path.
const PixExpiry = 600 * time.Second

// PixOrder carries the order fields the gateway needs. OrderRef may be a
// temporary synthetic id when the order row does not exist yet.
type PixOrder struct {
	OrderRef      string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	TotalAmount   decimal.Decimal
	FinalAmount   decimal.Decimal
}

// PixResult is the adapter's always-successful outcome. Callers branch on
// Source; Err is diagnostic only and never blocks checkout.
type PixResult struct {
	Source       enums.PixSource
	QRCodeURL    *string
	PixCopyPaste *string
	PaymentID    string
	ExpiresAt    time.Time
	AuthMethod   string
	Err          error
}

// Degraded reports whether the payload is a locally synthesized placeholder.
func (r PixResult) Degraded() bool {
	return r.Source.IsDegraded()
}

// SynthesizeCode builds the placeholder copy-and-paste payload used by the
// mock/fallback/emergency paths. It is a fixed-format string the storefront
// can render, not a bank-decodable PIX EMV payload.
func SynthesizeCode(now time.Time, orderRef string, amount decimal.Decimal) string {
	ref := strings.TrimSpace(orderRef)
	if ref == "" {
		ref = "0"
	}
	return fmt.Sprintf(
		"00020126DISTRIBUIDORA-PIX|TS%d|PEDIDO%s|BRL%s|6304FFFF",
		now.UnixMilli(),
		ref,
		amount.StringFixed(2),
	)
}
