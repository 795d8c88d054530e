package pagleve

import "strings"

// pixFields are the values pulled out of a charge-creation response.
type pixFields struct {
	QRCodeURL    string
	PixCopyPaste string
	PaymentID    string
	ExpiresAt    string
}

func (f pixFields) empty() bool {
	return f.QRCodeURL == "" && f.PixCopyPaste == ""
}

// extraction is one known response shape. The gateway's schema has changed
// before, so the adapter probes each shape in a fixed, auditable order.
type extraction struct {
	name string
	pick func(payload map[string]any) (pixFields, bool)
}

var extractions = []extraction{
	{name: "data", pick: pickNested("data")},
	{name: "pix", pick: pickNested("pix")},
	{name: "charge", pick: pickNested("charge")},
	{name: "top-level", pick: pickFields},
}

// extractPixFields walks the known shapes in order and returns the first hit
// plus the shape name for diagnostics.
func extractPixFields(payload map[string]any) (pixFields, string, bool) {
	for _, candidate := range extractions {
		if fields, ok := candidate.pick(payload); ok {
			return fields, candidate.name, true
		}
	}
	return pixFields{}, "", false
}

func pickNested(key string) func(map[string]any) (pixFields, bool) {
	return func(payload map[string]any) (pixFields, bool) {
		nested, ok := payload[key].(map[string]any)
		if !ok {
			return pixFields{}, false
		}
		return pickFields(nested)
	}
}

func pickFields(payload map[string]any) (pixFields, bool) {
	fields := pixFields{
		QRCodeURL:    firstString(payload, "qr_code_url", "qrCodeUrl", "qr_code_image", "qrcode_url"),
		PixCopyPaste: firstString(payload, "pix_copy_paste", "copy_paste", "pix_code", "qr_code_text", "emv", "brcode"),
		PaymentID:    firstString(payload, "payment_id", "charge_id", "transaction_id", "id"),
		ExpiresAt:    firstString(payload, "expires_at", "expiration", "expire_at"),
	}
	if fields.empty() {
		return pixFields{}, false
	}
	return fields, true
}

func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := payload[key]; ok {
			if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// looksLikePixText guesses whether a non-JSON body is itself a PIX payload.
// Some gateway deployments answer charge creation with the bare code.
func looksLikePixText(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	lowered := strings.ToLower(trimmed)
	if strings.Contains(lowered, "pix") || strings.Contains(lowered, "qr") {
		return true
	}
	return len(trimmed) > 80
}
