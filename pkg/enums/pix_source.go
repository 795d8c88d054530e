package enums

import "fmt"

// PixSource records which path produced a PIX payload. The gateway adapter
// never hard-fails; callers branch on this instead of string-matching
// auth method labels.
type PixSource string

const (
	// PixSourceAutomatic means the payload came from the live gateway.
	PixSourceAutomatic PixSource = "automatic"
	// PixSourceMock means credentials were absent and a local placeholder
	// was synthesized.
	PixSourceMock PixSource = "mock"
	// PixSourceFallback means the gateway call failed (HTTP or network)
	// and a local placeholder was synthesized.
	PixSourceFallback PixSource = "fallback"
	// PixSourceEmergency means an unexpected panic was recovered during
	// generation and a local placeholder was synthesized.
	PixSourceEmergency PixSource = "emergency"
)

var validPixSources = []PixSource{
	PixSourceAutomatic,
	PixSourceMock,
	PixSourceFallback,
	PixSourceEmergency,
}

// String implements fmt.Stringer.
func (p PixSource) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PixSource.
func (p PixSource) IsValid() bool {
	for _, candidate := range validPixSources {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsDegraded reports whether the payload is a locally synthesized
// placeholder rather than a live gateway charge.
func (p PixSource) IsDegraded() bool {
	return p == PixSourceMock || p == PixSourceFallback || p == PixSourceEmergency
}

// ParsePixSource converts raw input into a PixSource.
func ParsePixSource(value string) (PixSource, error) {
	for _, candidate := range validPixSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pix source %q", value)
}
