package enums

import "fmt"

// TriggerCondition names the aggregate a dynamic discount is evaluated
// against. Only cumulative cart additions exist today.
type TriggerCondition string

const (
	TriggerConditionCartAdditions TriggerCondition = "cart_additions"
)

var validTriggerConditions = []TriggerCondition{
	TriggerConditionCartAdditions,
}

// String implements fmt.Stringer.
func (t TriggerCondition) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TriggerCondition.
func (t TriggerCondition) IsValid() bool {
	for _, candidate := range validTriggerConditions {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTriggerCondition converts raw input into a TriggerCondition.
func ParseTriggerCondition(value string) (TriggerCondition, error) {
	for _, candidate := range validTriggerConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger condition %q", value)
}
