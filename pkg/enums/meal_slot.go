package enums

import "fmt"

// MealSlot identifies which meal of the day a plan entry covers.
type MealSlot string

const (
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
	MealSlotSnack     MealSlot = "snack"
)

var validMealSlots = []MealSlot{
	MealSlotBreakfast,
	MealSlotLunch,
	MealSlotDinner,
	MealSlotSnack,
}

// String implements fmt.Stringer.
func (m MealSlot) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MealSlot.
func (m MealSlot) IsValid() bool {
	for _, candidate := range validMealSlots {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMealSlot converts raw input into a MealSlot.
func ParseMealSlot(value string) (MealSlot, error) {
	for _, candidate := range validMealSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meal slot %q", value)
}
