package enums

import "fmt"

// ValuesLayout selects the values grid arrangement.
type ValuesLayout string

const (
	ValuesLayoutGrid    ValuesLayout = "grid"
	ValuesLayoutCards   ValuesLayout = "cards"
	ValuesLayoutMinimal ValuesLayout = "minimal"
)

var validValuesLayouts = []ValuesLayout{
	ValuesLayoutGrid,
	ValuesLayoutCards,
	ValuesLayoutMinimal,
}

// String implements fmt.Stringer.
func (v ValuesLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ValuesLayout.
func (v ValuesLayout) IsValid() bool {
	return contains(validValuesLayouts, v)
}

// OrDefault returns v when valid, else ValuesLayoutGrid.
func (v ValuesLayout) OrDefault() ValuesLayout {
	if v.IsValid() {
		return v
	}
	return ValuesLayoutGrid
}

// ParseValuesLayout converts raw input into a ValuesLayout.
func ParseValuesLayout(value string) (ValuesLayout, error) {
	if v := ValuesLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid values layout %q", value)
}
