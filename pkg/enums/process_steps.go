package enums

import "fmt"

// ProcessLayout selects how process steps flow.
type ProcessLayout string

const (
	ProcessLayoutHorizontal  ProcessLayout = "horizontal"
	ProcessLayoutVertical    ProcessLayout = "vertical"
	ProcessLayoutAlternating ProcessLayout = "alternating"
)

var validProcessLayouts = []ProcessLayout{
	ProcessLayoutHorizontal,
	ProcessLayoutVertical,
	ProcessLayoutAlternating,
}

// String implements fmt.Stringer.
func (v ProcessLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ProcessLayout.
func (v ProcessLayout) IsValid() bool {
	return contains(validProcessLayouts, v)
}

// OrDefault returns v when valid, else ProcessLayoutHorizontal.
func (v ProcessLayout) OrDefault() ProcessLayout {
	if v.IsValid() {
		return v
	}
	return ProcessLayoutHorizontal
}

// ParseProcessLayout converts raw input into a ProcessLayout.
func ParseProcessLayout(value string) (ProcessLayout, error) {
	if v := ProcessLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid process layout %q", value)
}
