package enums

import "fmt"

// StatisticsLayout selects the metrics arrangement.
type StatisticsLayout string

const (
	StatisticsLayoutGrid   StatisticsLayout = "grid"
	StatisticsLayoutInline StatisticsLayout = "inline"
	StatisticsLayoutCards  StatisticsLayout = "cards"
)

var validStatisticsLayouts = []StatisticsLayout{
	StatisticsLayoutGrid,
	StatisticsLayoutInline,
	StatisticsLayoutCards,
}

// String implements fmt.Stringer.
func (v StatisticsLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known StatisticsLayout.
func (v StatisticsLayout) IsValid() bool {
	return contains(validStatisticsLayouts, v)
}

// OrDefault returns v when valid, else StatisticsLayoutGrid.
func (v StatisticsLayout) OrDefault() StatisticsLayout {
	if v.IsValid() {
		return v
	}
	return StatisticsLayoutGrid
}

// ParseStatisticsLayout converts raw input into a StatisticsLayout.
func ParseStatisticsLayout(value string) (StatisticsLayout, error) {
	if v := StatisticsLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid statistics layout %q", value)
}

// BackgroundStyle is the section background palette.
type BackgroundStyle string

const (
	BackgroundStyleLight BackgroundStyle = "light"
	BackgroundStyleDark  BackgroundStyle = "dark"
	BackgroundStyleBrand BackgroundStyle = "brand"
)

var validBackgroundStyles = []BackgroundStyle{
	BackgroundStyleLight,
	BackgroundStyleDark,
	BackgroundStyleBrand,
}

// String implements fmt.Stringer.
func (v BackgroundStyle) String() string {
	return string(v)
}

// IsValid reports whether the value is a known BackgroundStyle.
func (v BackgroundStyle) IsValid() bool {
	return contains(validBackgroundStyles, v)
}

// OrDefault returns v when valid, else BackgroundStyleLight.
func (v BackgroundStyle) OrDefault() BackgroundStyle {
	if v.IsValid() {
		return v
	}
	return BackgroundStyleLight
}

// ParseBackgroundStyle converts raw input into a BackgroundStyle.
func ParseBackgroundStyle(value string) (BackgroundStyle, error) {
	if v := BackgroundStyle(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid background style %q", value)
}
