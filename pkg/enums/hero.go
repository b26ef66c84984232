package enums

import "fmt"

// HeroHeight controls the vertical size of a hero section.
type HeroHeight string

const (
	HeroHeightSmall  HeroHeight = "small"
	HeroHeightMedium HeroHeight = "medium"
	HeroHeightLarge  HeroHeight = "large"
	HeroHeightFull   HeroHeight = "full"
)

var validHeroHeights = []HeroHeight{
	HeroHeightSmall,
	HeroHeightMedium,
	HeroHeightLarge,
	HeroHeightFull,
}

// String implements fmt.Stringer.
func (v HeroHeight) String() string {
	return string(v)
}

// IsValid reports whether the value is a known HeroHeight.
func (v HeroHeight) IsValid() bool {
	return contains(validHeroHeights, v)
}

// OrDefault returns v when valid, else HeroHeightMedium.
func (v HeroHeight) OrDefault() HeroHeight {
	if v.IsValid() {
		return v
	}
	return HeroHeightMedium
}

// ParseHeroHeight converts raw input into a HeroHeight.
func ParseHeroHeight(value string) (HeroHeight, error) {
	if v := HeroHeight(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid hero height %q", value)
}

// TextAlignment positions hero copy.
type TextAlignment string

const (
	TextAlignmentLeft   TextAlignment = "left"
	TextAlignmentCenter TextAlignment = "center"
	TextAlignmentRight  TextAlignment = "right"
)

var validTextAlignments = []TextAlignment{
	TextAlignmentLeft,
	TextAlignmentCenter,
	TextAlignmentRight,
}

// String implements fmt.Stringer.
func (v TextAlignment) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TextAlignment.
func (v TextAlignment) IsValid() bool {
	return contains(validTextAlignments, v)
}

// OrDefault returns v when valid, else TextAlignmentCenter.
func (v TextAlignment) OrDefault() TextAlignment {
	if v.IsValid() {
		return v
	}
	return TextAlignmentCenter
}

// ParseTextAlignment converts raw input into a TextAlignment.
func ParseTextAlignment(value string) (TextAlignment, error) {
	if v := TextAlignment(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid text alignment %q", value)
}

// OverlayStyle tints the hero background image.
type OverlayStyle string

const (
	OverlayStyleNone     OverlayStyle = "none"
	OverlayStyleLight    OverlayStyle = "light"
	OverlayStyleDark     OverlayStyle = "dark"
	OverlayStyleGradient OverlayStyle = "gradient"
)

var validOverlayStyles = []OverlayStyle{
	OverlayStyleNone,
	OverlayStyleLight,
	OverlayStyleDark,
	OverlayStyleGradient,
}

// String implements fmt.Stringer.
func (v OverlayStyle) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OverlayStyle.
func (v OverlayStyle) IsValid() bool {
	return contains(validOverlayStyles, v)
}

// OrDefault returns v when valid, else OverlayStyleDark.
func (v OverlayStyle) OrDefault() OverlayStyle {
	if v.IsValid() {
		return v
	}
	return OverlayStyleDark
}

// ParseOverlayStyle converts raw input into a OverlayStyle.
func ParseOverlayStyle(value string) (OverlayStyle, error) {
	if v := OverlayStyle(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid overlay style %q", value)
}
