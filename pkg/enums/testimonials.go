package enums

import "fmt"

// TestimonialsLayout selects the testimonial arrangement.
type TestimonialsLayout string

const (
	TestimonialsLayoutCarousel       TestimonialsLayout = "carousel"
	TestimonialsLayoutGrid           TestimonialsLayout = "grid"
	TestimonialsLayoutSingleFeatured TestimonialsLayout = "single_featured"
)

var validTestimonialsLayouts = []TestimonialsLayout{
	TestimonialsLayoutCarousel,
	TestimonialsLayoutGrid,
	TestimonialsLayoutSingleFeatured,
}

// String implements fmt.Stringer.
func (v TestimonialsLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TestimonialsLayout.
func (v TestimonialsLayout) IsValid() bool {
	return contains(validTestimonialsLayouts, v)
}

// OrDefault returns v when valid, else TestimonialsLayoutGrid.
func (v TestimonialsLayout) OrDefault() TestimonialsLayout {
	if v.IsValid() {
		return v
	}
	return TestimonialsLayoutGrid
}

// ParseTestimonialsLayout converts raw input into a TestimonialsLayout.
func ParseTestimonialsLayout(value string) (TestimonialsLayout, error) {
	if v := TestimonialsLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid testimonials layout %q", value)
}
