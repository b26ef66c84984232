package enums

import "fmt"

// FAQLayout selects the FAQ arrangement.
type FAQLayout string

const (
	FAQLayoutAccordion FAQLayout = "accordion"
	FAQLayoutTwoColumn FAQLayout = "two_column"
	FAQLayoutCards     FAQLayout = "cards"
)

var validFAQLayouts = []FAQLayout{
	FAQLayoutAccordion,
	FAQLayoutTwoColumn,
	FAQLayoutCards,
}

// String implements fmt.Stringer.
func (v FAQLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known FAQLayout.
func (v FAQLayout) IsValid() bool {
	return contains(validFAQLayouts, v)
}

// OrDefault returns v when valid, else FAQLayoutAccordion.
func (v FAQLayout) OrDefault() FAQLayout {
	if v.IsValid() {
		return v
	}
	return FAQLayoutAccordion
}

// ParseFAQLayout converts raw input into a FAQLayout.
func ParseFAQLayout(value string) (FAQLayout, error) {
	if v := FAQLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid faq layout %q", value)
}
