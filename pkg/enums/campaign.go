package enums

import "fmt"

// CampaignVariant selects between banner and full-bleed campaign sections.
type CampaignVariant string

const (
	CampaignVariantAnnouncement CampaignVariant = "announcement"
	CampaignVariantFullCTA      CampaignVariant = "full_cta"
	CampaignVariantSplit        CampaignVariant = "split"
)

var validCampaignVariants = []CampaignVariant{
	CampaignVariantAnnouncement,
	CampaignVariantFullCTA,
	CampaignVariantSplit,
}

// String implements fmt.Stringer.
func (v CampaignVariant) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CampaignVariant.
func (v CampaignVariant) IsValid() bool {
	return contains(validCampaignVariants, v)
}

// OrDefault returns v when valid, else CampaignVariantFullCTA.
func (v CampaignVariant) OrDefault() CampaignVariant {
	if v.IsValid() {
		return v
	}
	return CampaignVariantFullCTA
}

// ParseCampaignVariant converts raw input into a CampaignVariant.
func ParseCampaignVariant(value string) (CampaignVariant, error) {
	if v := CampaignVariant(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid campaign variant %q", value)
}

// CTAStyle is the visual weight of a call to action.
type CTAStyle string

const (
	CTAStylePrimary   CTAStyle = "primary"
	CTAStyleSecondary CTAStyle = "secondary"
	CTAStyleOutline   CTAStyle = "outline"
)

var validCTAStyles = []CTAStyle{
	CTAStylePrimary,
	CTAStyleSecondary,
	CTAStyleOutline,
}

// String implements fmt.Stringer.
func (v CTAStyle) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CTAStyle.
func (v CTAStyle) IsValid() bool {
	return contains(validCTAStyles, v)
}

// OrDefault returns v when valid, else CTAStylePrimary.
func (v CTAStyle) OrDefault() CTAStyle {
	if v.IsValid() {
		return v
	}
	return CTAStylePrimary
}

// ParseCTAStyle converts raw input into a CTAStyle.
func ParseCTAStyle(value string) (CTAStyle, error) {
	if v := CTAStyle(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid cta style %q", value)
}
