package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDefaultFallsBackForUnknownValues(t *testing.T) {
	assert.Equal(t, HeroHeightMedium, HeroHeight("towering").OrDefault())
	assert.Equal(t, HeroHeightFull, HeroHeight("full").OrDefault())
	assert.Equal(t, TextAlignmentCenter, TextAlignment("").OrDefault())
	assert.Equal(t, OverlayStyleDark, OverlayStyle("sepia").OrDefault())
	assert.Equal(t, ContentSourceManual, ContentSource("").OrDefault())
	assert.Equal(t, GridLayoutGrid, GridLayout("stack").OrDefault())
	assert.Equal(t, GridLayoutMasonry, GridLayout("masonry").OrDefault())
	assert.Equal(t, GridContentTypeProducts, GridContentType("").OrDefault())
	assert.Equal(t, ValuesLayoutGrid, ValuesLayout("tiles").OrDefault())
	assert.Equal(t, CampaignVariantFullCTA, CampaignVariant("popup").OrDefault())
	assert.Equal(t, CTAStylePrimary, CTAStyle("ghost").OrDefault())
	assert.Equal(t, ProcessLayoutHorizontal, ProcessLayout("zigzag").OrDefault())
	assert.Equal(t, StatisticsLayoutGrid, StatisticsLayout("").OrDefault())
	assert.Equal(t, BackgroundStyleLight, BackgroundStyle("neon").OrDefault())
	assert.Equal(t, TestimonialsLayoutGrid, TestimonialsLayout("wall").OrDefault())
	assert.Equal(t, FAQLayoutAccordion, FAQLayout("").OrDefault())
	assert.Equal(t, FAQLayoutTwoColumn, FAQLayout("two_column").OrDefault())
}

func TestParseRejectsUnknownValues(t *testing.T) {
	v, err := ParseTestimonialsLayout("single_featured")
	require.NoError(t, err)
	assert.Equal(t, TestimonialsLayoutSingleFeatured, v)

	_, err = ParseCampaignVariant("modal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid campaign variant")
}

func TestStringer(t *testing.T) {
	assert.Equal(t, "blog_posts", GridContentTypeBlogPosts.String())
	assert.True(t, ProcessLayoutAlternating.IsValid())
	assert.False(t, ProcessLayout("Alternating").IsValid())
}
