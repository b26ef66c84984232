package enums

import "fmt"

// ContentSource decides whether a grid lists hand-picked references or a CMS query.
type ContentSource string

const (
	ContentSourceManual ContentSource = "manual"
	ContentSourceQuery  ContentSource = "query"
)

var validContentSources = []ContentSource{
	ContentSourceManual,
	ContentSourceQuery,
}

// String implements fmt.Stringer.
func (v ContentSource) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ContentSource.
func (v ContentSource) IsValid() bool {
	return contains(validContentSources, v)
}

// OrDefault returns v when valid, else ContentSourceManual.
func (v ContentSource) OrDefault() ContentSource {
	if v.IsValid() {
		return v
	}
	return ContentSourceManual
}

// ParseContentSource converts raw input into a ContentSource.
func ParseContentSource(value string) (ContentSource, error) {
	if v := ContentSource(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid content source %q", value)
}

// GridLayout selects the featured content arrangement.
type GridLayout string

const (
	GridLayoutGrid     GridLayout = "grid"
	GridLayoutCarousel GridLayout = "carousel"
	GridLayoutMasonry  GridLayout = "masonry"
	GridLayoutList     GridLayout = "list"
)

var validGridLayouts = []GridLayout{
	GridLayoutGrid,
	GridLayoutCarousel,
	GridLayoutMasonry,
	GridLayoutList,
}

// String implements fmt.Stringer.
func (v GridLayout) String() string {
	return string(v)
}

// IsValid reports whether the value is a known GridLayout.
func (v GridLayout) IsValid() bool {
	return contains(validGridLayouts, v)
}

// OrDefault returns v when valid, else GridLayoutGrid.
func (v GridLayout) OrDefault() GridLayout {
	if v.IsValid() {
		return v
	}
	return GridLayoutGrid
}

// ParseGridLayout converts raw input into a GridLayout.
func ParseGridLayout(value string) (GridLayout, error) {
	if v := GridLayout(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid grid layout %q", value)
}

// GridContentType names the entry type a featured grid lists.
type GridContentType string

const (
	GridContentTypeProducts  GridContentType = "products"
	GridContentTypeBlogPosts GridContentType = "blog_posts"
)

var validGridContentTypes = []GridContentType{
	GridContentTypeProducts,
	GridContentTypeBlogPosts,
}

// String implements fmt.Stringer.
func (v GridContentType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known GridContentType.
func (v GridContentType) IsValid() bool {
	return contains(validGridContentTypes, v)
}

// OrDefault returns v when valid, else GridContentTypeProducts.
func (v GridContentType) OrDefault() GridContentType {
	if v.IsValid() {
		return v
	}
	return GridContentTypeProducts
}

// ParseGridContentType converts raw input into a GridContentType.
func ParseGridContentType(value string) (GridContentType, error) {
	if v := GridContentType(value); v.IsValid() {
		return v, nil
	}
	return "", fmt.Errorf("invalid grid content type %q", value)
}
