// Package blocks models the modular content sections a CMS page is built from.
//
// A page carries an ordered list of sections. Each section is one of a closed set
// of block types; anything else decodes to UnknownBlock so the renderer can apply
// an explicit policy instead of failing the page.
package blocks

import (
	"encoding/json"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/pkg/enums"
)

// Type is the CMS block_type discriminator.
type Type string

const (
	TypeHero                Type = "hero_section_block"
	TypeFeaturedContentGrid Type = "featured_content_grid_block"
	TypeValuesGrid          Type = "values_grid_block"
	TypeCampaignCTA         Type = "campaign_cta_block"
	TypeProcessSteps        Type = "process_steps_block"
	TypeStatistics          Type = "statistics_block"
	TypeTestimonials        Type = "testimonials_block"
	TypeFAQ                 Type = "faq_block"
)

var knownTypes = []Type{
	TypeHero,
	TypeFeaturedContentGrid,
	TypeValuesGrid,
	TypeCampaignCTA,
	TypeProcessSteps,
	TypeStatistics,
	TypeTestimonials,
	TypeFAQ,
}

func (t Type) String() string {
	return string(t)
}

// IsKnown reports whether t has a dedicated payload type.
func (t Type) IsKnown() bool {
	for _, candidate := range knownTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Section is implemented only by the block payload types in this package.
type Section interface {
	BlockType() Type
	section()
}

// CTA is a call to action link.
type CTA struct {
	Text  string         `json:"text"`
	URL   string         `json:"url"`
	Style enums.CTAStyle `json:"style,omitempty"`
}

// Present reports whether the CTA has both copy and a target.
func (c *CTA) Present() bool {
	return c != nil && c.Text != "" && c.URL != ""
}

type HeroBlock struct {
	Title           string              `json:"title"`
	Subtitle        string              `json:"subtitle,omitempty"`
	BadgeText       string              `json:"badge_text,omitempty"`
	Height          enums.HeroHeight    `json:"height,omitempty"`
	TextAlignment   enums.TextAlignment `json:"text_alignment,omitempty"`
	OverlayStyle    enums.OverlayStyle  `json:"overlay_style,omitempty"`
	BackgroundImage *catalog.Asset      `json:"background_image,omitempty"`
	HeroImage       *catalog.Asset      `json:"hero_image,omitempty"`
	PrimaryCTA      *CTA                `json:"primary_cta,omitempty"`
	SecondaryCTA    *CTA                `json:"secondary_cta,omitempty"`
}

type FeaturedContentGridBlock struct {
	SectionTitle       string                `json:"section_title,omitempty"`
	SectionDescription string                `json:"section_description,omitempty"`
	ContentSource      enums.ContentSource   `json:"content_source,omitempty"`
	LayoutStyle        enums.GridLayout      `json:"layout_style,omitempty"`
	ContentType        enums.GridContentType `json:"content_type,omitempty"`
	ManualProducts     []catalog.Product     `json:"manual_products,omitempty"`
	ManualBlogPosts    []catalog.BlogPost    `json:"manual_blog_posts,omitempty"`
	QueryLimit         int                   `json:"query_limit,omitempty"`
	QueryCategory      string                `json:"query_category,omitempty"`
	ViewAll            *CTA                  `json:"view_all_cta,omitempty"`

	// Filled by the content service for query-sourced grids.
	QueryProducts  []catalog.Product  `json:"-"`
	QueryBlogPosts []catalog.BlogPost `json:"-"`
}

// Products returns the products the grid should show for its content source.
func (b *FeaturedContentGridBlock) Products() []catalog.Product {
	if b.ContentSource.OrDefault() == enums.ContentSourceQuery {
		return b.QueryProducts
	}
	return b.ManualProducts
}

// BlogPosts returns the posts the grid should show for its content source.
func (b *FeaturedContentGridBlock) BlogPosts() []catalog.BlogPost {
	if b.ContentSource.OrDefault() == enums.ContentSourceQuery {
		return b.QueryBlogPosts
	}
	return b.ManualBlogPosts
}

type ValueItem struct {
	Icon            string         `json:"icon,omitempty"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	BackgroundImage *catalog.Asset `json:"background_image,omitempty"`
}

type ValuesGridBlock struct {
	SectionTitle       string             `json:"section_title,omitempty"`
	SectionDescription string             `json:"section_description,omitempty"`
	LayoutStyle        enums.ValuesLayout `json:"layout_style,omitempty"`
	Values             []ValueItem        `json:"values,omitempty"`
}

type CampaignCTABlock struct {
	Variant         enums.CampaignVariant `json:"variant,omitempty"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	PrimaryCTA      *CTA                  `json:"primary_cta,omitempty"`
	SecondaryCTA    *CTA                  `json:"secondary_cta,omitempty"`
	BackgroundImage *catalog.Asset        `json:"background_image,omitempty"`
	Dismissible     bool                  `json:"dismissible,omitempty"`
}

type ProcessStep struct {
	Icon        string         `json:"icon,omitempty"`
	Image       *catalog.Asset `json:"image,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CTA         *CTA           `json:"cta,omitempty"`
	StepNumber  *int           `json:"step_number,omitempty"`
}

// Number is the explicit step number when set, otherwise the 1-based position.
func (s ProcessStep) Number(index int) int {
	if s.StepNumber != nil {
		return *s.StepNumber
	}
	return index + 1
}

type ProcessStepsBlock struct {
	SectionTitle       string              `json:"section_title,omitempty"`
	SectionDescription string              `json:"section_description,omitempty"`
	LayoutStyle        enums.ProcessLayout `json:"layout_style,omitempty"`
	Steps              []ProcessStep       `json:"steps,omitempty"`
	ShowStepNumbers    bool                `json:"show_step_numbers,omitempty"`
	ShowConnectors     bool                `json:"show_connectors,omitempty"`
}

type Metric struct {
	Icon        string `json:"icon,omitempty"`
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type StatisticsBlock struct {
	SectionTitle       string                 `json:"section_title,omitempty"`
	SectionDescription string                 `json:"section_description,omitempty"`
	LayoutStyle        enums.StatisticsLayout `json:"layout_style,omitempty"`
	BackgroundStyle    enums.BackgroundStyle  `json:"background_style,omitempty"`
	Animated           bool                   `json:"animated,omitempty"`
	Metrics            []Metric               `json:"metrics,omitempty"`
}

const maxRating = 5

type Testimonial struct {
	CustomerName    string         `json:"customer_name"`
	CustomerTitle   string         `json:"customer_title,omitempty"`
	CustomerImage   *catalog.Asset `json:"customer_image,omitempty"`
	Rating          int            `json:"rating,omitempty"`
	TestimonialText string         `json:"testimonial_text"`
}

// Stars returns the rating clamped to 0..5.
func (t Testimonial) Stars() int {
	switch {
	case t.Rating < 0:
		return 0
	case t.Rating > maxRating:
		return maxRating
	default:
		return t.Rating
	}
}

type TestimonialsBlock struct {
	SectionTitle       string                   `json:"section_title,omitempty"`
	SectionDescription string                   `json:"section_description,omitempty"`
	LayoutStyle        enums.TestimonialsLayout `json:"layout_style,omitempty"`
	ShowRatings        bool                     `json:"show_ratings,omitempty"`
	ShowImages         bool                     `json:"show_images,omitempty"`
	Testimonials       []Testimonial            `json:"testimonials,omitempty"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

type FAQBlock struct {
	SectionTitle       string          `json:"section_title,omitempty"`
	SectionDescription string          `json:"section_description,omitempty"`
	LayoutStyle        enums.FAQLayout `json:"layout_style,omitempty"`
	ShowCategories     bool            `json:"show_categories,omitempty"`
	ExpandFirst        bool            `json:"expand_first,omitempty"`
	FAQs               []FAQItem       `json:"faqs,omitempty"`
}

// UnknownBlock keeps a section whose type is not recognized, or whose payload failed to decode.
type UnknownBlock struct {
	RawType string
	Raw     json.RawMessage
}

func (*HeroBlock) BlockType() Type                { return TypeHero }
func (*FeaturedContentGridBlock) BlockType() Type { return TypeFeaturedContentGrid }
func (*ValuesGridBlock) BlockType() Type          { return TypeValuesGrid }
func (*CampaignCTABlock) BlockType() Type         { return TypeCampaignCTA }
func (*ProcessStepsBlock) BlockType() Type        { return TypeProcessSteps }
func (*StatisticsBlock) BlockType() Type          { return TypeStatistics }
func (*TestimonialsBlock) BlockType() Type        { return TypeTestimonials }
func (*FAQBlock) BlockType() Type                 { return TypeFAQ }
func (b *UnknownBlock) BlockType() Type           { return Type(b.RawType) }

func (*HeroBlock) section()                {}
func (*FeaturedContentGridBlock) section() {}
func (*ValuesGridBlock) section()          {}
func (*CampaignCTABlock) section()         {}
func (*ProcessStepsBlock) section()        {}
func (*StatisticsBlock) section()          {}
func (*TestimonialsBlock) section()        {}
func (*FAQBlock) section()                 {}
func (*UnknownBlock) section()             {}
