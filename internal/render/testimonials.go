package render

import (
	"fmt"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const starCount = 5

func Testimonials(b *blocks.TestimonialsBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()

	cards := make([]g.Node, 0, len(b.Testimonials))
	for _, t := range b.Testimonials {
		cards = append(cards, testimonialCard(t, b.ShowRatings, b.ShowImages, false))
	}

	var body g.Node
	switch layout {
	case enums.TestimonialsLayoutCarousel:
		body = carousel("testimonials", cards)
	case enums.TestimonialsLayoutSingleFeatured:
		if len(b.Testimonials) > 0 {
			body = h.Div(
				h.Class("testimonials__featured"),
				testimonialCard(b.Testimonials[0], b.ShowRatings, b.ShowImages, true),
			)
		}
	default:
		body = h.Div(h.Class("testimonials__grid"), g.Group(cards))
	}

	return h.Section(
		classes("testimonials", modifier("testimonials", layout.String())),
		blockAttr(blocks.TypeTestimonials),
		heading("testimonials", b.SectionTitle, b.SectionDescription),
		body,
	)
}

func testimonialCard(t blocks.Testimonial, showRating, showImage, featured bool) g.Node {
	return h.Figure(
		classes("testimonial", when(featured, "testimonial--featured")),
		g.If(showImage, image(t.CustomerImage, "testimonial__avatar")),
		g.If(showRating, stars(t.Stars())),
		g.El("blockquote", h.Class("testimonial__quote"), h.P(g.Text(t.TestimonialText))),
		g.El("figcaption",
			h.Class("testimonial__author"),
			h.Strong(h.Class("testimonial__name"), g.Text(t.CustomerName)),
			g.If(t.CustomerTitle != "", h.Span(h.Class("testimonial__title"), g.Text(t.CustomerTitle))),
		),
	)
}

func stars(rating int) g.Node {
	icons := make([]g.Node, 0, starCount)
	for i := 0; i < starCount; i++ {
		icons = append(icons, h.Span(
			classes("rating__star", when(i < rating, "rating__star--filled")),
			g.Attr("aria-hidden", "true"),
			g.Text("★"),
		))
	}
	return h.Div(
		h.Class("rating"),
		g.Attr("role", "img"),
		g.Attr("aria-label", fmt.Sprintf("%d out of %d stars", rating, starCount)),
		g.Group(icons),
	)
}
