package render

import (
	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Hero renders a hero section. Height, alignment and overlay fall back to medium,
// center and dark.
func Hero(b *blocks.HeroBlock) g.Node {
	if b == nil {
		return nil
	}
	height := b.Height.OrDefault()
	align := b.TextAlignment.OrDefault()
	overlay := b.OverlayStyle.OrDefault()

	return h.Section(
		classes(
			"hero",
			modifier("hero", height.String()),
			modifier("hero", "align-"+align.String()),
			modifier("hero", "overlay-"+overlay.String()),
		),
		blockAttr(blocks.TypeHero),
		g.If(b.BackgroundImage.Present(),
			h.Div(h.Class("hero__background"), image(b.BackgroundImage, "hero__background-image")),
		),
		g.If(overlay != enums.OverlayStyleNone,
			h.Div(h.Class("hero__overlay"), g.Attr("aria-hidden", "true")),
		),
		h.Div(
			h.Class("hero__content"),
			g.If(b.BadgeText != "", h.Span(h.Class("hero__badge"), g.Text(b.BadgeText))),
			h.H1(h.Class("hero__title"), g.Text(b.Title)),
			g.If(b.Subtitle != "", h.P(h.Class("hero__subtitle"), g.Text(b.Subtitle))),
			ctaGroup("hero__actions", b.PrimaryCTA, b.SecondaryCTA),
		),
		g.If(b.HeroImage.Present(),
			h.Figure(h.Class("hero__media"), image(b.HeroImage, "hero__image")),
		),
	)
}
