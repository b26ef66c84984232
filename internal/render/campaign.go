package render

import (
	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// CampaignCTA renders an announcement bar, a full-bleed call to action or a split panel.
func CampaignCTA(b *blocks.CampaignCTABlock) g.Node {
	if b == nil {
		return nil
	}
	variant := b.Variant.OrDefault()

	switch variant {
	case enums.CampaignVariantAnnouncement:
		return h.Div(
			classes("campaign", modifier("campaign", variant.String())),
			blockAttr(blocks.TypeCampaignCTA),
			g.Attr("role", "region"),
			g.Attr("aria-label", "Announcement"),
			h.P(
				h.Class("campaign__message"),
				h.Strong(h.Class("campaign__title"), g.Text(b.Title)),
				g.If(b.Description != "", h.Span(h.Class("campaign__description"), g.Text(" "+b.Description))),
			),
			ctaLink(b.PrimaryCTA, enums.CTAStyleOutline),
			g.If(b.Dismissible, h.Button(
				h.Type("button"),
				h.Class("campaign__dismiss"),
				data("dismiss", "campaign"),
				g.Attr("aria-label", "Dismiss announcement"),
				g.Text("×"),
			)),
		)

	case enums.CampaignVariantSplit:
		return h.Section(
			classes("campaign", modifier("campaign", variant.String())),
			blockAttr(blocks.TypeCampaignCTA),
			h.Div(
				h.Class("campaign__content"),
				h.H2(h.Class("campaign__title"), g.Text(b.Title)),
				g.If(b.Description != "", h.P(h.Class("campaign__description"), g.Text(b.Description))),
				ctaGroup("campaign__actions", b.PrimaryCTA, b.SecondaryCTA),
			),
			g.If(b.BackgroundImage.Present(),
				h.Figure(h.Class("campaign__media"), image(b.BackgroundImage, "campaign__image")),
			),
		)

	default:
		return h.Section(
			classes("campaign", modifier("campaign", variant.String())),
			blockAttr(blocks.TypeCampaignCTA),
			g.If(b.BackgroundImage.Present(),
				h.Div(h.Class("campaign__background"), image(b.BackgroundImage, "campaign__background-image")),
			),
			h.Div(
				h.Class("campaign__content"),
				h.H2(h.Class("campaign__title"), g.Text(b.Title)),
				g.If(b.Description != "", h.P(h.Class("campaign__description"), g.Text(b.Description))),
				ctaGroup("campaign__actions", b.PrimaryCTA, b.SecondaryCTA),
			),
		)
	}
}
