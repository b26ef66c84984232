package render

import (
	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func ValuesGrid(b *blocks.ValuesGridBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()

	var body g.Node
	switch layout {
	case enums.ValuesLayoutMinimal:
		items := make([]g.Node, 0, len(b.Values))
		for _, v := range b.Values {
			items = append(items, h.Li(
				h.Class("values__item"),
				icon("values__icon", v.Icon),
				h.Span(h.Class("values__item-title"), g.Text(v.Title)),
			))
		}
		body = h.Ul(h.Class("values__list"), g.Group(items))
	case enums.ValuesLayoutCards:
		items := make([]g.Node, 0, len(b.Values))
		for _, v := range b.Values {
			items = append(items, h.Article(
				classes("values__card", when(v.BackgroundImage.Present(), "values__card--with-image")),
				g.If(v.BackgroundImage.Present(), image(v.BackgroundImage, "values__card-image")),
				icon("values__icon", v.Icon),
				h.H3(h.Class("values__item-title"), g.Text(v.Title)),
				g.If(v.Description != "", h.P(h.Class("values__item-description"), g.Text(v.Description))),
			))
		}
		body = h.Div(h.Class("values__cards"), g.Group(items))
	default:
		items := make([]g.Node, 0, len(b.Values))
		for _, v := range b.Values {
			items = append(items, h.Div(
				h.Class("values__item"),
				icon("values__icon", v.Icon),
				h.H3(h.Class("values__item-title"), g.Text(v.Title)),
				g.If(v.Description != "", h.P(h.Class("values__item-description"), g.Text(v.Description))),
			))
		}
		body = h.Div(h.Class("values__grid"), g.Group(items))
	}

	return h.Section(
		classes("values", modifier("values", layout.String())),
		blockAttr(blocks.TypeValuesGrid),
		heading("values", b.SectionTitle, b.SectionDescription),
		body,
	)
}

