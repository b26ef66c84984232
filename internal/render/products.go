package render

import (
	"github.com/demolux/storefront/internal/catalog"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ProductListing renders the catalog page, optionally scoped to a category.
func ProductListing(products []catalog.Product, category string) g.Node {
	title := "All products"
	if category != "" {
		title = category
	}
	cards := make([]g.Node, 0, len(products))
	for _, p := range products {
		cards = append(cards, ProductCard(p))
	}
	return h.Section(
		h.Class("product-listing"),
		h.Header(
			h.Class("product-listing__header"),
			h.H1(g.Text(title)),
			h.P(h.Class("product-listing__count"), g.Textf("%d products", len(products))),
		),
		g.If(len(cards) == 0, h.P(h.Class("product-listing__empty"), g.Text("No products found."))),
		g.If(len(cards) > 0, h.Div(h.Class("product-listing__grid"), g.Group(cards))),
	)
}

// ProductDetail renders a product page with its gallery and add-to-cart control.
func ProductDetail(p catalog.Product) g.Node {
	gallery := []g.Node{productImage(p.FeaturedImage, "product-detail")}
	for i := range p.AdditionalImages {
		gallery = append(gallery, image(&p.AdditionalImages[i], "product-detail__thumb"))
	}

	return h.Article(
		h.Class("product-detail"),
		data("product-uid", p.UID),
		g.Iff(p.Variant != nil, func() g.Node { return data("variant-uid", p.Variant.UID) }),
		h.Div(h.Class("product-detail__gallery"), g.Group(gallery)),
		h.Div(
			h.Class("product-detail__info"),
			g.If(p.Category != "", h.P(h.Class("product-detail__category"), g.Text(p.Category))),
			h.H1(h.Class("product-detail__title"), g.Text(p.Title)),
			h.P(h.Class("product-detail__price"), g.Text(FormatPrice(p.Price))),
			rich("product-detail__description", p.Description),
			h.Button(
				h.Type("button"),
				h.Class("button button--primary product-detail__add"),
				data("add-to-cart", p.UID),
				g.Text("Add to cart"),
			),
		),
	)
}
