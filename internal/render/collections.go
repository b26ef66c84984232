package render

import (
	"github.com/demolux/storefront/internal/catalog"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// CollectionListing renders every collection with its products inline.
func CollectionListing(collections []catalog.Collection) g.Node {
	sections := make([]g.Node, 0, len(collections))
	for _, c := range collections {
		sections = append(sections, h.Article(
			h.Class("collection"),
			h.ID(c.UID),
			image(c.FeaturedImage, "collection__image"),
			h.H2(h.Class("collection__title"), g.Text(c.Title)),
			rich("collection__description", c.Description),
			productGrid("collection", c.Products),
		))
	}
	return listing("collections", "Collections", "No collections yet.", sections)
}

// LookbookListing renders lookbooks as image galleries followed by the products they style.
func LookbookListing(lookbooks []catalog.Lookbook) g.Node {
	sections := make([]g.Node, 0, len(lookbooks))
	for _, l := range lookbooks {
		images := make([]g.Node, 0, len(l.Images))
		for i := range l.Images {
			images = append(images, image(&l.Images[i], "lookbook__image"))
		}
		sections = append(sections, h.Article(
			h.Class("lookbook"),
			h.ID(l.UID),
			g.If(l.Season != "", h.P(h.Class("lookbook__season"), g.Text(l.Season))),
			h.H2(h.Class("lookbook__title"), g.Text(l.Title)),
			rich("lookbook__description", l.Description),
			g.If(len(images) > 0, h.Div(h.Class("lookbook__gallery"), g.Group(images))),
			productGrid("lookbook", l.Products),
		))
	}
	return listing("lookbooks", "Lookbooks", "No lookbooks yet.", sections)
}

func listing(class, title, empty string, sections []g.Node) g.Node {
	return h.Section(
		h.Class(class),
		h.Header(h.Class(class+"__header"), h.H1(g.Text(title))),
		g.If(len(sections) == 0, h.P(h.Class(class+"__empty"), g.Text(empty))),
		g.Group(sections),
	)
}

func productGrid(class string, products []catalog.Product) g.Node {
	if len(products) == 0 {
		return nil
	}
	cards := make([]g.Node, 0, len(products))
	for _, p := range products {
		cards = append(cards, ProductCard(p))
	}
	return h.Div(h.Class(class+"__products"), g.Group(cards))
}
