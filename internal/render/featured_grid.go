package render

import (
	"strconv"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/ui"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// NoImageText is shown in place of a missing product image.
const NoImageText = "No Image"

// FeaturedGrid renders a products or blog posts grid in one of four layouts.
func FeaturedGrid(b *blocks.FeaturedContentGridBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()
	contentType := b.ContentType.OrDefault()

	var items []g.Node
	if contentType == enums.GridContentTypeBlogPosts {
		for _, post := range b.BlogPosts() {
			items = append(items, BlogCard(post))
		}
	} else {
		for _, product := range b.Products() {
			items = append(items, ProductCard(product))
		}
	}

	return h.Section(
		classes("featured", modifier("featured", layout.String()), modifier("featured", contentType.String())),
		blockAttr(blocks.TypeFeaturedContentGrid),
		heading("featured", b.SectionTitle, b.SectionDescription),
		featuredBody(layout, items),
		g.If(b.ViewAll.Present(), h.Div(h.Class("featured__footer"), ctaLink(b.ViewAll, enums.CTAStyleOutline))),
	)
}

func featuredBody(layout enums.GridLayout, items []g.Node) g.Node {
	switch layout {
	case enums.GridLayoutCarousel:
		return carousel("featured", items)
	case enums.GridLayoutMasonry:
		return h.Div(h.Class("featured__masonry"), g.Group(items))
	case enums.GridLayoutList:
		rows := make([]g.Node, 0, len(items))
		for _, item := range items {
			rows = append(rows, h.Li(h.Class("featured__row"), item))
		}
		return h.Ul(h.Class("featured__list"), g.Group(rows))
	default:
		return h.Div(h.Class("featured__grid"), g.Group(items))
	}
}

// carousel renders slides with prev/next controls and indicator dots, first slide active.
func carousel(class string, slides []g.Node) g.Node {
	state := ui.NewCarousel(len(slides))
	track := make([]g.Node, 0, len(slides))
	dots := make([]g.Node, 0, len(slides))
	for i, slide := range slides {
		active := i == state.Current
		track = append(track, h.Div(
			classes(class+"__slide", when(active, class+"__slide--active")),
			dataInt("slide", i),
			g.If(!active, g.Attr("aria-hidden", "true")),
			slide,
		))
		dots = append(dots, h.Button(
			h.Type("button"),
			classes(class+"__dot", when(active, class+"__dot--active")),
			dataInt("carousel-goto", i),
			g.If(active, g.Attr("aria-current", "true")),
			g.Attr("aria-label", "Go to slide "+strconv.Itoa(i+1)),
		))
	}

	return h.Div(
		h.Class(class+"__carousel"),
		data("carousel", ""),
		dataInt("current", state.Current),
		dataInt("count", state.Len()),
		h.Div(h.Class(class+"__track"), g.Group(track)),
		g.If(state.Len() > 1, g.Group([]g.Node{
			h.Button(h.Type("button"), h.Class(class+"__prev"), data("carousel-prev", ""), g.Attr("aria-label", "Previous"), g.Text("‹")),
			h.Button(h.Type("button"), h.Class(class+"__next"), data("carousel-next", ""), g.Attr("aria-label", "Next"), g.Text("›")),
			h.Div(h.Class(class+"__dots"), g.Group(dots)),
		})),
	)
}

// ProductCard renders a product tile; products without an image get the "No Image" placeholder.
func ProductCard(p catalog.Product) g.Node {
	return h.Article(
		h.Class("product-card"),
		data("product-uid", p.UID),
		h.A(
			h.Class("product-card__link"),
			h.Href(p.Href()),
			productImage(p.FeaturedImage, "product-card"),
			h.H3(h.Class("product-card__title"), g.Text(p.Title)),
			g.If(p.Category != "", h.P(h.Class("product-card__category"), g.Text(p.Category))),
			h.P(h.Class("product-card__price"), g.Text(FormatPrice(p.Price))),
		),
	)
}

func productImage(a *catalog.Asset, class string) g.Node {
	if !a.Present() {
		return h.Div(h.Class(class+"__placeholder"), g.Text(NoImageText))
	}
	return h.Figure(h.Class(class+"__media"), image(a, class+"__image"))
}

func BlogCard(p catalog.BlogPost) g.Node {
	return h.Article(
		h.Class("blog-card"),
		data("post-uid", p.UID),
		h.A(
			h.Class("blog-card__link"),
			h.Href(p.URL),
			g.If(p.FeaturedImage.Present(), h.Figure(h.Class("blog-card__media"), image(p.FeaturedImage, "blog-card__image"))),
			h.H3(h.Class("blog-card__title"), g.Text(p.Title)),
			g.If(p.Author != "" || p.PublishDate != "", h.P(
				h.Class("blog-card__meta"),
				g.If(p.Author != "", h.Span(h.Class("blog-card__author"), g.Text(p.Author))),
				g.If(p.PublishDate != "", g.El("time", g.Attr("datetime", p.PublishDate), g.Text(p.PublishDate))),
			)),
			g.If(p.Excerpt != "", h.P(h.Class("blog-card__excerpt"), g.Text(p.Excerpt))),
		),
	)
}
