package render

import (
	"strconv"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/ui"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Meta is the per-page head content.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	NoIndex     bool
	OGImage     *catalog.Asset
}

// Shell is the chrome wrapped around every storefront page.
type Shell struct {
	Lang      string
	Site      catalog.SiteSettings
	Header    []catalog.NavItem
	Footer    []catalog.NavItem
	Meta      Meta
	CartCount int
}

// Document renders a complete HTML page around body.
func Document(shell Shell, body ...g.Node) g.Node {
	lang := shell.Lang
	if lang == "" {
		lang = "en"
	}
	return h.Doctype(
		h.HTML(
			h.Lang(lang),
			head(shell),
			h.Body(
				announcement(shell.Site),
				siteHeader(shell),
				h.Main(h.ID("main"), h.Class("page"), g.Group(body)),
				siteFooter(shell),
			),
		),
	)
}

func pageTitle(shell Shell) string {
	site := shell.Site.SiteName
	switch {
	case shell.Meta.Title == "":
		return site
	case site == "" || shell.Meta.Title == site:
		return shell.Meta.Title
	default:
		return shell.Meta.Title + " | " + site
	}
}

func head(shell Shell) g.Node {
	meta := shell.Meta
	title := pageTitle(shell)
	return h.Head(
		h.Meta(h.Charset("utf-8")),
		h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
		h.TitleEl(g.Text(title)),
		g.If(meta.Description != "", h.Meta(h.Name("description"), h.Content(meta.Description))),
		g.If(meta.Canonical != "", h.Link(h.Rel("canonical"), h.Href(meta.Canonical))),
		g.If(meta.NoIndex, h.Meta(h.Name("robots"), h.Content("noindex, nofollow"))),
		h.Meta(g.Attr("property", "og:title"), h.Content(title)),
		g.If(meta.Description != "", h.Meta(g.Attr("property", "og:description"), h.Content(meta.Description))),
		g.Iff(meta.OGImage.Present(), func() g.Node {
			return h.Meta(g.Attr("property", "og:image"), h.Content(meta.OGImage.URL))
		}),
		h.Script(h.Src(ui.ScriptPath), h.Defer()),
	)
}

func announcement(site catalog.SiteSettings) g.Node {
	if site.AnnouncementText == "" {
		return nil
	}
	var message g.Node = g.Text(site.AnnouncementText)
	if site.AnnouncementURL != "" {
		message = h.A(h.Href(site.AnnouncementURL), message)
	}
	return h.Div(h.Class("site-announcement"), g.Attr("role", "region"), g.Attr("aria-label", "Announcement"), message)
}

func siteHeader(shell Shell) g.Node {
	var brand g.Node = g.Text(shell.Site.SiteName)
	if shell.Site.Logo.Present() {
		brand = image(shell.Site.Logo, "site-header__logo")
	}
	return h.Header(
		h.Class("site-header"),
		h.A(h.Class("site-header__brand"), h.Href("/"), brand),
		g.If(len(shell.Header) > 0, h.Nav(
			h.Class("site-header__nav"),
			g.Attr("aria-label", "Main"),
			navList("site-nav", shell.Header),
		)),
		h.Div(
			h.Class("site-header__tools"),
			h.A(h.Class("site-header__search"), h.Href("/products"), data("search-toggle", ""), g.Text("Search")),
			h.Button(
				h.Type("button"),
				h.Class("site-header__cart"),
				data("cart-toggle", ""),
				g.Text("Cart"),
				h.Span(h.Class("site-header__cart-count"), data("cart-count", strconv.Itoa(shell.CartCount)), g.Text(strconv.Itoa(shell.CartCount))),
			),
		),
	)
}

func navList(class string, items []catalog.NavItem) g.Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]g.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, h.Li(
			h.Class(class+"__item"),
			h.A(h.Class(class+"__link"), h.Href(item.URL), g.Text(item.Label)),
			navList(class+"-sub", item.Children),
		))
	}
	return h.Ul(h.Class(class), g.Group(nodes))
}

func siteFooter(shell Shell) g.Node {
	site := shell.Site
	social := make([]g.Node, 0, len(site.SocialLinks))
	for _, link := range site.SocialLinks {
		social = append(social, h.Li(h.A(h.Href(link.URL), h.Rel("noopener"), g.Text(link.Platform))))
	}
	return h.Footer(
		h.Class("site-footer"),
		g.If(len(shell.Footer) > 0, h.Nav(g.Attr("aria-label", "Footer"), navList("footer-nav", shell.Footer))),
		g.If(len(social) > 0, h.Ul(h.Class("site-footer__social"), g.Group(social))),
		g.If(site.ContactEmail != "", h.P(h.Class("site-footer__contact"), h.A(h.Href("mailto:"+site.ContactEmail), g.Text(site.ContactEmail)))),
		g.If(site.FooterText != "", h.P(h.Class("site-footer__text"), g.Text(site.FooterText))),
	)
}

// NotFound is the body of the 404 page.
func NotFound() g.Node {
	return h.Section(
		h.Class("not-found"),
		h.H1(g.Text("Page not found")),
		h.P(g.Text("The page you are looking for does not exist or has moved.")),
		h.A(h.Class("button button--primary"), h.Href("/"), g.Text("Back to home")),
	)
}

// NotConfigured is the empty state shown when no content could be loaded.
func NotConfigured() g.Node {
	return h.Section(
		h.Class("not-configured"),
		h.H1(g.Text("Storefront not configured")),
		h.P(g.Text("Connect a Contentstack stack to publish pages here.")),
	)
}
