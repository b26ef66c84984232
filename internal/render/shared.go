package render

import (
	"strconv"
	"strings"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/richtext"
	"github.com/demolux/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const currencySymbol = "$"

// FormatPrice renders a decimal amount with two fraction digits.
func FormatPrice(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}

func classes(names ...string) g.Node {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			kept = append(kept, name)
		}
	}
	return h.Class(strings.Join(kept, " "))
}

func modifier(base, value string) string {
	if value == "" {
		return ""
	}
	return base + "--" + strings.ReplaceAll(value, "_", "-")
}

// when returns class if on, else an empty string.
func when(on bool, class string) string {
	if !on {
		return ""
	}
	return class
}

func data(name, value string) g.Node {
	return g.Attr("data-"+name, value)
}

func dataInt(name string, value int) g.Node {
	return data(name, strconv.Itoa(value))
}

func blockAttr(t blocks.Type) g.Node {
	return data("block", t.String())
}

func heading(class, title, description string) g.Node {
	if title == "" && description == "" {
		return nil
	}
	return h.Header(
		h.Class(class+"__header"),
		g.If(title != "", h.H2(h.Class(class+"__title"), g.Text(title))),
		g.If(description != "", h.P(h.Class(class+"__description"), g.Text(description))),
	)
}

func image(a *catalog.Asset, class string) g.Node {
	if !a.Present() {
		return nil
	}
	return h.Img(
		h.Class(class),
		h.Src(a.URL),
		h.Alt(a.Alt()),
		g.Attr("loading", "lazy"),
	)
}

func ctaLink(c *blocks.CTA, fallback enums.CTAStyle) g.Node {
	if !c.Present() {
		return nil
	}
	style := c.Style
	if !style.IsValid() {
		style = fallback
	}
	return h.A(
		classes("button", modifier("button", style.String())),
		h.Href(c.URL),
		g.Text(c.Text),
	)
}

func ctaGroup(class string, primary, secondary *blocks.CTA) g.Node {
	if !primary.Present() && !secondary.Present() {
		return nil
	}
	return h.Div(
		h.Class(class),
		ctaLink(primary, enums.CTAStylePrimary),
		ctaLink(secondary, enums.CTAStyleSecondary),
	)
}

func icon(class, name string) g.Node {
	if name == "" {
		return nil
	}
	return h.Span(h.Class(class), g.Attr("aria-hidden", "true"), data("icon", name), g.Text(name))
}

func rich(class, src string) g.Node {
	out := richtext.HTML(src)
	if out == "" {
		return nil
	}
	return h.Div(h.Class(class), g.Raw(out))
}
