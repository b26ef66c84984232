package render

import (
	"hash/fnv"
	"strconv"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/ui"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// FAQ renders entries as an accordion, two accordion columns or always-open cards.
func FAQ(b *blocks.FAQBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()

	var body g.Node
	switch layout {
	case enums.FAQLayoutTwoColumn:
		split := (len(b.FAQs) + 1) / 2
		body = h.Div(
			h.Class("faq__columns"),
			accordion(groupName(b.FAQs, "a"), b.FAQs[:split], ui.NewAccordion(split, b.ExpandFirst), b.ShowCategories),
			accordion(groupName(b.FAQs, "b"), b.FAQs[split:], ui.NewAccordion(len(b.FAQs)-split, false), b.ShowCategories),
		)
	case enums.FAQLayoutCards:
		cards := make([]g.Node, 0, len(b.FAQs))
		for _, item := range b.FAQs {
			cards = append(cards, h.Article(
				h.Class("faq__card"),
				category(item.Category, b.ShowCategories),
				h.H3(h.Class("faq__question"), g.Text(item.Question)),
				rich("faq__answer", item.Answer),
			))
		}
		body = h.Div(h.Class("faq__cards"), g.Group(cards))
	default:
		body = accordion(groupName(b.FAQs, ""), b.FAQs, ui.NewAccordion(len(b.FAQs), b.ExpandFirst), b.ShowCategories)
	}

	return h.Section(
		classes("faq", modifier("faq", layout.String())),
		blockAttr(blocks.TypeFAQ),
		heading("faq", b.SectionTitle, b.SectionDescription),
		body,
	)
}

// groupName names an accordion group so browsers keep at most one of its
// <details> open. It is stable for the same questions.
func groupName(items []blocks.FAQItem, column string) string {
	sum := fnv.New32a()
	for _, item := range items {
		_, _ = sum.Write([]byte(item.Question))
		_, _ = sum.Write([]byte{0})
	}
	name := "faq-" + strconv.FormatUint(uint64(sum.Sum32()), 36)
	if column != "" {
		name += "-" + column
	}
	return name
}

func accordion(name string, items []blocks.FAQItem, state *ui.Accordion, showCategories bool) g.Node {
	entries := make([]g.Node, 0, len(items))
	for i, item := range items {
		entries = append(entries, g.El("details",
			h.Class("faq__item"),
			dataInt("index", i),
			h.Name(name),
			g.If(state.IsOpen(i), g.Attr("open")),
			g.El("summary",
				h.Class("faq__question"),
				category(item.Category, showCategories),
				g.Text(item.Question),
			),
			rich("faq__answer", item.Answer),
		))
	}
	return h.Div(
		h.Class("faq__accordion"),
		data("accordion", "single"),
		data("open-index", strconv.Itoa(state.OpenIndex)),
		g.Group(entries),
	)
}

func category(name string, show bool) g.Node {
	if !show || name == "" {
		return nil
	}
	return h.Span(h.Class("faq__category"), g.Text(name))
}
