package render

import (
	"strconv"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ProcessSteps lays steps out horizontally, vertically or alternating sides.
func ProcessSteps(b *blocks.ProcessStepsBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()

	steps := make([]g.Node, 0, len(b.Steps))
	for i, step := range b.Steps {
		reversed := layout == enums.ProcessLayoutAlternating && i%2 == 1
		last := i == len(b.Steps)-1
		steps = append(steps, h.Li(
			classes("process__step", when(reversed, "process__step--reverse")),
			dataInt("step", step.Number(i)),
			g.If(b.ShowStepNumbers, h.Span(h.Class("process__number"), g.Text(strconv.Itoa(step.Number(i))))),
			stepMedia(step),
			h.Div(
				h.Class("process__body"),
				h.H3(h.Class("process__step-title"), g.Text(step.Title)),
				g.If(step.Description != "", h.P(h.Class("process__step-description"), g.Text(step.Description))),
				ctaLink(step.CTA, enums.CTAStyleOutline),
			),
			g.If(b.ShowConnectors && !last, h.Span(h.Class("process__connector"), g.Attr("aria-hidden", "true"))),
		))
	}

	return h.Section(
		classes("process", modifier("process", layout.String())),
		blockAttr(blocks.TypeProcessSteps),
		heading("process", b.SectionTitle, b.SectionDescription),
		h.Ol(h.Class("process__steps"), g.Group(steps)),
	)
}

func stepMedia(step blocks.ProcessStep) g.Node {
	if step.Image.Present() {
		return h.Figure(h.Class("process__media"), image(step.Image, "process__image"))
	}
	return icon("process__icon", step.Icon)
}

