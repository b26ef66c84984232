package render

import (
	"strconv"
	"strings"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/ui"
	"github.com/demolux/storefront/pkg/enums"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Statistics renders metrics. Every metric shows its literal value; animated
// ones also carry count-up parameters for the storefront script.
func Statistics(b *blocks.StatisticsBlock) g.Node {
	if b == nil {
		return nil
	}
	layout := b.LayoutStyle.OrDefault()
	background := b.BackgroundStyle.OrDefault()

	itemTag := h.Div
	if layout == enums.StatisticsLayoutCards {
		itemTag = h.Article
	}

	metrics := make([]g.Node, 0, len(b.Metrics))
	for _, m := range b.Metrics {
		metrics = append(metrics, itemTag(
			h.Class("stats__item"),
			icon("stats__icon", m.Icon),
			metricValue(m.Value, b.Animated),
			h.P(h.Class("stats__label"), g.Text(m.Label)),
			g.If(m.Description != "" && layout != enums.StatisticsLayoutInline,
				h.P(h.Class("stats__description"), g.Text(m.Description)),
			),
		))
	}

	return h.Section(
		classes("stats", modifier("stats", layout.String()), modifier("stats", "bg-"+background.String())),
		blockAttr(blocks.TypeStatistics),
		heading("stats", b.SectionTitle, b.SectionDescription),
		h.Div(h.Class("stats__items"), g.Group(metrics)),
	)
}

func metricValue(value string, animated bool) g.Node {
	counter := ui.NewCountUp(value, animated)
	if !counter.Animates() {
		return h.Span(h.Class("stats__value"), g.Text(value))
	}
	metric := counter.Metric()
	return h.Span(
		h.Class("stats__value"),
		data("count-up", ""),
		data("count-target", strconv.FormatInt(metric.Target, 10)),
		data("count-prefix", metric.Prefix),
		data("count-suffix", metric.Suffix),
		data("count-final", value),
		data("count-initial", counter.Initial()),
		data("count-duration", strconv.FormatInt(ui.CountDuration.Milliseconds(), 10)),
		g.If(strings.Contains(value, ","), data("count-grouped", "")),
		g.Attr("aria-label", value),
		g.Text(value),
	)
}
