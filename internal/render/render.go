// Package render turns page sections into HTML nodes.
//
// Each block type has one renderer that picks among its closed layout variants.
// Renderers are pure: no I/O, and missing optional fields simply render nothing.
package render

import (
	"context"
	"strings"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/demolux/storefront/pkg/metrics"
	g "maragu.dev/gomponents"
)

// UnknownPolicy decides what an unrecognized section turns into.
type UnknownPolicy int

const (
	// SkipUnknown drops the section from the output.
	SkipUnknown UnknownPolicy = iota
	// CommentUnknown leaves an HTML comment naming the block type.
	CommentUnknown
)

func (p UnknownPolicy) String() string {
	if p == CommentUnknown {
		return "comment"
	}
	return "skip"
}

// Renderer dispatches sections to their block renderers.
type Renderer struct {
	unknown UnknownPolicy
	metrics *metrics.BlockMetrics
	logg    *logger.Logger
}

type Option func(*Renderer)

func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(r *Renderer) { r.unknown = p }
}

func WithMetrics(m *metrics.BlockMetrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Renderer) { r.logg = l }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{unknown: SkipUnknown}
	for _, opt := range opts {
		opt(r)
	}
	if r.logg == nil {
		r.logg = logger.Nop()
	}
	return r
}

// Sections renders the sections in input order. Unknown sections follow the
// renderer's UnknownPolicy and are counted and logged.
func (r *Renderer) Sections(ctx context.Context, sections []blocks.Section) []g.Node {
	nodes := make([]g.Node, 0, len(sections))
	for i, section := range sections {
		if node := r.section(ctx, i, section); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (r *Renderer) section(ctx context.Context, index int, section blocks.Section) g.Node {
	var node g.Node
	switch b := section.(type) {
	case nil:
		return nil
	case *blocks.HeroBlock:
		node = Hero(b)
	case *blocks.FeaturedContentGridBlock:
		node = FeaturedGrid(b)
	case *blocks.ValuesGridBlock:
		node = ValuesGrid(b)
	case *blocks.CampaignCTABlock:
		node = CampaignCTA(b)
	case *blocks.ProcessStepsBlock:
		node = ProcessSteps(b)
	case *blocks.StatisticsBlock:
		node = Statistics(b)
	case *blocks.TestimonialsBlock:
		node = Testimonials(b)
	case *blocks.FAQBlock:
		node = FAQ(b)
	case *blocks.UnknownBlock:
		return r.unknownBlock(ctx, index, b)
	}
	if node == nil {
		return nil
	}
	r.metrics.IncRendered(section.BlockType().String())
	return node
}

func (r *Renderer) unknownBlock(ctx context.Context, index int, b *blocks.UnknownBlock) g.Node {
	blockType := b.RawType
	if blockType == "" {
		blockType = "unknown"
	}
	r.metrics.IncSkipped(blockType)
	r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
		"block_type":    blockType,
		"section_index": index,
		"policy":        r.unknown.String(),
	}), "render.unknown_block")

	if r.unknown != CommentUnknown {
		return nil
	}
	return g.Raw("<!-- unknown block: " + commentSafe(blockType) + " -->")
}

func commentSafe(s string) string {
	s = strings.ReplaceAll(s, "--", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.ReplaceAll(s, "<", "")
}
