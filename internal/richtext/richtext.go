// Package richtext turns CMS rich text and markdown fields into safe HTML.
package richtext

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown or HTML fragments. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldhtml.WithHardWraps()),
		),
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

var defaultRenderer = New()

// HTML renders src with the shared renderer.
func HTML(src string) string {
	return defaultRenderer.HTML(src)
}

// Plain renders src with the shared renderer.
func Plain(src string) string {
	return defaultRenderer.Plain(src)
}

// HTML returns sanitized markup. Rich text editor output (already HTML) is only
// sanitized; anything else is treated as markdown first.
func (r *Renderer) HTML(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if looksLikeHTML(src) {
		return r.policy.Sanitize(src)
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return r.policy.Sanitize(html.EscapeString(src))
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String()))
}

// Plain strips all markup, for meta descriptions and attributes.
func (r *Renderer) Plain(src string) string {
	text := r.strict.Sanitize(r.HTML(src))
	return strings.Join(strings.Fields(html.UnescapeString(text)), " ")
}

func looksLikeHTML(src string) bool {
	if !strings.HasPrefix(src, "<") {
		return false
	}
	end := strings.IndexByte(src, '>')
	return end > 1
}
