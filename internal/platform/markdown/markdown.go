// Package markdown renders item descriptions to HTML for the public
// storefront.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML. Raw HTML in the source is omitted,
// so output is safe to embed in a page. A Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GitHub-flavored Markdown and hard
// line breaks, matching how descriptions are typed into the shop.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render converts source to HTML. Empty input renders as an empty string.
func (r *Renderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
