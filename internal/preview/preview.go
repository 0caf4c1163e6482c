// =============================================================================
// Order Document Generator - Terminal Preview
// =============================================================================
//
// This module renders a generated HTML document as text so a conversion can
// be checked from the terminal without opening a browser. The document is
// converted to markdown (tables kept) and the markdown is then rendered for
// the terminal.
//
// =============================================================================

package preview

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word wrap used when none is given.
const DefaultWidth = 100

// Style names accepted by Render.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Previewer converts documents to markdown and renders them.
type Previewer struct {
	md    *converter.Converter
	style string
	width int
}

// New creates a Previewer. An empty style selects StyleAuto and a
// non-positive width selects DefaultWidth.
func New(style string, width int) *Previewer {
	if style == "" {
		style = StyleAuto
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Previewer{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		style: style,
		width: width,
	}
}

// Markdown converts an HTML document or fragment to markdown. Script and
// style content is dropped by the converter.
func (p *Previewer) Markdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := p.md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert document to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Render converts html and renders it for the terminal.
func (p *Previewer) Render(html string) (string, error) {
	md, err := p.Markdown(html)
	if err != nil {
		return "", err
	}
	if md == "" {
		return "", nil
	}

	styleOption := glamour.WithStandardStyle(p.style)
	if p.style == StyleAuto {
		styleOption = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(p.width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}
