package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hylla/tierlist/internal/domain"
)

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}

// columnInfoMarkdown describes what a column means and how to work with the people sorted into it.
func columnInfoMarkdown(column domain.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", column.Title)
	if column.Meaning != "" {
		fmt.Fprintf(&b, "**Meaning:** %s\n\n", column.Meaning)
	}
	if column.Strategy != "" {
		fmt.Fprintf(&b, "**Strategy:** %s\n\n", column.Strategy)
	}
	switch n := len(column.Items); n {
	case 0:
		b.WriteString("_No items yet._\n")
	case 1:
		b.WriteString("_1 item._\n")
	default:
		fmt.Fprintf(&b, "_%d items._\n", n)
	}
	return b.String()
}
