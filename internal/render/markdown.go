package render

import (
	"fmt"
	"strings"

	"esilcfg/internal/cfg"
	"esilcfg/internal/esilcfg/styles"
)

// Markdown renders c as a markdown report with one esil code block per node
func Markdown(c *cfg.CFG, opts Options) string {
	var sb strings.Builder
	title := opts.Title
	if title == "" {
		title = "ESIL control flow graph"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**%d** blocks, **%d** edges", c.Len(), c.EdgeCount())
	if len(c.Unresolved) > 0 {
		fmt.Fprintf(&sb, ", **%d** unresolved gotos", len(c.Unresolved))
	}
	sb.WriteString("\n\n")

	for _, id := range Order(c) {
		sb.WriteString(BlockMarkdown(c, id))
	}
	return sb.String()
}

// BlockMarkdown renders one node
func BlockMarkdown(c *cfg.CFG, id cfg.NodeID) string {
	b := c.Block(id)
	if b == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", Label(c, id))
	fmt.Fprintf(&sb, "`%s..%s` *%s*\n\n", b.First, b.Last, b.Enter)
	sb.WriteString("```esil\n")
	sb.WriteString(b.Expr)
	sb.WriteString("\n```\n\n")
	if s := succList(c, id); s != "" {
		fmt.Fprintf(&sb, "successors: %s\n\n", s)
	}
	if p := c.Preds(id); len(p) > 0 {
		fmt.Fprintf(&sb, "predecessors: %d\n\n", len(p))
	}
	return sb.String()
}

// Glamour renders markdown for a terminal of the given width. The input is
// returned unchanged when the renderer fails.
func Glamour(md string, width int) string {
	r := styles.GetMarkdownRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
