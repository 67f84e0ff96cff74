// Package render prints a CFG as plain text, Graphviz DOT or markdown.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"esilcfg/internal/cfg"
	"esilcfg/internal/ui/colorize"
)

// Format selects a renderer
type Format string

const (
	FormatText     Format = "text"
	FormatDOT      Format = "dot"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats
func Formats() []string {
	return []string{string(FormatText), string(FormatDOT), string(FormatMarkdown)}
}

// Options tune the renderers
type Options struct {
	Color bool // terminal colors for text output
	Title string
}

// Order returns the live nodes of c: those reachable from Start in
// depth-first preorder, then the rest by ID
func Order(c *cfg.CFG) []cfg.NodeID {
	order := c.Reachable(c.Start)
	seen := make(map[cfg.NodeID]bool, len(order))
	for _, id := range order {
		seen[id] = true
	}
	for _, id := range c.Nodes() {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return order
}

// Write renders c to w in format f
func Write(w io.Writer, c *cfg.CFG, f Format, opts Options) error {
	switch f {
	case FormatText, "":
		return Text(w, c, opts)
	case FormatDOT:
		_, err := io.WriteString(w, DOT(c, opts))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(c, opts))
		return err
	}
	return fmt.Errorf("unknown format %q (want one of %s)", f, strings.Join(Formats(), ", "))
}

// Label names a node for humans: its ID and its role
func Label(c *cfg.CFG, id cfg.NodeID) string {
	switch id {
	case c.Start:
		return fmt.Sprintf("n%d (start)", id)
	case c.End:
		return fmt.Sprintf("n%d (end)", id)
	}
	return fmt.Sprintf("n%d", id)
}

func succList(c *cfg.CFG, id cfg.NodeID) string {
	succs := c.Succs(id)
	slices.Sort(succs)
	parts := make([]string, len(succs))
	for i, s := range succs {
		parts[i] = fmt.Sprintf("n%d", s)
	}
	return strings.Join(parts, ", ")
}

// Text writes one section per block:
//
//	n0 (start) [0x1000:0..0x1000:2] normal
//	    1,zf,?{,
//	    -> n2, n3
func Text(w io.Writer, c *cfg.CFG, opts Options) error {
	if c.Released() {
		return cfg.ErrReleased
	}
	var sb strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&sb, "; %s\n", opts.Title)
	}
	fmt.Fprintf(&sb, "; %d blocks, %d edges\n", c.Len(), c.EdgeCount())
	for _, id := range Order(c) {
		b := c.Block(id)
		fmt.Fprintf(&sb, "\n%s [%s..%s] %s\n", Label(c, id), b.First, b.Last, b.Enter)
		text := b.Expr
		if opts.Color {
			text = colorize.ColorizeBlock(text)
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
		if s := succList(c, id); s != "" {
			fmt.Fprintf(&sb, "    -> %s\n", s)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
