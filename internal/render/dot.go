package render

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"esilcfg/internal/cfg"
	"esilcfg/internal/esilcfg/styles"
)

// dotLabel left-aligns every line of a block for graphviz
func dotLabel(head, expr string) dot.Literal {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, line := range append([]string{head}, strings.Split(expr, "\n")...) {
		line = strings.ReplaceAll(line, `\`, `\\`)
		line = strings.ReplaceAll(line, `"`, `\"`)
		sb.WriteString(line)
		sb.WriteString(`\l`)
	}
	sb.WriteByte('"')
	return dot.Literal(sb.String())
}

// DOT renders c as a directed graphviz graph. Edges take the color of the
// way their target is entered.
func DOT(c *cfg.CFG, opts Options) string {
	g := dot.NewGraph(dot.Directed)
	if opts.Title != "" {
		g.Attr("label", opts.Title)
	}
	g.Attr("fontname", "monospace")

	nodes := make(map[cfg.NodeID]dot.Node, c.Len())
	for _, id := range Order(c) {
		b := c.Block(id)
		head := fmt.Sprintf("%s %s", Label(c, id), b.First)
		n := g.Node(fmt.Sprintf("n%d", id)).Box().
			Attr("label", dotLabel(head, b.Expr)).
			Attr("fontname", "monospace").
			Attr("color", styles.EnterColor(b.Enter))
		if id == c.End {
			n = n.Attr("shape", "doublecircle").Attr("label", cfg.EndLabel)
		}
		nodes[id] = n
	}
	for _, id := range Order(c) {
		for _, s := range c.Succs(id) {
			e := g.Edge(nodes[id], nodes[s])
			switch c.Block(s).Enter {
			case cfg.EnterTrue:
				e.Attr("color", styles.EnterColor(cfg.EnterTrue)).Attr("label", "T")
			case cfg.EnterFalse:
				e.Attr("color", styles.EnterColor(cfg.EnterFalse)).Attr("label", "F")
			}
		}
	}
	return g.String()
}
