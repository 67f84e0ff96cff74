package analysis

import (
	"esilcfg/internal/cfg"
)

// Stats summarizes the shape of a CFG
type Stats struct {
	Blocks     int
	Edges      int
	ByEnter    map[cfg.Enter]int
	Unresolved int
	Reachable  int // nodes reachable from Start
	MaxOut     int
	MaxIn      int
	Atoms      int // sum of atoms over all blocks but End
}

// Collect computes Stats for c
func Collect(c *cfg.CFG) Stats {
	s := Stats{ByEnter: make(map[cfg.Enter]int)}
	if c == nil || c.Released() {
		return s
	}
	s.Blocks = c.Len()
	s.Edges = c.EdgeCount()
	s.Unresolved = len(c.Unresolved)
	s.Reachable = len(c.Reachable(c.Start))
	for _, id := range c.Nodes() {
		b := c.Block(id)
		s.ByEnter[b.Enter]++
		s.MaxOut = max(s.MaxOut, len(c.Succs(id)))
		s.MaxIn = max(s.MaxIn, len(c.Preds(id)))
		if id != c.End {
			s.Atoms += countAtoms(b.Expr)
		}
	}
	return s
}

// countAtoms counts the atoms of flattened block text. Merged blocks join
// their parts with newlines and every part ends with a comma.
func countAtoms(expr string) int {
	n := 0
	for _, r := range expr {
		if r == ',' {
			n++
		}
	}
	return n
}
