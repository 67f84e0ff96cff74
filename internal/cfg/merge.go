package cfg

// MergeBlocks coalesces chains of blocks linked by a single edge. It runs to
// a fixpoint, so calling it again is a no-op.
func (c *CFG) MergeBlocks() {
	if c.g == nil || c.g.live == 0 {
		return
	}
	for {
		merged := 0
		for _, id := range c.g.ids() {
			if !c.g.valid(id) {
				continue
			}
			if pred, ok := c.mergeable(id); ok {
				c.merge(id, pred)
				merged++
			}
		}
		if merged == 0 {
			return
		}
	}
}

// mergeable returns the predecessor id can absorb
func (c *CFG) mergeable(id NodeID) (NodeID, bool) {
	g := c.g
	n := &g.nodes[id]
	if id == c.End || len(n.in) != 1 {
		return None, false
	}
	pred := n.in[0]
	if pred == id || len(g.nodes[pred].out) != 1 {
		return None, false
	}
	// a glue block in front of a join stays, the join needs it
	if n.block.Enter == EnterGlue {
		for _, succ := range n.out {
			if len(g.nodes[succ].in) > 1 {
				return None, false
			}
		}
	}
	return pred, true
}

// merge folds pred into id and deletes pred
func (c *CFG) merge(id, pred NodeID) {
	g := c.g
	for _, from := range g.nodes[pred].in {
		g.addEdge(from, id)
	}
	pb, nb := g.block(pred), g.block(id)
	if pb.Enter == EnterTrue || pb.Enter == EnterFalse {
		nb.Enter = pb.Enter
	} else {
		nb.Enter = EnterNormal
	}
	nb.Expr = pb.Expr + "\n" + nb.Expr
	nb.First = pb.First
	g.delNode(pred)
	if pred == c.Start {
		c.Start = id
	}
}
