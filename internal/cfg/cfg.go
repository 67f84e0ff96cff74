package cfg

import (
	"errors"
	"slices"
)

var (
	// ErrNoOps is returned when a generator has no operator table
	ErrNoOps = errors.New("no esil operator table")
	// ErrNoRegisters is returned when a generator has no register profile
	ErrNoRegisters = errors.New("no register profile")
	// ErrTooManyAtoms is returned for expressions with more than MaxAtoms atoms
	ErrTooManyAtoms = errors.New("too many atoms in expression")
	// ErrReleased is returned when building into a released CFG
	ErrReleased = errors.New("cfg has been released")
)

// EndLabel is the expression text of the terminal sentinel node
const EndLabel = "end"

// CFG is a control-flow graph of ESIL basic blocks.
//
// End is the post-dominator every live path reaches. It is never merged away;
// each expression added to the graph installs a fresh End and turns the old one
// into the entry of the new subgraph.
type CFG struct {
	g     *graph
	Start NodeID
	End   NodeID

	// Unresolved lists GOTO atoms whose destination was not a constant. No
	// edge is created for them.
	Unresolved []Offset
}

// New creates a CFG holding a single "end" node that is both start and end
func New() *CFG {
	g := &graph{}
	end := g.addNode(Block{Expr: EndLabel})
	return &CFG{g: g, Start: end, End: end}
}

// Release drops every node and block. The CFG cannot be built into afterwards.
func (c *CFG) Release() {
	c.g = nil
	c.Start, c.End = None, None
	c.Unresolved = nil
}

// Released reports whether Release was called
func (c *CFG) Released() bool {
	return c.g == nil
}

// Len returns the number of nodes
func (c *CFG) Len() int {
	if c.g == nil {
		return 0
	}
	return c.g.live
}

// EdgeCount returns the number of edges
func (c *CFG) EdgeCount() int {
	if c.g == nil {
		return 0
	}
	n := 0
	for _, id := range c.g.ids() {
		n += len(c.g.nodes[id].out)
	}
	return n
}

// Has reports whether id is a live node
func (c *CFG) Has(id NodeID) bool {
	return c.g != nil && c.g.valid(id)
}

// Block returns the block of a live node, or nil
func (c *CFG) Block(id NodeID) *Block {
	if !c.Has(id) {
		return nil
	}
	return c.g.block(id)
}

// Succs returns a copy of the successors of id
func (c *CFG) Succs(id NodeID) []NodeID {
	if !c.Has(id) {
		return nil
	}
	return slices.Clone(c.g.nodes[id].out)
}

// Preds returns a copy of the predecessors of id
func (c *CFG) Preds(id NodeID) []NodeID {
	if !c.Has(id) {
		return nil
	}
	return slices.Clone(c.g.nodes[id].in)
}

// Nodes returns the live node IDs in ascending order
func (c *CFG) Nodes() []NodeID {
	if c.g == nil {
		return nil
	}
	return c.g.ids()
}

// Reachable returns the nodes reachable from id in depth-first preorder
func (c *CFG) Reachable(id NodeID) []NodeID {
	if c.g == nil {
		return nil
	}
	var out []NodeID
	c.g.dfs(id, func(n NodeID) { out = append(out, n) })
	return out
}

// ReachesEnd reports whether End is reachable from id
func (c *CFG) ReachesEnd(id NodeID) bool {
	return slices.Contains(c.Reachable(id), c.End)
}

// AddEdge connects two live nodes. Duplicate edges are ignored.
func (c *CFG) AddEdge(from, to NodeID) bool {
	if !c.Has(from) || !c.Has(to) {
		return false
	}
	c.g.addEdge(from, to)
	return true
}
