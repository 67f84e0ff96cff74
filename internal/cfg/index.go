package cfg

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// blockIndex is an ordered index over the non-overlapping atom ranges of the
// blocks built for one expression
type blockIndex struct {
	tree *redblacktree.Tree
	g    *graph
}

func newBlockIndex(g *graph) *blockIndex {
	return &blockIndex{
		tree: redblacktree.NewWith(offsetComparator),
		g:    g,
	}
}

func offsetComparator(a, b interface{}) int {
	return a.(Offset).Compare(b.(Offset))
}

// insert registers a node under its block's first offset
func (x *blockIndex) insert(id NodeID) {
	x.tree.Put(x.g.block(id).First, id)
}

// findInterval returns the node whose [First, Last] range holds off
func (x *blockIndex) findInterval(off Offset) (NodeID, bool) {
	n, ok := x.tree.Floor(off)
	if !ok {
		return None, false
	}
	id := n.Value.(NodeID)
	if !x.g.block(id).Contains(off) {
		return None, false
	}
	return id, true
}

// findExact reports whether id is the node indexed under its first offset
func (x *blockIndex) findExact(id NodeID) bool {
	v, ok := x.tree.Get(x.g.block(id).First)
	return ok && v.(NodeID) == id
}

// delete removes id if it is indexed
func (x *blockIndex) delete(id NodeID) bool {
	if !x.findExact(id) {
		return false
	}
	x.tree.Remove(x.g.block(id).First)
	return true
}

func (x *blockIndex) len() int {
	return x.tree.Size()
}

// entries returns the indexed nodes in offset order
func (x *blockIndex) entries() []NodeID {
	out := make([]NodeID, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(NodeID))
	}
	return out
}

// clear drops every entry; the nodes stay in the graph
func (x *blockIndex) clear() {
	x.tree.Clear()
}
