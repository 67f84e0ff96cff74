package cfg

import (
	"slices"

	"github.com/oleiade/lane/v2"
)

// NodeID is a stable arena index of a graph node
type NodeID int

// None is the zero value for "no node"
const None NodeID = -1

type node struct {
	alive bool
	block Block
	in    []NodeID
	out   []NodeID
}

// graph is a directed graph stored in an arena. Removing a node leaves a dead
// slot behind so IDs held elsewhere never point at a different node.
type graph struct {
	nodes []node
	live  int
}

func (g *graph) addNode(b Block) NodeID {
	g.nodes = append(g.nodes, node{alive: true, block: b})
	g.live++
	return NodeID(len(g.nodes) - 1)
}

func (g *graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes) && g.nodes[id].alive
}

func (g *graph) block(id NodeID) *Block {
	return &g.nodes[id].block
}

func (g *graph) hasEdge(from, to NodeID) bool {
	return slices.Contains(g.nodes[from].out, to)
}

// addEdge adds from->to unless it already exists
func (g *graph) addEdge(from, to NodeID) {
	if g.hasEdge(from, to) {
		return
	}
	g.nodes[from].out = append(g.nodes[from].out, to)
	g.nodes[to].in = append(g.nodes[to].in, from)
}

func (g *graph) delEdge(from, to NodeID) {
	g.nodes[from].out = remove(g.nodes[from].out, to)
	g.nodes[to].in = remove(g.nodes[to].in, from)
}

// delOutEdges detaches every successor of id
func (g *graph) delOutEdges(id NodeID) {
	for _, to := range g.nodes[id].out {
		g.nodes[to].in = remove(g.nodes[to].in, id)
	}
	g.nodes[id].out = nil
}

func (g *graph) delNode(id NodeID) {
	n := &g.nodes[id]
	for _, from := range n.in {
		if from != id {
			g.nodes[from].out = remove(g.nodes[from].out, id)
		}
	}
	for _, to := range n.out {
		if to != id {
			g.nodes[to].in = remove(g.nodes[to].in, id)
		}
	}
	*n = node{}
	g.live--
}

// splitForward creates a node for b and hands it every out edge of id.
// No edge between id and the new node is added.
func (g *graph) splitForward(id NodeID, b Block) NodeID {
	front := g.addNode(b)
	outs := g.nodes[id].out
	g.nodes[id].out = nil
	for _, to := range outs {
		// a self loop on id becomes front->id
		g.nodes[to].in = remove(g.nodes[to].in, id)
		g.nodes[front].out = append(g.nodes[front].out, to)
		g.nodes[to].in = append(g.nodes[to].in, front)
	}
	return front
}

// dfs visits every node reachable from start once, in depth-first preorder
func (g *graph) dfs(start NodeID, visit func(NodeID)) {
	if !g.valid(start) {
		return
	}
	seen := make([]bool, len(g.nodes))
	stack := lane.NewStack[NodeID](start)
	for {
		id, ok := stack.Pop()
		if !ok {
			return
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		visit(id)
		outs := g.nodes[id].out
		for i := len(outs) - 1; i >= 0; i-- {
			if !seen[outs[i]] {
				stack.Push(outs[i])
			}
		}
	}
}

func (g *graph) ids() []NodeID {
	out := make([]NodeID, 0, g.live)
	for i := range g.nodes {
		if g.nodes[i].alive {
			out = append(out, NodeID(i))
		}
	}
	return out
}

func remove(list []NodeID, id NodeID) []NodeID {
	for i, x := range list {
		if x == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
