package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIndex(t *testing.T) {
	g := &graph{}
	a := g.addNode(Block{First: Offset{0x10, 0}, Last: Offset{0x10, 3}})
	b := g.addNode(Block{First: Offset{0x10, 4}, Last: Offset{0x10, 4}})
	c := g.addNode(Block{First: Offset{0x10, 8}, Last: Offset{0x10, 9}})

	x := newBlockIndex(g)
	x.insert(c)
	x.insert(a)
	x.insert(b)
	require.Equal(t, 3, x.len())
	assert.Equal(t, []NodeID{a, b, c}, x.entries())

	tests := []struct {
		off   Offset
		want  NodeID
		found bool
	}{
		{Offset{0x10, 0}, a, true},
		{Offset{0x10, 2}, a, true},
		{Offset{0x10, 4}, b, true},
		{Offset{0x10, 6}, None, false},
		{Offset{0x10, 9}, c, true},
		{Offset{0x10, 10}, None, false},
		{Offset{0x0f, 0xffff}, None, false},
		{Offset{0x11, 0}, None, false},
	}
	for _, tt := range tests {
		t.Run(tt.off.String(), func(t *testing.T) {
			got, ok := x.findInterval(tt.off)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, x.findExact(b))
	assert.True(t, x.delete(b))
	assert.False(t, x.delete(b))
	assert.False(t, x.findExact(b))
	_, ok := x.findInterval(Offset{0x10, 4})
	assert.False(t, ok)

	x.clear()
	assert.Equal(t, 0, x.len())
	assert.True(t, g.valid(a), "clearing the index keeps nodes")
}

func TestOffsetCompare(t *testing.T) {
	// high addresses must not wrap
	lo := Offset{Addr: 0}
	hi := Offset{Addr: 1 << 63}
	assert.True(t, lo.Less(hi))
	assert.False(t, hi.Less(lo))
	assert.Equal(t, 0, hi.Compare(hi))
	assert.True(t, Offset{1, 2}.Less(Offset{1, 3}))
	assert.Equal(t, "0x10:3", Offset{0x10, 3}.String())
}

func TestSplitForward(t *testing.T) {
	g := &graph{}
	n := g.addNode(Block{Expr: "n"})
	s1 := g.addNode(Block{Expr: "s1"})
	s2 := g.addNode(Block{Expr: "s2"})
	g.addEdge(n, s1)
	g.addEdge(n, s2)
	g.addEdge(n, n)

	front := g.splitForward(n, Block{Expr: "front"})

	assert.ElementsMatch(t, []NodeID{s1, s2, n}, g.nodes[front].out)
	assert.Empty(t, g.nodes[n].out)
	assert.Equal(t, []NodeID{front}, g.nodes[s1].in)
	assert.False(t, g.hasEdge(n, front))
}

func TestDelNode(t *testing.T) {
	g := &graph{}
	a := g.addNode(Block{})
	b := g.addNode(Block{})
	g.addEdge(a, b)
	g.addEdge(b, a)

	g.delNode(b)
	assert.False(t, g.valid(b))
	assert.Empty(t, g.nodes[a].out)
	assert.Empty(t, g.nodes[a].in)
	assert.Equal(t, []NodeID{a}, g.ids())
	assert.Equal(t, 1, g.live)
}

func TestAtomize(t *testing.T) {
	s, err := atomize("a,,b")
	require.NoError(t, err)
	assert.Equal(t, 3, s.len())

	got, ok := s.take(0)
	assert.True(t, ok)
	assert.Equal(t, "a", got)
	_, ok = s.get(0)
	assert.False(t, ok)
	assert.Equal(t, 2, s.count())

	empty, err := atomize("")
	require.NoError(t, err)
	require.Equal(t, 1, empty.len())
	got, ok = empty.get(0)
	assert.True(t, ok)
	assert.Equal(t, "", got)
}
