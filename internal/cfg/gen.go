package cfg

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oleiade/lane/v2"

	"esilcfg/internal/esil"
)

// Generator builds CFGs from ESIL expressions
type Generator struct {
	Ops  esil.OpTable
	Regs esil.RegisterSet
	Log  *log.Logger
}

// NewGenerator creates a generator with the given collaborators
func NewGenerator(ops esil.OpTable, regs esil.RegisterSet, lg *log.Logger) *Generator {
	if lg == nil {
		lg = log.Default()
	}
	return &Generator{Ops: ops, Regs: regs, Log: lg}
}

// scopeCookie tracks an open if/else construct.
// Entering an if sets the parent as elseBlock. Entering an else replaces
// elseBlock when isElse is false and ifBlock otherwise, then flips isElse.
type scopeCookie struct {
	ifBlock   NodeID
	elseBlock NodeID
	isElse    bool
}

// inactive is the side that still has to be connected to the join
func (s *scopeCookie) inactive() NodeID {
	if s.isElse {
		return s.ifBlock
	}
	return s.elseBlock
}

// gen is the state shared by the three rounds for one expression
type gen struct {
	*Generator
	cfg    *CFG
	atoms  *atomStore
	blocks *blockIndex
	scopes *lane.Stack[*scopeCookie]
	vals   *lane.Stack[value]
	cur    NodeID
	addr   uint64
}

// Expr adds the subgraph of one expression at addr to c. A nil c starts a new
// CFG. The previous End becomes the entry of the subgraph and a new End is
// installed.
func (g *Generator) Expr(c *CFG, addr uint64, expr string) (*CFG, error) {
	if g.Ops == nil {
		return nil, ErrNoOps
	}
	if c == nil {
		c = New()
	}
	if c.Released() {
		return nil, ErrReleased
	}
	atoms, err := atomize(expr)
	if err != nil {
		return nil, fmt.Errorf("atomize expression at 0x%x: %w", addr, err)
	}

	// previous end is the entry of this subgraph and hands its text to the new end
	start := c.End
	end := c.g.addNode(Block{})
	sb := c.g.block(start)
	c.g.block(end).Expr = sb.Expr
	sb.Expr = ""
	sb.First = Offset{Addr: addr}
	sb.Last = sb.First
	c.End = end

	st := &gen{
		Generator: g,
		cfg:       c,
		atoms:     atoms,
		blocks:    newBlockIndex(c.g),
		scopes:    lane.NewStack[*scopeCookie](),
		vals:      lane.NewStack[value](),
		cur:       start,
		addr:      addr,
	}
	st.blocks.insert(start)

	st.round0()
	st.round1()
	st.round2(start)
	return c, nil
}

// round0 builds the blocks of if, else and fi
func (st *gen) round0() {
	n := st.atoms.len()
	for id := 0; id < n; id++ {
		atom, _ := st.atoms.get(id)
		st.cfg.g.block(st.cur).Last.Idx = uint16(id)
		op, ok := st.Ops.Lookup(atom)
		if !ok || !op.IsControlFlow() {
			continue
		}
		hasNext := st.atoms.has(id + 1)
		switch esil.Control(atom) {
		case esil.CtrlIf:
			st.ifEnter(id, hasNext)
		case esil.CtrlElse:
			st.elseEnter(id, hasNext)
		case esil.CtrlFi:
			st.fiLeave(id)
		}
	}

	g := st.cfg.g
	g.addEdge(st.cur, st.cfg.End)
	// open scopes still have to reach the post-dominator
	for {
		cookie, ok := st.scopes.Pop()
		if !ok {
			break
		}
		g.addEdge(cookie.inactive(), st.cfg.End)
	}
}

func (st *gen) newBlock(idx int, enter Enter) NodeID {
	off := Offset{Addr: st.addr, Idx: uint16(idx)}
	id := st.cfg.g.addNode(Block{First: off, Last: off, Enter: enter})
	st.blocks.insert(id)
	return id
}

func (st *gen) ifEnter(id int, hasNext bool) {
	if !hasNext {
		return
	}
	entered := st.newBlock(id+1, EnterTrue)
	st.cfg.g.addEdge(st.cur, entered)
	st.scopes.Push(&scopeCookie{ifBlock: entered, elseBlock: st.cur})
	st.cur = entered
}

func (st *gen) elseEnter(id int, hasNext bool) {
	cookie, ok := st.scopes.Head()
	if !hasNext || !ok {
		return
	}
	g := st.cfg.g
	var entered NodeID
	if cookie.isElse {
		entered = st.newBlock(id+1, EnterTrue)
		g.addEdge(cookie.ifBlock, entered)
		cookie.ifBlock = entered
		cookie.elseBlock = st.cur
		cookie.isElse = false
	} else {
		entered = st.newBlock(id+1, EnterFalse)
		g.addEdge(cookie.elseBlock, entered)
		cookie.elseBlock = entered
		cookie.ifBlock = st.cur
		cookie.isElse = true
	}
	st.cur = entered
}

func (st *gen) fiLeave(id int) {
	cookie, ok := st.scopes.Pop()
	if !ok {
		return
	}
	g := st.cfg.g
	cb := g.block(st.cur)
	// an empty body is its own join block
	if cb.First != cb.Last {
		cb.Last.Idx--
		leaving := st.newBlock(id, EnterNormal)
		g.addEdge(st.cur, leaving)
		st.cur = leaving
	}
	g.addEdge(cookie.inactive(), st.cur)
}

// round1 splits blocks at BREAK and GOTO atoms and adds their edges
func (st *gen) round1() {
	n := st.atoms.len()
	for id := 0; id < n; id++ {
		atom, _ := st.atoms.get(id)
		op, ok := st.Ops.Lookup(atom)
		if !ok || !op.IsControlFlow() {
			continue
		}
		switch esil.Control(atom) {
		case esil.CtrlBreak:
			st.handleBreak(id)
		case esil.CtrlGoto:
			st.handleGoto(id)
		}
	}
}

// breakOrGoto returns the block ending with atom id. The block is split after
// id when needed, otherwise its fallthrough edges are detached.
func (st *gen) breakOrGoto(id int) (NodeID, bool) {
	off := Offset{Addr: st.addr, Idx: uint16(id)}
	n, ok := st.blocks.findInterval(off)
	if !ok {
		st.Log.Error("no block holds atom", "at", off)
		return None, false
	}
	g := st.cfg.g
	b := g.block(n)
	if b.Last.Idx != uint16(id) {
		next := Block{
			First: Offset{Addr: st.addr, Idx: uint16(id + 1)},
			Last:  b.Last,
		}
		b.Last.Idx = uint16(id)
		st.blocks.insert(g.splitForward(n, next))
	} else {
		g.delOutEdges(n)
	}
	return n, true
}

func (st *gen) handleBreak(id int) {
	if n, ok := st.breakOrGoto(id); ok {
		st.cfg.g.addEdge(n, st.cfg.End)
	}
}

// round2 flattens every block reachable from start into its expression text
// and then purges the blocks that were never reached
func (st *gen) round2(start NodeID) {
	g := st.cfg.g
	g.dfs(start, func(id NodeID) {
		if !st.blocks.findExact(id) {
			return
		}
		b := g.block(id)
		var sb strings.Builder
		for i := int(b.First.Idx); i <= int(b.Last.Idx); i++ {
			atom, ok := st.atoms.take(i)
			if !ok {
				continue
			}
			sb.WriteString(atom)
			sb.WriteByte(',')
		}
		b.Expr = sb.String()
		st.blocks.delete(id)
	})

	for _, id := range st.blocks.entries() {
		b := g.block(id)
		st.Log.Debug("dropping unreachable block", "first", b.First, "last", b.Last)
		for i := int(b.First.Idx); i <= int(b.Last.Idx); i++ {
			st.atoms.delete(i)
		}
		g.delNode(id)
	}
	st.blocks.clear()
}
