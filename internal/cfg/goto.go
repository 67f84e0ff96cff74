package cfg

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags an abstract stack value
type ValueKind int

const (
	ValConst ValueKind = iota
	ValReg
	ValResult
)

func (k ValueKind) String() string {
	switch k {
	case ValConst:
		return "const"
	case ValReg:
		return "reg"
	default:
		return "result"
	}
}

// value is an abstract stack value used while resolving a GOTO destination
type value struct {
	kind ValueKind
	val  uint64
}

// parseNum reads an ESIL numeric literal: decimal, 0x hex, 0b binary, 0o
// octal or a negative decimal
func parseNum(atom string) (uint64, bool) {
	if atom == "" {
		return 0, false
	}
	if strings.HasPrefix(atom, "-") {
		v, err := strconv.ParseInt(atom, 0, 64)
		if err != nil {
			return 0, false
		}
		return uint64(v), true
	}
	v, err := strconv.ParseUint(atom, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// eval pushes the abstract value of one non-operator atom
func (st *gen) eval(atom string) value {
	if st.Regs != nil && st.Regs.IsRegister(atom) {
		return value{kind: ValReg}
	}
	// names that are neither registers nor numbers read as the constant 0
	v, _ := parseNum(atom)
	return value{kind: ValConst, val: v}
}

// handleGoto resolves the destination of the GOTO at atom id by abstractly
// running the atoms of its block, and connects the block to it.
//
//	"a,b,=,12,GOTO"      -> 12
//	"42,a,4,+,b,=,GOTO"  -> 42
func (st *gen) handleGoto(id int) {
	src, ok := st.breakOrGoto(id)
	if !ok {
		return
	}
	defer st.drain()

	g := st.cfg.g
	b := g.block(src)
	// Last is the GOTO itself and is not evaluated
	for i := int(b.First.Idx); i < int(b.Last.Idx); i++ {
		atom, ok := st.atoms.get(i)
		if !ok {
			continue
		}
		if op, isOp := st.Ops.Lookup(atom); isOp {
			for j := 0; j < op.Pop; j++ {
				st.vals.Pop()
			}
			for j := 0; j < op.Push; j++ {
				st.vals.Push(value{kind: ValResult})
			}
			continue
		}
		st.vals.Push(st.eval(atom))
	}

	at := Offset{Addr: st.addr, Idx: uint16(id)}
	v, ok := st.vals.Pop()
	if !ok || v.kind != ValConst {
		st.Log.Warn("cannot resolve goto destination", "at", at)
		st.cfg.Unresolved = append(st.cfg.Unresolved, at)
		return
	}

	dst := st.cfg.End
	if v.val <= math.MaxUint16 {
		target := Offset{Addr: st.addr, Idx: uint16(v.val)}
		if n, found := st.blocks.findInterval(target); found {
			dst = st.splitAt(n, target.Idx)
			// the goto atom moved into the suffix, which now loops to itself
			if n == src && dst != n && target.Idx <= uint16(id) {
				src = dst
			}
		}
	}
	if dst == st.cfg.End {
		st.Log.Debug("goto destination outside expression", "at", at, "dst", v.val)
	}
	g.addEdge(src, dst)
}

// splitAt makes idx the first atom of a block, splitting n when idx falls in
// its middle. The suffix keeps the enter kind of n and the prefix keeps a
// fallthrough edge to it.
func (st *gen) splitAt(n NodeID, idx uint16) NodeID {
	g := st.cfg.g
	b := g.block(n)
	if b.First.Idx == idx {
		return n
	}
	suffix := Block{
		First: Offset{Addr: b.First.Addr, Idx: idx},
		Last:  b.Last,
		Enter: b.Enter,
	}
	b.Last.Idx = idx - 1
	split := g.splitForward(n, suffix)
	g.addEdge(n, split)
	st.blocks.insert(split)
	return split
}

// drain discards whatever the abstract evaluation left on the value stack
func (st *gen) drain() {
	for {
		if _, ok := st.vals.Pop(); !ok {
			return
		}
	}
}
