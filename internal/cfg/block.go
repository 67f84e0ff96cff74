// Package cfg turns ESIL expressions into control-flow graphs of basic blocks.
//
// Every expression is split into atoms, structured into blocks from its
// if/else/fi markers, refined by resolving BREAK and GOTO atoms, and finally
// flattened back into per-block expression text. Subgraphs of successive
// instructions are chained through glue blocks that update the program counter.
package cfg

import "fmt"

// Offset addresses one atom: the instruction address and the atom index
// inside that instruction's expression
type Offset struct {
	Addr uint64
	Idx  uint16
}

// Compare orders offsets by address, then index.
// Only comparisons are used; subtracting 64-bit addresses could wrap.
func (o Offset) Compare(other Offset) int {
	if o.Addr < other.Addr {
		return -1
	}
	if o.Addr > other.Addr {
		return 1
	}
	if o.Idx < other.Idx {
		return -1
	}
	if o.Idx > other.Idx {
		return 1
	}
	return 0
}

// Less reports whether o sorts before other
func (o Offset) Less(other Offset) bool {
	return o.Compare(other) < 0
}

func (o Offset) String() string {
	return fmt.Sprintf("0x%x:%d", o.Addr, o.Idx)
}

// Enter records why control reaches a block
type Enter int

const (
	EnterNormal Enter = iota // unconditional predecessor
	EnterTrue                // taken branch
	EnterFalse               // not-taken branch
	EnterGlue                // program counter update between instructions
)

func (e Enter) String() string {
	switch e {
	case EnterTrue:
		return "true"
	case EnterFalse:
		return "false"
	case EnterGlue:
		return "glue"
	default:
		return "normal"
	}
}

// Block is a basic block of ESIL atoms.
// First and Last are inclusive. Expr stays empty until the block is flattened.
type Block struct {
	Expr  string
	First Offset
	Last  Offset
	Enter Enter
}

// Contains reports whether off falls inside the block's atom range
func (b *Block) Contains(off Offset) bool {
	return b.First.Compare(off) <= 0 && off.Compare(b.Last) <= 0
}

// Span returns the number of atoms the block covers within one address
func (b *Block) Span() int {
	if b.First.Addr != b.Last.Addr || b.Last.Idx < b.First.Idx {
		return 0
	}
	return int(b.Last.Idx-b.First.Idx) + 1
}

func (b *Block) String() string {
	return fmt.Sprintf("[%s..%s] %s %q", b.First, b.Last, b.Enter, b.Expr)
}
