// Package disasm defines the instruction representation handed to the CFG
// builder and the readers that produce it from disassembler output.
package disasm

import (
	"errors"
	"io"
	"strings"
)

// ErrBadListing is returned for malformed listing input
var ErrBadListing = errors.New("malformed instruction listing")

// OpType is the analysis class of an instruction
type OpType int

const (
	OpUnknown OpType = iota
	OpNop
	OpTrap
	OpJmp
	OpCJmp
	OpUJmp
	OpCall
	OpUCall
	OpRet
	OpPush
	OpUPush
	OpPop
	OpMov
	OpLoad
	OpStore
	OpCmp
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpNot
	OpSwi
	OpIll
)

var opNames = [...]string{
	OpUnknown: "unk",
	OpNop:     "nop",
	OpTrap:    "trap",
	OpJmp:     "jmp",
	OpCJmp:    "cjmp",
	OpUJmp:    "ujmp",
	OpCall:    "call",
	OpUCall:   "ucall",
	OpRet:     "ret",
	OpPush:    "push",
	OpUPush:   "upush",
	OpPop:     "pop",
	OpMov:     "mov",
	OpLoad:    "load",
	OpStore:   "store",
	OpCmp:     "cmp",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpMod:     "mod",
	OpAnd:     "and",
	OpOr:      "or",
	OpXor:     "xor",
	OpShl:     "shl",
	OpShr:     "shr",
	OpNot:     "not",
	OpSwi:     "swi",
	OpIll:     "ill",
}

func (t OpType) String() string {
	if t < 0 || int(t) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[t]
}

// ParseOpType maps a type name as printed by rizin to an OpType. Unknown
// names map to OpUnknown.
func ParseOpType(s string) OpType {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range opNames {
		if n == s {
			return OpType(i)
		}
	}
	// rizin prints a few aliases
	switch s {
	case "invalid":
		return OpIll
	case "rjmp", "ijmp", "mjmp", "ircall", "rcall":
		return OpUJmp
	case "ucjmp", "mcjmp", "rcjmp":
		return OpCJmp
	case "lea":
		return OpMov
	}
	return OpUnknown
}

// IsBranch reports whether the instruction may transfer control
func (t OpType) IsBranch() bool {
	switch t {
	case OpJmp, OpCJmp, OpUJmp, OpCall, OpUCall, OpRet, OpTrap, OpSwi:
		return true
	}
	return false
}

// Op is one decoded instruction
type Op struct {
	Addr uint64 // address of the instruction
	Size int    // encoded length in bytes
	Esil string // ESIL semantics
	Type OpType
	Jump uint64 // branch target, 0 if none
	Fail uint64 // fallthrough of a conditional branch, 0 if none
}

// Next is the address of the following instruction
func (o Op) Next() uint64 {
	return o.Addr + uint64(o.Size)
}

// Stream is a linear sequence of instructions.
type Stream []Op

// Decoder turns disassembler output into instructions
type Decoder interface {
	Decode(r io.Reader) (Stream, error)
}

// Format names the listing formats understood by DecoderFor
type Format string

const (
	FormatAuto    Format = "auto"
	FormatListing Format = "listing"
	FormatJSON    Format = "json"
)

// DecoderFor returns the decoder for f. FormatAuto picks by the file name,
// treating *.json as JSON.
func DecoderFor(f Format, name string) (Decoder, error) {
	switch f {
	case FormatListing:
		return ListingDecoder{}, nil
	case FormatJSON:
		return JSONDecoder{}, nil
	case FormatAuto, "":
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			return JSONDecoder{}, nil
		}
		return ListingDecoder{}, nil
	}
	return nil, errors.New("unknown listing format " + string(f))
}
