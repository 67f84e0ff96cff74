package cfg

import (
	"context"
	"fmt"

	"esilcfg/internal/disasm"
)

// glueExpr is the program counter update that precedes an instruction
func glueExpr(next uint64, pc string) string {
	return fmt.Sprintf("0x%x,%s,:=,", next, pc)
}

// Op adds one instruction to c. A glue block setting the program counter to
// the address after the instruction is placed in front of its subgraph.
func (g *Generator) Op(c *CFG, op disasm.Op) (*CFG, error) {
	if g.Ops == nil {
		return nil, ErrNoOps
	}
	if g.Regs == nil || g.Regs.PC() == "" {
		return nil, ErrNoRegisters
	}
	if c != nil && c.Released() {
		return nil, ErrReleased
	}
	at := Offset{Addr: op.Addr}
	glue := Block{
		Expr:  glueExpr(op.Addr+uint64(op.Size), g.Regs.PC()),
		First: at,
		Last:  at,
		Enter: EnterGlue,
	}

	if c == nil {
		ret, err := g.Expr(nil, op.Addr, op.Esil)
		if err != nil {
			return nil, fmt.Errorf("instruction at 0x%x: %w", op.Addr, err)
		}
		gn := ret.g.addNode(glue)
		ret.g.addEdge(gn, ret.Start)
		ret.Start = gn
		return ret, nil
	}

	// validate before the graph is touched
	if _, err := atomize(op.Esil); err != nil {
		return nil, fmt.Errorf("instruction at 0x%x: %w", op.Addr, err)
	}
	// The old end keeps its in edges and takes the glue payload; the new
	// node takes the old end payload and becomes the end the expression
	// builds from.
	gn := c.g.addNode(glue)
	c.g.addEdge(c.End, gn)
	endBlock, glueBlock := c.g.block(c.End), c.g.block(gn)
	*endBlock, *glueBlock = *glueBlock, *endBlock
	c.End = gn
	if _, err := g.Expr(c, op.Addr, op.Esil); err != nil {
		return nil, fmt.Errorf("instruction at 0x%x: %w", op.Addr, err)
	}
	return c, nil
}

// Program chains every instruction of ops into c, or into a new CFG when c
// is nil. Cancellation is checked between instructions.
func (g *Generator) Program(ctx context.Context, c *CFG, ops disasm.Stream) (*CFG, error) {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		next, err := g.Op(c, op)
		if err != nil {
			return c, err
		}
		c = next
		if i > 0 && i%1000 == 0 {
			g.Log.Debug("composed instructions", "count", i, "nodes", c.Len())
		}
	}
	if c == nil {
		c = New()
	}
	return c, nil
}
