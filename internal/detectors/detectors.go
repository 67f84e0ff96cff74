// Package detectors reports suspicious shapes in ESIL control-flow graphs:
// gotos that could not be resolved, blocks that never reach the end node and
// blocks that loop onto themselves.
package detectors

import (
	"esilcfg/internal/analysis"
	"esilcfg/internal/cfg"
)

// Default returns the chain run by the check command
func Default() *analysis.DetectorChain {
	return analysis.NewDetectorChain(
		NewUnresolvedGotoDetector(),
		NewDeadEndDetector(),
		NewSelfLoopDetector(),
	)
}

// UnresolvedGotoDetector reports GOTO atoms whose destination was not a
// constant. They leave their block without successors.
type UnresolvedGotoDetector struct{}

func NewUnresolvedGotoDetector() *UnresolvedGotoDetector {
	return &UnresolvedGotoDetector{}
}

func (d *UnresolvedGotoDetector) Detect(c *cfg.CFG, findings []analysis.Finding) []analysis.Finding {
	for i, at := range c.Unresolved {
		if i == analysis.MaxFindingsPerKind {
			break
		}
		findings = append(findings, analysis.Finding{
			Kind:     analysis.KindUnresolvedGoto,
			Severity: analysis.SevWarning,
			Node:     nodeAt(c, at),
			At:       at,
			Comment:  "goto destination is computed at runtime",
		})
	}
	return findings
}

// nodeAt finds the live block holding at, if any
func nodeAt(c *cfg.CFG, at cfg.Offset) cfg.NodeID {
	for _, id := range c.Nodes() {
		if id != c.End && c.Block(id).Contains(at) {
			return id
		}
	}
	return cfg.None
}
