package detectors

import (
	"fmt"

	"esilcfg/internal/analysis"
	"esilcfg/internal/cfg"
)

// DeadEndDetector reports blocks reachable from the start that can never
// reach the end node: infinite loops and blocks cut off by an unresolved
// goto. When the end itself is unreachable a single finding says so.
type DeadEndDetector struct{}

func NewDeadEndDetector() *DeadEndDetector {
	return &DeadEndDetector{}
}

func (d *DeadEndDetector) Detect(c *cfg.CFG, findings []analysis.Finding) []analysis.Finding {
	reachable := c.Reachable(c.Start)
	// walk predecessors back from End once instead of a search per node
	toEnd := reverseReach(c, c.End)

	endSeen := false
	reported := 0
	for _, id := range reachable {
		if id == c.End {
			endSeen = true
			continue
		}
		if toEnd[id] || reported == analysis.MaxFindingsPerKind {
			continue
		}
		reported++
		b := c.Block(id)
		findings = append(findings, analysis.Finding{
			Kind:     analysis.KindDeadEnd,
			Severity: analysis.SevWarning,
			Node:     id,
			At:       b.First,
			Comment:  fmt.Sprintf("block cannot reach the end node (%d successors)", len(c.Succs(id))),
		})
	}
	if !endSeen {
		findings = append(findings, analysis.Finding{
			Kind:     analysis.KindEndUnreachable,
			Severity: analysis.SevError,
			Node:     c.End,
			Comment:  "end node is not reachable from the start",
		})
	}
	return findings
}

func reverseReach(c *cfg.CFG, from cfg.NodeID) map[cfg.NodeID]bool {
	seen := map[cfg.NodeID]bool{from: true}
	work := []cfg.NodeID{from}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		for _, p := range c.Preds(id) {
			if !seen[p] {
				seen[p] = true
				work = append(work, p)
			}
		}
	}
	return seen
}

// SelfLoopDetector reports blocks that are their own successor
type SelfLoopDetector struct{}

func NewSelfLoopDetector() *SelfLoopDetector {
	return &SelfLoopDetector{}
}

func (d *SelfLoopDetector) Detect(c *cfg.CFG, findings []analysis.Finding) []analysis.Finding {
	reported := 0
	for _, id := range c.Nodes() {
		if reported == analysis.MaxFindingsPerKind {
			break
		}
		for _, s := range c.Succs(id) {
			if s != id {
				continue
			}
			reported++
			findings = append(findings, analysis.Finding{
				Kind:     analysis.KindSelfLoop,
				Severity: analysis.SevInfo,
				Node:     id,
				At:       c.Block(id).First,
				Comment:  "block jumps back to its own first atom",
				Metadata: map[string]interface{}{"preds": len(c.Preds(id))},
			})
		}
	}
	return findings
}
