package analysis

import (
	"fmt"

	"esilcfg/internal/cfg"
)

type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "info"
	}
}

// Finding is one observation about a CFG
type Finding struct {
	Kind     string
	Severity Severity
	Node     cfg.NodeID             // cfg.None when not tied to a node
	At       cfg.Offset             // atom the finding points at
	Comment  string                 // Human-readable summary
	Metadata map[string]interface{} // Detector-specific metadata
}

func (f Finding) String() string {
	if f.Node == cfg.None {
		return fmt.Sprintf("%s %s at %s: %s", f.Severity, f.Kind, f.At, f.Comment)
	}
	return fmt.Sprintf("%s %s at %s (n%d): %s", f.Severity, f.Kind, f.At, f.Node, f.Comment)
}

// Worst returns the highest severity among findings, SevInfo when empty
func Worst(findings []Finding) Severity {
	worst := SevInfo
	for _, f := range findings {
		worst = max(worst, f.Severity)
	}
	return worst
}
