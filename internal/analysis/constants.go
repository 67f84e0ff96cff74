// Package analysis inspects finished CFGs: summary statistics and a chain of
// detectors reporting suspicious shapes.
package analysis

// Finding kinds
const (
	KindUnresolvedGoto = "unresolved-goto"
	KindDeadEnd        = "dead-end"
	KindSelfLoop       = "self-loop"
	KindEndUnreachable = "end-unreachable"
)

// MaxFindingsPerKind caps how many findings of one kind a detector reports
const MaxFindingsPerKind = 64
