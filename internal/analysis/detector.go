package analysis

import "esilcfg/internal/cfg"

// Detector interface for pattern detection on a finished CFG
type Detector interface {
	// Detect inspects c and returns findings with its own appended. It may
	// also enrich the findings of earlier detectors.
	Detect(c *cfg.CFG, findings []Finding) []Finding
}

// DetectorChain runs multiple detectors in sequence
type DetectorChain struct {
	detectors []Detector
}

// NewDetectorChain creates a new detector chain
func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{
		detectors: detectors,
	}
}

// Detect runs all detectors in sequence
func (dc *DetectorChain) Detect(c *cfg.CFG, findings []Finding) []Finding {
	result := findings
	if c == nil || c.Released() {
		return result
	}
	for _, detector := range dc.detectors {
		result = detector.Detect(c, result)
	}
	return result
}

// Len returns the number of detectors in the chain
func (dc *DetectorChain) Len() int {
	return len(dc.detectors)
}
