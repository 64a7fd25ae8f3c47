package evaluation

// Criterion names used as keys in Limits and Verdict.Criteria. They match
// the field names the persistence collaborator stores.
const (
	CriterionPeakToPeak     = "peak_to_peak"
	CriterionTriggerCurrent = "trigger_current"
	CriterionNoise          = "noise"
	CriterionRingdown       = "ringdown"
)

// LimitPair is a lower/upper specification limit for one criterion.
// A measured value passes when LSL <= value <= USL, both bounds
// inclusive.
type LimitPair struct {
	LSL float64 `yaml:"lsl"`
	USL float64 `yaml:"usl"`
}

// Contains reports whether value lies within the limits, inclusive.
func (lp LimitPair) Contains(value float64) bool {
	return lp.LSL <= value && value <= lp.USL
}

// Limits maps criterion names to their specification limits. Limits are
// supplied externally per evaluation call; the core does not own them.
type Limits map[string]LimitPair

// Verdict is the outcome of one pass/fail evaluation. It is derived
// fresh on every call; it is never cached against an analysis result
// because limits can change independently.
type Verdict struct {
	Criteria map[string]bool
	Pass     bool
}

// TestTypeConfig describes one test configuration from the catalog: the
// device-under-test and reference labels shown on reports, and which
// optional criteria the test type requires. The catalog is configuration
// data owned by the caller, not by the analysis core.
type TestTypeConfig struct {
	Name           string `yaml:"name"`
	DUTLabel       string `yaml:"dut_label"`
	ReferenceLabel string `yaml:"reference_label"`
	HasRingdown    bool   `yaml:"has_ringdown"`
	HasSkidPlate   bool   `yaml:"has_skid_plate"`
}
