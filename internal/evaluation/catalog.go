package evaluation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is an ordered list of test-type configurations. Order is
// preserved so selection lists and reports show the types the way the
// configuration file declares them.
type Catalog []TestTypeConfig

// Find returns the configuration with the given name.
func (c Catalog) Find(name string) (TestTypeConfig, error) {
	for _, cfg := range c {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return TestTypeConfig{}, fmt.Errorf("unknown test type: %q", name)
}

// Names lists the catalog's test-type names in declaration order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, cfg := range c {
		names[i] = cfg.Name
	}
	return names
}

// DefaultCatalog returns the built-in test-type catalog. A deployment can
// replace it with a YAML file via LoadCatalog; the analysis core never
// depends on any of these names.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:           "DTT",
			DUTLabel:       "DTT (SV/33053/0020) [DUT]",
			ReferenceLabel: "DTR (SV/33053/0031) [Reference]",
		},
		{
			Name:           "DTR",
			DUTLabel:       "DTR (SV/33053/0031) [DUT]",
			ReferenceLabel: "DTT (SV/33053/0020) [Reference]",
		},
		{
			Name:           "DC02",
			DUTLabel:       "DC02 Innerblock (SV/103003/0016) [DUT]",
			ReferenceLabel: "DCbox (SV/102603/0033) [Reference]",
			HasRingdown:    true,
		},
		{
			Name:           "DC03 Skid",
			DUTLabel:       "DC03 Skid (SV/102503/0026) [DUT]",
			ReferenceLabel: "DC03 Innerblock (SV/33053/0029) [Reference]",
		},
		{
			Name:           "IDOD",
			DUTLabel:       "IDOD skid [DUT]",
			ReferenceLabel: "IDOD Innerblock (SV/33053/0028) [Reference]",
			HasSkidPlate:   true,
		},
	}
}

// DefaultLimits returns the default specification limits: peak-to-peak
// 150-400 mV, trigger current 30-80 A, noise 0-5 mV, ringdown 0-100 mV.
func DefaultLimits() Limits {
	return Limits{
		CriterionPeakToPeak:     {LSL: 150, USL: 400},
		CriterionTriggerCurrent: {LSL: 30, USL: 80},
		CriterionNoise:          {LSL: 0, USL: 5},
		CriterionRingdown:       {LSL: 0, USL: 100},
	}
}

// LoadCatalog reads a test-type catalog from a YAML file.
func LoadCatalog(filepath string) (Catalog, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", filepath, err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("catalog file %s declares no test types", filepath)
	}
	for i, cfg := range catalog {
		if cfg.Name == "" {
			return nil, fmt.Errorf("catalog file %s: entry %d has no name", filepath, i)
		}
	}
	return catalog, nil
}

// LoadLimits reads specification limits from a YAML file keyed by
// criterion name.
func LoadLimits(filepath string) (Limits, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits file: %w", err)
	}

	var limits Limits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return nil, fmt.Errorf("failed to parse limits file %s: %w", filepath, err)
	}
	for name, lp := range limits {
		if lp.USL < lp.LSL {
			return nil, fmt.Errorf("limits file %s: %s has USL %.3f below LSL %.3f", filepath, name, lp.USL, lp.LSL)
		}
	}
	return limits, nil
}
