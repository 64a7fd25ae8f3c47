package evaluation

import "github.com/user/osc_analyzer_go/internal/analysis"

// Evaluate applies the specification limits to a completed analysis
// result and produces a per-criterion and overall verdict.
//
// The criteria are: CH1 peak-to-peak (mV) and noise (mV) from the result,
// and the active trigger-current setting (A) supplied by the caller. The
// ringdown criterion is evaluated against the ringdown voltage only when
// requiresRingdown is set; otherwise it passes vacuously and its limits
// are never consulted. The overall verdict is the AND of all criteria.
//
// Evaluate is a pure function of its inputs: identical inputs always
// yield an identical Verdict. A criterion whose limits are missing from
// the map fails rather than passing unchecked.
func Evaluate(result *analysis.Result, limits Limits, triggerCurrent float64, requiresRingdown bool) Verdict {
	criteria := map[string]bool{
		CriterionPeakToPeak:     checkLimit(limits, CriterionPeakToPeak, result.Ch1.PeakToPeak),
		CriterionTriggerCurrent: checkLimit(limits, CriterionTriggerCurrent, triggerCurrent),
		CriterionNoise:          checkLimit(limits, CriterionNoise, result.Ch1.Noise),
	}

	if requiresRingdown {
		criteria[CriterionRingdown] = checkLimit(limits, CriterionRingdown, result.Ringdown.RingdownVoltageMv)
	} else {
		criteria[CriterionRingdown] = true
	}

	pass := true
	for _, ok := range criteria {
		if !ok {
			pass = false
			break
		}
	}

	return Verdict{Criteria: criteria, Pass: pass}
}

func checkLimit(limits Limits, name string, value float64) bool {
	lp, ok := limits[name]
	if !ok {
		return false
	}
	return lp.Contains(value)
}
