package analysis

import "math"

const (
	// ringdownMinSamples is the minimum capture length for a decay
	// estimate; shorter captures legitimately lack a decay tail.
	ringdownMinSamples = 50
	// ringdownTailGuard rejects peaks inside the last samples of the
	// capture, where no room for a decay tail remains.
	ringdownTailGuard = 20
	// ringdownWindowLen is the maximum decay window taken after the peak.
	ringdownWindowLen = 100
)

// EstimateRingdown estimates the post-peak decay of the CH1 value
// sequence. It locates the sample with the largest absolute value, takes
// a window of up to 100 samples from there, and derives:
//
//	RingdownVoltageMv = (|first| - |last|) * 1000
//	DecayConstant     = ln(initial/final) / len(window)
//
// The decay constant is a two-point exponential estimate over the fixed
// window, not a least-squares fit. Downstream limits are calibrated
// against this exact formula, so it must not be swapped for a regression
// without versioning the algorithm.
//
// Captures shorter than 50 samples, peaks within the last 20 samples, and
// windows whose amplitudes do not satisfy initial > final > 0 all yield
// the zero sentinel (never NaN, never an error).
func EstimateRingdown(values []float64) RingdownResult {
	if len(values) < ringdownMinSamples {
		return RingdownResult{}
	}

	maxIdx := 0
	maxAbs := math.Abs(values[0])
	for i, v := range values[1:] {
		if abs := math.Abs(v); abs > maxAbs {
			maxAbs = abs
			maxIdx = i + 1
		}
	}

	if maxIdx >= len(values)-ringdownTailGuard {
		return RingdownResult{}
	}

	end := maxIdx + ringdownWindowLen
	if end > len(values) {
		end = len(values)
	}
	window := values[maxIdx:end]

	initialAmp := math.Abs(window[0])
	finalAmp := math.Abs(window[len(window)-1])

	result := RingdownResult{
		RingdownVoltageMv: (initialAmp - finalAmp) * 1000,
	}
	if initialAmp > finalAmp && finalAmp > 0 {
		result.DecayConstant = math.Log(initialAmp/finalAmp) / float64(len(window))
	}
	return result
}
