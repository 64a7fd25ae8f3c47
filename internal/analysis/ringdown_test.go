package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decayTrace builds n samples of an exponential decay exp(-rate*i).
func decayTrace(n int, rate float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Exp(-rate * float64(i))
	}
	return values
}

func TestEstimateRingdownShortCapture(t *testing.T) {
	// Fewer than 50 samples always yields the zero sentinel.
	assert.Zero(t, EstimateRingdown(nil))
	assert.Zero(t, EstimateRingdown(decayTrace(49, 0.05)))
}

func TestEstimateRingdownDecay(t *testing.T) {
	values := decayTrace(60, 0.05)
	result := EstimateRingdown(values)

	// Peak at index 0; window covers the whole 60-sample capture.
	initial := values[0]
	final := values[59]
	assert.InDelta(t, (initial-final)*1000, result.RingdownVoltageMv, 1e-9)

	// Exact two-point formula, not a fit.
	want := math.Log(initial/final) / 60
	require.Greater(t, result.DecayConstant, 0.0)
	assert.InDelta(t, want, result.DecayConstant, 1e-12)
}

func TestEstimateRingdownWindowClip(t *testing.T) {
	// With more than 100 samples after the peak, the window is clipped to
	// 100 samples.
	values := decayTrace(300, 0.01)
	result := EstimateRingdown(values)

	initial := values[0]
	final := values[99]
	assert.InDelta(t, (initial-final)*1000, result.RingdownVoltageMv, 1e-9)
	assert.InDelta(t, math.Log(initial/final)/100, result.DecayConstant, 1e-12)
}

func TestEstimateRingdownPeakNearEnd(t *testing.T) {
	// A peak within the last 20 samples leaves no room for a decay tail.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 0.1
	}
	values[45] = 2.0
	assert.Zero(t, EstimateRingdown(values))
}

func TestEstimateRingdownFlatSignal(t *testing.T) {
	// initial == final: voltage drop is zero and the decay constant stays
	// at the sentinel (the formula requires initial > final > 0).
	values := make([]float64, 80)
	for i := range values {
		values[i] = 1.0
	}
	result := EstimateRingdown(values)
	assert.Zero(t, result.RingdownVoltageMv)
	assert.Zero(t, result.DecayConstant)
}

func TestEstimateRingdownDecayToZero(t *testing.T) {
	// final == 0 would make the log blow up; the constant must stay 0
	// while the voltage drop is still reported.
	values := make([]float64, 120)
	values[0] = 1.0
	result := EstimateRingdown(values)

	assert.InDelta(t, 1000.0, result.RingdownVoltageMv, 1e-9)
	assert.Zero(t, result.DecayConstant)
}

func TestEstimateRingdownNegativePeak(t *testing.T) {
	// The peak is located by absolute value; amplitudes are magnitudes.
	values := decayTrace(60, 0.05)
	for i := range values {
		values[i] = -values[i]
	}
	result := EstimateRingdown(values)

	initial := math.Abs(values[0])
	final := math.Abs(values[59])
	assert.InDelta(t, (initial-final)*1000, result.RingdownVoltageMv, 1e-9)
	assert.InDelta(t, math.Log(initial/final)/60, result.DecayConstant, 1e-12)
}

func TestEstimateRingdownFirstPeakWins(t *testing.T) {
	// Two samples share the maximum magnitude; the window starts at the
	// first occurrence.
	values := decayTrace(120, 0.02)
	values[10] = values[0] // duplicate of the peak value further in
	result := EstimateRingdown(values)

	final := values[99] // window still anchored at index 0
	assert.InDelta(t, math.Log(values[0]/final)/100, result.DecayConstant, 1e-12)
}
