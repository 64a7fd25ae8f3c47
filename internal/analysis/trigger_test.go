package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/osc_analyzer_go/internal/parser"
)

// currentTrace builds a sample sequence with the given CH2 values, one
// millisecond apart.
func currentTrace(ch2 ...float64) []parser.Sample {
	samples := make([]parser.Sample, len(ch2))
	for i, v := range ch2 {
		samples[i] = parser.Sample{TimeMs: float64(i), Ch2: v}
	}
	return samples
}

func TestDetectTriggersRisingEdges(t *testing.T) {
	samples := currentTrace(0, 2, 0.5, 3, 0.2)
	events := DetectTriggers(samples, 1.0)

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Index)
	assert.InDelta(t, 2.0, events[0].Current, 1e-12)
	assert.Equal(t, 3, events[1].Index)
	assert.InDelta(t, 3.0, events[1].Current, 1e-12)
}

func TestDetectTriggersHysteresis(t *testing.T) {
	// While the magnitude stays above threshold the detector must not
	// re-trigger; it re-arms only after falling back to <= threshold.
	samples := currentTrace(0, 2, 3, 4, 5, 0.5, 2)
	events := DetectTriggers(samples, 1.0)

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, 6, events[1].Index)

	// Between consecutive events there is at least one sample at or below
	// the threshold.
	for i := 1; i < len(events); i++ {
		foundRearm := false
		for j := events[i-1].Index; j < events[i].Index; j++ {
			if math.Abs(samples[j].Ch2) <= 1.0 {
				foundRearm = true
				break
			}
		}
		assert.True(t, foundRearm, "no re-arm sample between events %d and %d", i-1, i)
	}
}

func TestDetectTriggersNoEventAtIndexZero(t *testing.T) {
	// The first sample has no predecessor, so even a signal that starts
	// above threshold produces no event until it falls and rises again.
	samples := currentTrace(5, 5, 5, 5)
	events := DetectTriggers(samples, 1.0)
	assert.Empty(t, events)
}

func TestDetectTriggersThresholdBoundary(t *testing.T) {
	// Crossing requires prev <= threshold and curr strictly > threshold.
	assert.Empty(t, DetectTriggers(currentTrace(0.5, 1.0), 1.0))

	events := DetectTriggers(currentTrace(1.0, 1.1), 1.0)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Index)
}

func TestDetectTriggersNegativeCurrent(t *testing.T) {
	// Detection is on magnitude; the event keeps the signed value.
	events := DetectTriggers(currentTrace(0, -2.5), 1.0)
	require.Len(t, events, 1)
	assert.InDelta(t, -2.5, events[0].Current, 1e-12)
}

func TestDetectTriggersNeverCrossing(t *testing.T) {
	events := DetectTriggers(currentTrace(0.1, 0.3, 0.2, 0.4), 1.0)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestDetectTriggersDeterministic(t *testing.T) {
	samples := currentTrace(0, 2, 0.5, 3, 0.2, 4, 0.1)
	first := DetectTriggers(samples, 1.0)
	second := DetectTriggers(samples, 1.0)
	assert.Equal(t, first, second)
}

func TestDetectTriggersStrictlyIncreasingTimes(t *testing.T) {
	samples := currentTrace(0, 2, 0.5, 3, 0.4, 5, 0.2, 6)
	events := DetectTriggers(samples, 1.0)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].TimeMs, events[i-1].TimeMs)
	}
}
