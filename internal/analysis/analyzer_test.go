package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/osc_analyzer_go/internal/parser"
)

func exampleWaveform() *parser.Waveform {
	return &parser.Waveform{Samples: []parser.Sample{
		{TimeMs: 0, Ch1: 0.10, Ch2: 0.0},
		{TimeMs: 1, Ch1: 0.30, Ch2: 2.0},
		{TimeMs: 2, Ch1: 0.05, Ch2: 0.5},
	}}
}

func TestAnalyzeExampleCapture(t *testing.T) {
	result := Analyze(exampleWaveform(), 1.0)

	// CH1 peak-to-peak is reported in millivolts.
	assert.InDelta(t, 250.0, result.Ch1.PeakToPeak, 1e-9)
	assert.InDelta(t, 0.05, result.Ch1.Min, 1e-12)
	assert.InDelta(t, 0.30, result.Ch1.Max, 1e-12)

	// CH2 stays in amperes.
	assert.InDelta(t, 2.0, result.Ch2.PeakToPeak, 1e-12)

	require.Len(t, result.TriggerEvents, 1)
	assert.InDelta(t, 1.0, result.TriggerEvents[0].TimeMs, 1e-12)
	assert.Equal(t, 1, result.TriggerEvents[0].Index)
	assert.InDelta(t, 2.0, result.TriggerEvents[0].Current, 1e-12)

	assert.Equal(t, 3, result.Meta.DataPoints)
	assert.InDelta(t, 2.0, result.Meta.DurationMs, 1e-12)
	assert.InDelta(t, 1500.0, result.Meta.SampleRateHz, 1e-9)
}

func TestAnalyzeChannelStatistics(t *testing.T) {
	result := Analyze(exampleWaveform(), 1.0)

	// RMS = sqrt(mean(v^2)) per channel.
	wantCh1RMS := math.Sqrt((0.10*0.10 + 0.30*0.30 + 0.05*0.05) / 3)
	wantCh2RMS := math.Sqrt((0.0 + 2.0*2.0 + 0.5*0.5) / 3)
	assert.InDelta(t, wantCh1RMS, result.Ch1.RMS, 1e-12)
	assert.InDelta(t, wantCh2RMS, result.Ch2.RMS, 1e-12)

	// CH1 mean, and noise as population std dev scaled to mV.
	mean := (0.10 + 0.30 + 0.05) / 3
	variance := ((0.10-mean)*(0.10-mean) + (0.30-mean)*(0.30-mean) + (0.05-mean)*(0.05-mean)) / 3
	assert.InDelta(t, mean, result.Ch1.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(variance)*1000, result.Ch1.Noise, 1e-9)

	// Mean and noise are a CH1-only contract.
	assert.Zero(t, result.Ch2.Mean)
	assert.Zero(t, result.Ch2.Noise)
}

func TestAnalyzePeakToPeakNonNegative(t *testing.T) {
	waveform := &parser.Waveform{Samples: []parser.Sample{
		{TimeMs: 0, Ch1: -0.4, Ch2: -3.0},
		{TimeMs: 1, Ch1: -0.1, Ch2: -1.0},
		{TimeMs: 2, Ch1: -0.9, Ch2: -2.0},
	}}
	result := Analyze(waveform, 1.0)

	assert.GreaterOrEqual(t, result.Ch1.PeakToPeak, 0.0)
	assert.GreaterOrEqual(t, result.Ch2.PeakToPeak, 0.0)
	assert.InDelta(t, 800.0, result.Ch1.PeakToPeak, 1e-9) // (-0.1 - -0.9) * 1000
	assert.InDelta(t, 2.0, result.Ch2.PeakToPeak, 1e-12)
}

func TestAnalyzeEmptyWaveform(t *testing.T) {
	result := Analyze(parser.NewWaveform(), 1.0)

	assert.Equal(t, 0, result.Meta.DataPoints)
	assert.Zero(t, result.Meta.SampleRateHz)
	assert.Zero(t, result.Meta.DurationMs)
	assert.Empty(t, result.TriggerEvents)
	assert.Zero(t, result.Ch1)
	assert.Zero(t, result.Ringdown)
}

func TestAnalyzeSingleSample(t *testing.T) {
	waveform := &parser.Waveform{Samples: []parser.Sample{{TimeMs: 5, Ch1: 0.2, Ch2: 1.5}}}
	result := Analyze(waveform, 1.0)

	// A zero-duration capture is a valid result with a guarded rate.
	assert.Equal(t, 1, result.Meta.DataPoints)
	assert.Zero(t, result.Meta.DurationMs)
	assert.Zero(t, result.Meta.SampleRateHz)
	assert.Zero(t, result.Ch1.PeakToPeak)
	assert.Zero(t, result.Ch1.Noise)
	assert.Empty(t, result.TriggerEvents)
}

func TestAnalyzeCapture(t *testing.T) {
	input := "TIME,CH1,CH2\n0.000,0.10,0.0\n0.001,0.30,2.0\n0.002,0.05,0.5\n"

	result, err := AnalyzeCapture(strings.NewReader(input), 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, result.Ch1.PeakToPeak, 1e-9)
	assert.Len(t, result.TriggerEvents, 1)

	_, err = AnalyzeCapture(strings.NewReader("no header here\n"), 1.0)
	require.ErrorIs(t, err, parser.ErrHeaderNotFound)
}

func TestResultFields(t *testing.T) {
	result := Analyze(exampleWaveform(), 1.0)
	fields := result.Fields()

	assert.InDelta(t, 250.0, fields["peak_to_peak_mv"], 1e-9)
	assert.InDelta(t, 2.0, fields["ch2_peak_to_peak_a"], 1e-12)
	assert.InDelta(t, 1.0, fields["trigger_events"], 1e-12)
	assert.InDelta(t, 1.0, fields["trigger_threshold_a"], 1e-12)
	assert.InDelta(t, 3.0, fields["data_points"], 1e-12)
	assert.InDelta(t, 1500.0, fields["sample_rate_hz"], 1e-9)
	assert.Contains(t, fields, "noise_mv")
	assert.Contains(t, fields, "ringdown_voltage_mv")
	assert.Contains(t, fields, "decay_constant")
}

func TestResultZoomSlice(t *testing.T) {
	samples := make([]parser.Sample, 200)
	for i := range samples {
		samples[i] = parser.Sample{TimeMs: float64(i)}
	}
	result := Analyze(&parser.Waveform{Samples: samples}, 1.0)

	start, end := result.ZoomSlice(0, 100)
	assert.Equal(t, 0, start)
	assert.Equal(t, 200, end)

	start, end = result.ZoomSlice(25, 75)
	assert.Equal(t, 50, start)
	assert.Equal(t, 150, end)

	// Degenerate ranges clamp instead of slicing out of bounds.
	start, end = result.ZoomSlice(90, 10)
	assert.Equal(t, start, end)
}
