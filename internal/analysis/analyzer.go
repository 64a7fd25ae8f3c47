package analysis

import (
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/osc_analyzer_go/internal/parser"
)

// AnalyzeCapture parses raw CSV capture text and runs the analysis
// pipeline in one call. It fails only on structural parse errors (no
// data header); a header with no usable rows still produces a result.
func AnalyzeCapture(r io.Reader, triggerThreshold float64) (*Result, error) {
	waveform, err := parser.ParseWaveform(r)
	if err != nil {
		return nil, err
	}
	return Analyze(waveform, triggerThreshold), nil
}

// Analyze runs the full analysis pipeline over one parsed waveform:
// per-channel statistics, capture metadata, trigger detection on CH2 and
// ringdown estimation on CH1. The stages are independent and run in
// sequence over the same immutable sample slice.
//
// Analyze never returns a partial result. It holds no shared state, so it
// may be called from any goroutine. An empty waveform yields a well-typed
// zero result (DataPoints == 0, SampleRateHz == 0), not an error; an
// empty-but-valid capture is a normal outcome for header-only exports.
func Analyze(waveform *parser.Waveform, triggerThreshold float64) *Result {
	result := &Result{
		Samples:          waveform.Samples,
		TriggerThreshold: triggerThreshold,
		TriggerEvents:    make([]TriggerEvent, 0),
	}
	if len(waveform.Samples) == 0 {
		return result
	}

	times, ch1, ch2 := channelValues(waveform.Samples)

	result.Ch1 = computeChannelStats(ch1)
	// CH1 is a small voltage signal: peak-to-peak is reported in mV, and
	// mean/noise are computed for it alone. Noise is the population
	// standard deviation scaled to mV.
	result.Ch1.PeakToPeak *= 1000
	result.Ch1.Mean = stat.Mean(ch1, nil)
	result.Ch1.Noise = stat.PopStdDev(ch1, nil) * 1000

	// CH2 is a current signal and stays in its native unit.
	result.Ch2 = computeChannelStats(ch2)

	result.TriggerEvents = DetectTriggers(waveform.Samples, triggerThreshold)
	result.Ringdown = EstimateRingdown(ch1)
	result.Meta = computeMetadata(times)

	return result
}

// channelValues splits the sample sequence into per-channel value slices.
func channelValues(samples []parser.Sample) (times, ch1, ch2 []float64) {
	times = make([]float64, len(samples))
	ch1 = make([]float64, len(samples))
	ch2 = make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.TimeMs
		ch1[i] = s.Ch1
		ch2[i] = s.Ch2
	}
	return times, ch1, ch2
}

// computeChannelStats calculates min, max, peak-to-peak and RMS over one
// channel's values. Peak-to-peak is max-min and therefore never negative.
// The caller applies any unit scaling.
func computeChannelStats(values []float64) ChannelStats {
	if len(values) == 0 {
		return ChannelStats{}
	}
	minVal := floats.Min(values)
	maxVal := floats.Max(values)
	return ChannelStats{
		Min:        minVal,
		Max:        maxVal,
		PeakToPeak: maxVal - minVal,
		RMS:        math.Sqrt(floats.Dot(values, values) / float64(len(values))),
	}
}

// computeMetadata derives capture-wide metadata from the time values.
// A single-sample or zero-duration capture yields SampleRateHz == 0 and
// DurationMs == 0; that is a valid result, not an error, so the rate
// calculation guards the division explicitly.
func computeMetadata(times []float64) Metadata {
	meta := Metadata{DataPoints: len(times)}
	if len(times) == 0 {
		return meta
	}

	meta.TimeStartMs = floats.Min(times)
	meta.TimeEndMs = floats.Max(times)
	meta.DurationMs = meta.TimeEndMs - meta.TimeStartMs

	if len(times) > 1 && meta.DurationMs > 0 {
		meta.SampleRateHz = float64(len(times)) / (meta.DurationMs / 1000)
	}
	return meta
}
