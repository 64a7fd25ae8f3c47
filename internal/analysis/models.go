package analysis

import "github.com/user/osc_analyzer_go/internal/parser"

// ChannelStats holds the per-channel statistics for one analysis run.
//
// Units are asymmetric by contract: CH1 is a small voltage signal, so its
// PeakToPeak and Noise are reported in millivolts, while CH2 is a current
// signal reported in its native unit (amperes) throughout. Mean and Noise
// are only computed for CH1 and stay zero for CH2.
type ChannelStats struct {
	Min        float64
	Max        float64
	PeakToPeak float64 // CH1: millivolts; CH2: amperes.
	RMS        float64
	Mean       float64 // CH1 only.
	Noise      float64 // CH1 only; population std dev in millivolts.
}

// TriggerEvent is one rising-edge crossing of abs(CH2) through the
// trigger threshold. Current keeps the signed channel value at the
// crossing sample.
type TriggerEvent struct {
	TimeMs  float64
	Index   int
	Current float64
}

// RingdownResult describes the post-peak decay of CH1. The zero value is
// the sentinel for captures with no usable decay tail; it is a valid
// result, never an error.
type RingdownResult struct {
	RingdownVoltageMv float64
	DecayConstant     float64
}

// Metadata describes the capture as a whole.
type Metadata struct {
	DataPoints   int
	SampleRateHz float64
	DurationMs   float64
	TimeStartMs  float64
	TimeEndMs    float64
}

// Result aggregates everything derived from one capture. It is created
// once per pipeline run and is read-only afterward; the raw samples and
// trigger events are exposed unmodified so a renderer can slice them
// without re-deriving anything.
type Result struct {
	Samples          []parser.Sample
	Ch1              ChannelStats
	Ch2              ChannelStats
	TriggerThreshold float64
	TriggerEvents    []TriggerEvent
	Ringdown         RingdownResult
	Meta             Metadata
}

// Fields flattens the result into named numeric fields suitable for
// storage by a persistence collaborator. The core does not perform
// storage itself.
func (r *Result) Fields() map[string]float64 {
	return map[string]float64{
		"ch1_min_v":           r.Ch1.Min,
		"ch1_max_v":           r.Ch1.Max,
		"peak_to_peak_mv":     r.Ch1.PeakToPeak,
		"ch1_rms_v":           r.Ch1.RMS,
		"ch1_mean_v":          r.Ch1.Mean,
		"noise_mv":            r.Ch1.Noise,
		"ch2_min_a":           r.Ch2.Min,
		"ch2_max_a":           r.Ch2.Max,
		"ch2_peak_to_peak_a":  r.Ch2.PeakToPeak,
		"ch2_rms_a":           r.Ch2.RMS,
		"trigger_threshold_a": r.TriggerThreshold,
		"trigger_events":      float64(len(r.TriggerEvents)),
		"ringdown_voltage_mv": r.Ringdown.RingdownVoltageMv,
		"decay_constant":      r.Ringdown.DecayConstant,
		"data_points":         float64(r.Meta.DataPoints),
		"sample_rate_hz":      r.Meta.SampleRateHz,
		"duration_ms":         r.Meta.DurationMs,
		"time_start_ms":       r.Meta.TimeStartMs,
		"time_end_ms":         r.Meta.TimeEndMs,
	}
}

// ZoomSlice converts a percentage-based zoom range into sample indices
// [start, end) over the raw sequence. Renderers use this to show a
// portion of the capture without copying or re-deriving the samples.
func (r *Result) ZoomSlice(startPct, endPct int) (start, end int) {
	n := len(r.Samples)
	start = n * startPct / 100
	end = n * endPct / 100
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}
