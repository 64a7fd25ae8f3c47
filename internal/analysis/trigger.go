package analysis

import (
	"math"

	"github.com/user/osc_analyzer_go/internal/parser"
)

// triggerState is the hysteresis state of the trigger detector. The
// detector only re-arms after the magnitude falls back to or below the
// threshold, so a signal sitting above the threshold cannot re-trigger.
type triggerState int

const (
	stateBelowOrAt triggerState = iota
	stateAbove
)

// DetectTriggers scans the sample sequence in order and emits one
// TriggerEvent for every rising-edge crossing of abs(CH2) through
// threshold: the previous sample's magnitude must be <= threshold and the
// current sample's magnitude > threshold. The falling transition back to
// <= threshold re-arms the detector silently.
//
// The scan starts at the second sample (the comparison needs a previous
// sample), so index 0 never produces an event. A signal that never
// crosses the threshold yields an empty slice, not an error. Event times
// are strictly increasing because samples are visited in acquisition
// order and each event consumes the rising transition.
func DetectTriggers(samples []parser.Sample, threshold float64) []TriggerEvent {
	events := make([]TriggerEvent, 0)
	state := stateBelowOrAt

	for i := 1; i < len(samples); i++ {
		prevMag := math.Abs(samples[i-1].Ch2)
		currMag := math.Abs(samples[i].Ch2)

		switch state {
		case stateBelowOrAt:
			if prevMag <= threshold && currMag > threshold {
				events = append(events, TriggerEvent{
					TimeMs:  samples[i].TimeMs,
					Index:   i,
					Current: samples[i].Ch2,
				})
				state = stateAbove
			}
		case stateAbove:
			if currMag <= threshold {
				state = stateBelowOrAt
			}
		}
	}

	return events
}
