package parser

// Sample is a single acquisition point from a two-channel capture.
// TimeMs is the acquisition time in milliseconds (the instrument exports
// seconds; the parser scales on read). Ch1 is the voltage channel in volts,
// Ch2 the current channel in amperes.
type Sample struct {
	TimeMs float64
	Ch1    float64
	Ch2    float64
}

// Waveform is the validated, ordered sample sequence produced by
// ParseWaveform. The order is the acquisition order and must not be
// re-sorted. Samples may be empty when the header was found but no usable
// data rows followed; callers must treat that as a distinct "no usable
// data" condition rather than an error.
type Waveform struct {
	Samples     []Sample
	ParseErrors []string // Non-fatal problems encountered while parsing rows.
}

// NewWaveform returns an empty waveform ready to be filled by the parser.
func NewWaveform() *Waveform {
	return &Waveform{
		Samples:     make([]Sample, 0),
		ParseErrors: make([]string, 0),
	}
}

// Len returns the number of parsed samples.
func (w *Waveform) Len() int {
	return len(w.Samples)
}
