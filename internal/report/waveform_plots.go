package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/osc_analyzer_go/internal/analysis"
	"github.com/user/osc_analyzer_go/internal/parser"
)

// Channel selects which trace CreateWaveformPlot renders.
type Channel int

const (
	ChannelVoltage Channel = 1 // CH1, volts
	ChannelCurrent Channel = 2 // CH2, amperes
)

// CreateWaveformPlot renders one channel of the capture as a PNG image.
// The zoom range is percentage-based over the sample indices, matching
// the slice the analysis result exposes for renderers. The current trace
// additionally shows the +/- trigger threshold as dashed lines and marks
// every trigger event; the analysis result is consumed read-only.
func CreateWaveformPlot(result *analysis.Result, channel Channel, zoomStartPct, zoomEndPct int) ([]byte, error) {
	start, end := result.ZoomSlice(zoomStartPct, zoomEndPct)
	if end <= start {
		return nil, fmt.Errorf("no samples to plot in zoom range %d%%-%d%%", zoomStartPct, zoomEndPct)
	}
	window := result.Samples[start:end]

	p := plot.New()
	p.X.Label.Text = "Time (ms)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(window))
	for i, s := range window {
		pts[i].X = s.TimeMs
		switch channel {
		case ChannelVoltage:
			pts[i].Y = s.Ch1
		case ChannelCurrent:
			pts[i].Y = s.Ch2
		default:
			return nil, fmt.Errorf("unknown channel: %d", channel)
		}
	}

	trace, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create waveform line: %w", err)
	}
	trace.LineStyle.Width = vg.Points(1)

	switch channel {
	case ChannelVoltage:
		p.Title.Text = "Channel 1 - Voltage"
		p.Y.Label.Text = "Voltage (V)"
		trace.Color = color.RGBA{G: 160, A: 255}
		p.Add(trace)
		p.Legend.Add("CH1 (Voltage)", trace)

	case ChannelCurrent:
		p.Title.Text = "Channel 2 - Current"
		p.Y.Label.Text = "Current (A)"
		trace.Color = color.RGBA{B: 255, A: 255}
		p.Add(trace)
		p.Legend.Add("CH2 (Current)", trace)

		if err := addThresholdLines(p, window, result.TriggerThreshold); err != nil {
			return nil, err
		}
		if err := addTriggerMarkers(p, result, start, end); err != nil {
			return nil, err
		}
	}

	p.Legend.Top = true

	writer, err := p.WriterTo(vg.Points(800), vg.Points(300), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// addThresholdLines draws the +/- trigger threshold as dashed horizontal
// lines across the visible time window.
func addThresholdLines(p *plot.Plot, window []parser.Sample, threshold float64) error {
	tStart := window[0].TimeMs
	tEnd := window[len(window)-1].TimeMs

	for i, level := range []float64{threshold, -threshold} {
		line, err := plotter.NewLine(plotter.XYs{{X: tStart, Y: level}, {X: tEnd, Y: level}})
		if err != nil {
			return fmt.Errorf("failed to create threshold line: %w", err)
		}
		line.Color = color.RGBA{R: 220, A: 255}
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
		if i == 0 {
			p.Legend.Add(fmt.Sprintf("Trigger +/-%.1fA", threshold), line)
		}
	}
	return nil
}

// addTriggerMarkers marks the trigger events that fall inside the visible
// index range.
func addTriggerMarkers(p *plot.Plot, result *analysis.Result, start, end int) error {
	pts := make(plotter.XYs, 0, len(result.TriggerEvents))
	for _, ev := range result.TriggerEvents {
		if ev.Index >= start && ev.Index < end {
			pts = append(pts, plotter.XY{X: ev.TimeMs, Y: ev.Current})
		}
	}
	if len(pts) == 0 {
		return nil
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to create trigger markers: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 255, G: 165, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add("Trigger events", scatter)
	return nil
}
