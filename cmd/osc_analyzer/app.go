package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/user/osc_analyzer_go/internal/analysis"
	"github.com/user/osc_analyzer_go/internal/evaluation"
	"github.com/user/osc_analyzer_go/internal/export"
	"github.com/user/osc_analyzer_go/internal/parser"
	"github.com/user/osc_analyzer_go/internal/report"
)

// Options collects everything one analysis run needs.
type Options struct {
	CSVPath        string
	TestType       string
	TriggerCurrent float64
	CatalogPath    string
	LimitsPath     string
	ZoomStart      int
	ZoomEnd        int
	PDFPath        string
	RecordPath     string
	TestNumber     string
	TestBench      string
	TesterID       string
	TestFunction   string
}

// App drives one capture through the pipeline: parse, analyze, evaluate,
// then emit the requested artifacts.
type App struct {
	log *zap.Logger
}

// NewApp creates a new App.
func NewApp(log *zap.Logger) *App {
	return &App{log: log}
}

// Run executes the full pipeline for the given options. Structural
// failures (unreadable file, missing header, unknown test type) abort the
// run; an empty-but-valid capture still produces a result and a verdict.
func (a *App) Run(opts Options) error {
	catalog := evaluation.DefaultCatalog()
	if opts.CatalogPath != "" {
		var err error
		if catalog, err = evaluation.LoadCatalog(opts.CatalogPath); err != nil {
			return err
		}
	}
	cfg, err := catalog.Find(opts.TestType)
	if err != nil {
		return err
	}

	limits := evaluation.DefaultLimits()
	if opts.LimitsPath != "" {
		if limits, err = evaluation.LoadLimits(opts.LimitsPath); err != nil {
			return err
		}
	}

	a.log.Info("parsing capture", zap.String("file", opts.CSVPath))
	waveform, err := parser.ParseWaveformFile(opts.CSVPath)
	if err != nil {
		return err
	}
	for _, msg := range waveform.ParseErrors {
		a.log.Warn("skipped row", zap.String("reason", msg))
	}
	if waveform.Len() == 0 {
		a.log.Warn("capture contains no usable data rows")
	}

	result := a.runAnalysis(waveform, opts.TriggerCurrent)
	verdict := evaluation.Evaluate(result, limits, opts.TriggerCurrent, cfg.HasRingdown)

	a.printSummary(result, verdict)

	if opts.PDFPath != "" {
		if err := a.writeReport(opts, cfg, result, limits, verdict); err != nil {
			return err
		}
		a.log.Info("report written", zap.String("path", opts.PDFPath))
	}

	if opts.RecordPath != "" {
		if err := a.writeRecord(opts, cfg, result, limits, verdict); err != nil {
			return err
		}
		a.log.Info("record written", zap.String("path", opts.RecordPath))
	}

	return nil
}

// runAnalysis executes the analysis pipeline on a background goroutine
// and reports coarse progress. The pipeline itself holds no shared state,
// so offloading it is safe; it either returns a fully-formed result or
// nothing.
func (a *App) runAnalysis(waveform *parser.Waveform, triggerCurrent float64) *analysis.Result {
	a.log.Info("analyzing", zap.Int("data_points", waveform.Len()),
		zap.Float64("trigger_current_a", triggerCurrent))

	done := make(chan *analysis.Result, 1)
	go func() {
		done <- analysis.Analyze(waveform, triggerCurrent)
	}()
	result := <-done

	a.log.Info("analysis complete",
		zap.Int("trigger_events", len(result.TriggerEvents)),
		zap.Float64("sample_rate_hz", result.Meta.SampleRateHz))
	return result
}

func (a *App) printSummary(result *analysis.Result, verdict evaluation.Verdict) {
	fmt.Printf("CHANNEL 1 (Voltage):\n")
	fmt.Printf("  Peak-to-Peak: %.3f mV\n", result.Ch1.PeakToPeak)
	fmt.Printf("  Min/Max: %.3f / %.3f V\n", result.Ch1.Min, result.Ch1.Max)
	fmt.Printf("  RMS: %.3f V\n", result.Ch1.RMS)
	fmt.Printf("  Noise: %.3f mV\n", result.Ch1.Noise)
	fmt.Printf("  Ringdown: %.3f mV\n", result.Ringdown.RingdownVoltageMv)
	fmt.Printf("\nCHANNEL 2 (Current):\n")
	fmt.Printf("  Peak-to-Peak: %.3f A\n", result.Ch2.PeakToPeak)
	fmt.Printf("  Min/Max: %.3f / %.3f A\n", result.Ch2.Min, result.Ch2.Max)
	fmt.Printf("  RMS: %.3f A\n", result.Ch2.RMS)
	fmt.Printf("\nTRIGGER ANALYSIS:\n")
	fmt.Printf("  Threshold: %.1f A\n", result.TriggerThreshold)
	fmt.Printf("  Events: %d\n", len(result.TriggerEvents))
	fmt.Printf("\nMETADATA:\n")
	fmt.Printf("  Data Points: %d\n", result.Meta.DataPoints)
	fmt.Printf("  Sample Rate: %.1f Hz\n", result.Meta.SampleRateHz)
	fmt.Printf("  Duration: %.3f ms\n", result.Meta.DurationMs)

	fmt.Printf("\nCRITERIA:\n")
	for _, name := range []string{
		evaluation.CriterionPeakToPeak,
		evaluation.CriterionTriggerCurrent,
		evaluation.CriterionNoise,
		evaluation.CriterionRingdown,
	} {
		status := "FAIL"
		if verdict.Criteria[name] {
			status = "PASS"
		}
		fmt.Printf("  %-16s %s\n", name+":", status)
	}
	if verdict.Pass {
		fmt.Printf("\nStatus: PASS\n")
	} else {
		fmt.Printf("\nStatus: FAIL\n")
	}
}

func (a *App) writeReport(opts Options, cfg evaluation.TestTypeConfig, result *analysis.Result,
	limits evaluation.Limits, verdict evaluation.Verdict) error {

	plotImages := make(map[string][]byte)
	plotDefs := []struct {
		Key     string
		Channel report.Channel
	}{
		{"ch1", report.ChannelVoltage},
		{"ch2", report.ChannelCurrent},
	}
	for _, pDef := range plotDefs {
		imgBytes, err := report.CreateWaveformPlot(result, pDef.Channel, opts.ZoomStart, opts.ZoomEnd)
		if err != nil {
			// A plot that cannot be rendered (e.g. empty capture) is
			// reported as missing rather than aborting the report.
			a.log.Warn("plot not generated", zap.String("plot", pDef.Key), zap.Error(err))
			continue
		}
		plotImages[pDef.Key] = imgBytes
	}

	info := report.ReportInfo{
		FileName:     filepath.Base(opts.CSVPath),
		TestNumber:   opts.TestNumber,
		TestBench:    opts.TestBench,
		TesterID:     opts.TesterID,
		TestFunction: opts.TestFunction,
	}
	return report.BuildPDFReport(opts.PDFPath, info, cfg, result, limits,
		opts.TriggerCurrent, verdict, plotImages)
}

func (a *App) writeRecord(opts Options, cfg evaluation.TestTypeConfig, result *analysis.Result,
	limits evaluation.Limits, verdict evaluation.Verdict) error {

	rec := export.NewRecord(filepath.Base(opts.CSVPath), cfg, result, limits, verdict)
	rec.TestNumber = opts.TestNumber
	rec.TestBench = opts.TestBench
	rec.TesterID = opts.TesterID
	rec.TestFunction = opts.TestFunction

	file, err := os.Create(opts.RecordPath)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}
	if err := export.WriteCSV(file, []export.Record{rec}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
