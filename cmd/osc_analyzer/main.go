package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	opts := Options{}

	flag.StringVar(&opts.CSVPath, "csv", "", "oscilloscope CSV capture to analyze (required)")
	flag.StringVar(&opts.TestType, "test-type", "DTT", "test type from the catalog")
	flag.Float64Var(&opts.TriggerCurrent, "trigger-current", 1.0, "trigger current threshold in amperes")
	flag.StringVar(&opts.CatalogPath, "catalog", "", "test-type catalog YAML (default: built-in catalog)")
	flag.StringVar(&opts.LimitsPath, "limits", "", "specification limits YAML (default: built-in limits)")
	flag.IntVar(&opts.ZoomStart, "zoom-start", 0, "plot zoom start, percent of capture")
	flag.IntVar(&opts.ZoomEnd, "zoom-end", 100, "plot zoom end, percent of capture")
	flag.StringVar(&opts.PDFPath, "pdf", "", "write a PDF report to this path")
	flag.StringVar(&opts.RecordPath, "record", "", "write a flat CSV analysis record to this path")
	flag.StringVar(&opts.TestNumber, "test-number", "", "test number for the report/record")
	flag.StringVar(&opts.TestBench, "test-bench", "", "test bench for the report/record")
	flag.StringVar(&opts.TesterID, "tester-id", "", "tester ID for the report/record")
	flag.StringVar(&opts.TestFunction, "test-function", "Performance test", "test function label")
	verbose := flag.Bool("verbose", false, "verbose logging")
	flag.Parse()

	if opts.CSVPath == "" {
		fmt.Fprintln(os.Stderr, "error: -csv is required")
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := NewApp(logger)
	if err := app.Run(opts); err != nil {
		logger.Error("analysis failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
