// Package export turns completed analyses into flat records a storage
// collaborator can keep. The analysis core exposes named numeric fields;
// this package adds the test metadata and verdict and writes everything
// as CSV rows. It deliberately knows nothing about any database.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/user/osc_analyzer_go/internal/analysis"
	"github.com/user/osc_analyzer_go/internal/evaluation"
)

// Record is one stored analysis: identifying metadata, the flat numeric
// fields from the analysis result, the limits that were applied and the
// verdict.
type Record struct {
	FileName     string
	TestType     string
	TestNumber   string
	TestBench    string
	TesterID     string
	TestFunction string
	AnalyzedAt   time.Time
	Fields       map[string]float64
	Limits       evaluation.Limits
	Verdict      evaluation.Verdict
}

// NewRecord assembles a record from a completed analysis run.
func NewRecord(fileName string, cfg evaluation.TestTypeConfig, result *analysis.Result,
	limits evaluation.Limits, verdict evaluation.Verdict) Record {
	return Record{
		FileName:   fileName,
		TestType:   cfg.Name,
		AnalyzedAt: time.Now(),
		Fields:     result.Fields(),
		Limits:     limits,
		Verdict:    verdict,
	}
}

// metaHeader is the fixed leading column set of an exported CSV.
var metaHeader = []string{
	"file_name", "test_type", "test_number", "test_bench", "tester_id",
	"test_function", "analysis_date", "pass_fail",
}

// WriteCSV writes the records as one CSV table: the fixed metadata
// columns, then every numeric field in sorted name order, then the limit
// bounds per criterion. All records are expected to share the same field
// set (they all come from Result.Fields).
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to export")
	}

	fieldNames := make([]string, 0, len(records[0].Fields))
	for name := range records[0].Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	limitNames := make([]string, 0, len(records[0].Limits))
	for name := range records[0].Limits {
		limitNames = append(limitNames, name)
	}
	sort.Strings(limitNames)

	header := append([]string{}, metaHeader...)
	header = append(header, fieldNames...)
	for _, name := range limitNames {
		header = append(header, name+"_lsl", name+"_usl")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		passFail := "fail"
		if rec.Verdict.Pass {
			passFail = "pass"
		}
		row := []string{
			rec.FileName, rec.TestType, rec.TestNumber, rec.TestBench,
			rec.TesterID, rec.TestFunction,
			rec.AnalyzedAt.Format(time.RFC3339), passFail,
		}
		for _, name := range fieldNames {
			row = append(row, formatFloat(rec.Fields[name]))
		}
		for _, name := range limitNames {
			lp := rec.Limits[name]
			row = append(row, formatFloat(lp.LSL), formatFloat(lp.USL))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
