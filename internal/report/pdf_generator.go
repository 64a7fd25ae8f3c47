package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/osc_analyzer_go/internal/analysis"
	"github.com/user/osc_analyzer_go/internal/evaluation"
)

const (
	inchToMm            = 25.4
	pdfPageWidth        = 8.5 * inchToMm // Letter portrait
	pdfPageHeight       = 11 * inchToMm
	pdfMargin           = 0.5 * inchToMm
	pdfContentWidth     = pdfPageWidth - (2 * pdfMargin)
	pdfUsablePageHeight = pdfPageHeight - (2 * pdfMargin)
)

// ReportInfo carries the operator-supplied metadata printed on the report
// header.
type ReportInfo struct {
	FileName     string
	TestNumber   string
	TestBench    string
	TesterID     string
	TestFunction string
	GeneratedAt  time.Time
}

// pdfStyler holds reusable styling and flowing-layout state for the
// report.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
	pageHeight float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6, // mm
		pageHeight: pdfUsablePageHeight,
		currentY:   pdfMargin,
	}
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 13)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellPass"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 140, 0)
	}
	s.styles["tableCellFail"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
	s.styles["overallPass"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 140, 0)
	}
	s.styles["overallFail"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = pdfMargin
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable renders a bordered table with a shaded header row. The
// optional cellStyle callback picks a style per cell, which the verdict
// table uses for pass/fail coloring.
func (s *pdfStyler) writeTable(headers []string, rows [][]string, colWidthsRel []float64,
	cellStyle func(row, col int) string) {

	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))

	x := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(x, s.currentY)
		s.pdf.CellFormat(colWidths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	s.currentY += s.lineHeight

	for rowIdx, row := range rows {
		s.checkAddPage(s.lineHeight)
		x = pdfMargin
		for colIdx, cell := range row {
			style := "tableCell"
			if cellStyle != nil {
				style = cellStyle(rowIdx, colIdx)
			}
			s.applyStyle(style)
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidths[colIdx], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += colWidths[colIdx]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// criterionRow pairs a verdict criterion with its display label and the
// measured value it was checked against.
type criterionRow struct {
	name     string
	label    string
	unit     string
	measured float64
}

// BuildPDFReport writes the analysis report: test metadata, per-channel
// metrics, the pass/fail table against the applied limits, and the
// waveform plot images (keys "ch1" and "ch2" in plotImages).
func BuildPDFReport(filepath string, info ReportInfo, cfg evaluation.TestTypeConfig,
	result *analysis.Result, limits evaluation.Limits, triggerCurrent float64,
	verdict evaluation.Verdict, plotImages map[string][]byte) error {

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph(fmt.Sprintf("Oscilloscope Test Report - %s", cfg.Name), "h1", "C")
	overall, overallStyle := "FAIL", "overallFail"
	if verdict.Pass {
		overall, overallStyle = "PASS", "overallPass"
	}
	styler.writeParagraph(fmt.Sprintf("Overall Result: %s", overall), overallStyle, "C")
	styler.addSpacer(3)

	generatedAt := info.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	styler.writeParagraph("Test Information", "h2", "L")
	styler.writeTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Capture File", info.FileName},
			{"Test Number", info.TestNumber},
			{"Test Bench", info.TestBench},
			{"Tester ID", info.TesterID},
			{"Test Function", info.TestFunction},
			{"DUT", cfg.DUTLabel},
			{"Reference", cfg.ReferenceLabel},
			{"Generated", generatedAt.Format("2006-01-02 15:04:05")},
		},
		[]float64{0.3, 0.7},
		nil,
	)
	styler.addSpacer(4)

	styler.writeParagraph("Channel Metrics", "h2", "L")
	styler.writeTable(
		[]string{"Metric", "CH1 (Voltage)", "CH2 (Current)"},
		[][]string{
			{"Min", fmt.Sprintf("%.3f V", result.Ch1.Min), fmt.Sprintf("%.3f A", result.Ch2.Min)},
			{"Max", fmt.Sprintf("%.3f V", result.Ch1.Max), fmt.Sprintf("%.3f A", result.Ch2.Max)},
			{"Peak-to-Peak", fmt.Sprintf("%.3f mV", result.Ch1.PeakToPeak), fmt.Sprintf("%.3f A", result.Ch2.PeakToPeak)},
			{"RMS", fmt.Sprintf("%.3f V", result.Ch1.RMS), fmt.Sprintf("%.3f A", result.Ch2.RMS)},
			{"Noise", fmt.Sprintf("%.3f mV", result.Ch1.Noise), "-"},
			{"Ringdown", fmt.Sprintf("%.3f mV", result.Ringdown.RingdownVoltageMv), "-"},
		},
		[]float64{0.34, 0.33, 0.33},
		nil,
	)
	styler.addSpacer(4)

	styler.writeParagraph("Capture Metadata", "h2", "L")
	styler.writeTable(
		[]string{"Data Points", "Sample Rate", "Duration", "Trigger Threshold", "Trigger Events"},
		[][]string{{
			fmt.Sprintf("%d", result.Meta.DataPoints),
			fmt.Sprintf("%.1f Hz", result.Meta.SampleRateHz),
			fmt.Sprintf("%.3f ms", result.Meta.DurationMs),
			fmt.Sprintf("%.1f A", result.TriggerThreshold),
			fmt.Sprintf("%d", len(result.TriggerEvents)),
		}},
		[]float64{0.2, 0.2, 0.2, 0.2, 0.2},
		nil,
	)
	styler.addSpacer(4)

	styler.writeParagraph("Pass/Fail Criteria", "h2", "L")
	criteria := []criterionRow{
		{evaluation.CriterionPeakToPeak, "Peak-to-Peak", "mV", result.Ch1.PeakToPeak},
		{evaluation.CriterionTriggerCurrent, "Trigger Current", "A", triggerCurrent},
		{evaluation.CriterionNoise, "Noise", "mV", result.Ch1.Noise},
	}
	if cfg.HasRingdown {
		criteria = append(criteria, criterionRow{
			evaluation.CriterionRingdown, "Ringdown", "mV", result.Ringdown.RingdownVoltageMv,
		})
	}

	rows := make([][]string, 0, len(criteria))
	for _, c := range criteria {
		lp := limits[c.name]
		status := "FAIL"
		if verdict.Criteria[c.name] {
			status = "PASS"
		}
		rows = append(rows, []string{
			c.label,
			fmt.Sprintf("%.3f %s", c.measured, c.unit),
			fmt.Sprintf("%.1f %s", lp.LSL, c.unit),
			fmt.Sprintf("%.1f %s", lp.USL, c.unit),
			status,
		})
	}
	styler.writeTable(
		[]string{"Criterion", "Measured", "LSL", "USL", "Result"},
		rows,
		[]float64{0.28, 0.21, 0.17, 0.17, 0.17},
		func(row, col int) string {
			if col != 4 {
				return "tableCell"
			}
			if rows[row][col] == "PASS" {
				return "tableCellPass"
			}
			return "tableCellFail"
		},
	)
	styler.addSpacer(5)

	styler.writeParagraph("Waveforms", "h2", "L")
	imgWidth := pdfContentWidth
	imgHeight := imgWidth * (300.0 / 800.0) // matches the plot aspect ratio

	plotDefs := []struct {
		Key     string
		Caption string
	}{
		{"ch1", "Channel 1 - Voltage (V) over Time (ms)"},
		{"ch2", "Channel 2 - Current (A) with Trigger Threshold and Events"},
	}
	for _, pDef := range plotDefs {
		if imgBytes, ok := plotImages[pDef.Key]; ok && len(imgBytes) > 0 {
			styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption)
		} else {
			styler.writeParagraph(fmt.Sprintf("Plot %s not available.", pDef.Key), "normal", "L")
		}
	}

	return pdf.OutputFileAndClose(filepath)
}
