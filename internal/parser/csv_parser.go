package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// headerMarker is the column header sequence that starts the sample block
// in an oscilloscope CSV export. Instrument exports put a free-form
// preamble (model, acquisition settings) above it, so the parser scans for
// the marker anywhere in the input.
const headerMarker = "TIME,CH1,CH2"

// ErrHeaderNotFound is returned when the input contains no data header
// row. It is fatal to the parse step: without the header there is no way
// to locate the sample block.
var ErrHeaderNotFound = errors.New("data header TIME,CH1,CH2 not found")

// ParseWaveformFile opens and parses an oscilloscope CSV export.
func ParseWaveformFile(filepath string) (*Waveform, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	waveform, err := ParseWaveform(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return waveform, nil
}

// ParseWaveform reads an oscilloscope CSV export and parses every data row
// after the header into a Sample. Time values are scaled from seconds to
// milliseconds at parse time; channel values pass through unscaled.
//
// Rows with fewer than three fields, or with fields that fail numeric
// parsing, are skipped and recorded in Waveform.ParseErrors; trailing
// malformed lines are common in instrument exports and must not abort the
// parse. A header with zero usable rows yields an empty (valid) waveform.
func ParseWaveform(r io.Reader) (*Waveform, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	waveform := NewWaveform()
	headerFound := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if !headerFound {
			if strings.Contains(line, headerMarker) {
				headerFound = true
			}
			continue
		}

		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			waveform.ParseErrors = append(waveform.ParseErrors,
				fmt.Sprintf("line %d: expected 3 fields, got %d", lineNo, len(parts)))
			continue
		}

		timeSec, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			waveform.ParseErrors = append(waveform.ParseErrors,
				fmt.Sprintf("line %d: bad time value %q", lineNo, parts[0]))
			continue
		}
		ch1, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			waveform.ParseErrors = append(waveform.ParseErrors,
				fmt.Sprintf("line %d: bad CH1 value %q", lineNo, parts[1]))
			continue
		}
		ch2, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			waveform.ParseErrors = append(waveform.ParseErrors,
				fmt.Sprintf("line %d: bad CH2 value %q", lineNo, parts[2]))
			continue
		}

		waveform.Samples = append(waveform.Samples, Sample{
			TimeMs: timeSec * 1000, // seconds -> milliseconds
			Ch1:    ch1,
			Ch2:    ch2,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if !headerFound {
		return nil, ErrHeaderNotFound
	}

	return waveform, nil
}
