package cgt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// rbaDateFormat is the date format of RBA FX CSV exports (e.g. "03-Jun-2024").
const rbaDateFormat = "2-Jan-2006"

// rbaHeaderMarkers identify metadata lines in RBA CSV exports that carry no
// rate data.
var rbaHeaderMarkers = []string{"Title", "Description", "Frequency", "Source", "Series", "Units", "Publication"}

// DecodeRateCSV parses an RBA FX CSV export into the table, returning the
// number of daily rates loaded. Lines that are blank, metadata, or not a
// parsable date,rate pair are skipped: RBA exports mix headers and data in
// one file. filename is for error messages only.
func DecodeRateCSV(filename string, r io.Reader, table *RateTable) (loaded int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, ",") {
			continue
		}
		if isRBAHeader(line) {
			continue
		}

		parts := strings.SplitN(line, ",", 3)
		dateStr := strings.TrimSpace(parts[0])
		rateStr := strings.TrimSpace(parts[1])
		if dateStr == "" || rateStr == "" {
			continue
		}

		on, err := time.Parse(rbaDateFormat, dateStr)
		if err != nil {
			continue // not a data line
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil || !rate.IsPositive() {
			continue
		}

		table.Append(NewDate(on.Date()), rate)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return loaded, nil
}

// FormatRBADate formats a date the way RBA FX CSV exports do, so fetched
// rates append to the same files the exports load from.
func FormatRBADate(on Date) string {
	return on.Format(rbaDateFormat)
}

func isRBAHeader(line string) bool {
	for _, marker := range rbaHeaderMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// LoadRates reads one or more RBA FX CSV files into a single rate table.
// A missing or unreadable file produces a warning, not a failure, so a
// partial rate set still loads; an entirely empty result is an error because
// the converter would reject every conversion.
func LoadRates(filenames ...string) (*RateTable, []string, error) {
	table := NewRateTable()
	var warnings []string
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rate file %q: %v", filename, err))
			continue
		}
		loaded, err := DecodeRateCSV(filename, f, table)
		f.Close()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rate file %q: %v", filename, err))
			continue
		}
		if loaded == 0 {
			warnings = append(warnings, fmt.Sprintf("rate file %q: no rates found", filename))
		}
	}
	if table.Len() == 0 {
		return nil, warnings, fmt.Errorf("no exchange rates loaded from %d file(s)", len(filenames))
	}
	return table, warnings, nil
}
