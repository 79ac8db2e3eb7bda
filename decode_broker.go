package cgt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// This file ingests broker statement exports: CSV with a header line and one
// trade per row. Broker exports are messier than our own JSONL files, so the
// boundary is forgiving: unparseable dates become [SentinelDate] with a
// warning, a blank commission is an explicit 0, and a malformed row is
// skipped with a warning instead of failing the batch.

// brokerRow is one parsed CSV row, shared by parcel and sale ingestion.
type brokerRow struct {
	symbol     string
	date       Date
	units      Quantity
	price      Money
	commission Money
}

// DecodeParcelCSV reads purchase parcels from a broker CSV export. The
// expected header is symbol,date,units,price,commission,currency; trailing
// columns are ignored. filename is for warnings and error messages only.
func DecodeParcelCSV(filename string, r io.Reader) ([]Parcel, []string, error) {
	var parcels []Parcel
	warnings, err := scanBrokerCSV(filename, r, func(row brokerRow) {
		parcels = append(parcels, Parcel{
			Symbol:       row.symbol,
			PurchaseDate: row.date,
			Units:        row.units,
			UnitPrice:    row.price,
			Commission:   row.commission,
		})
	})
	return parcels, warnings, err
}

// DecodeSaleCSV reads sales from a broker CSV export, same layout as
// DecodeParcelCSV.
func DecodeSaleCSV(filename string, r io.Reader) ([]Sale, []string, error) {
	var sales []Sale
	warnings, err := scanBrokerCSV(filename, r, func(row brokerRow) {
		sales = append(sales, Sale{
			Symbol:     row.symbol,
			TradeDate:  row.date,
			Quantity:   row.units,
			UnitPrice:  row.price,
			Commission: row.commission,
		})
	})
	return sales, warnings, err
}

func scanBrokerCSV(filename string, r io.Reader, emit func(brokerRow)) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // brokers disagree on trailing columns
	reader.TrimLeadingSpace = true

	var warnings []string
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return warnings, fmt.Errorf("error reading %q: %w", filename, err)
		}
		line++
		if line == 1 && isBrokerHeader(record) {
			continue
		}
		if len(record) < 4 {
			warnings = append(warnings, fmt.Sprintf("%s line %d: expected at least symbol,date,units,price, got %d columns, row skipped", filename, line, len(record)))
			continue
		}

		row := brokerRow{symbol: strings.TrimSpace(record[0])}
		if row.symbol == "" {
			warnings = append(warnings, fmt.Sprintf("%s line %d: empty symbol, row skipped", filename, line))
			continue
		}

		row.date, err = ParseTradeDate(record[1])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s line %d: %v, substituting %s", filename, line, err, SentinelDate))
			row.date = SentinelDate
		}

		units, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil || !units.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("%s line %d: invalid units %q, row skipped", filename, line, record[2]))
			continue
		}
		row.units = Q(units)

		currency := ""
		if len(record) > 5 {
			currency = strings.TrimSpace(record[5])
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil || price.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("%s line %d: invalid price %q, row skipped", filename, line, record[3]))
			continue
		}
		row.price = M(price, currency)

		// An absent commission is an explicit zero, never a guessed default.
		commission := decimal.Zero
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			commission, err = decimal.NewFromString(strings.TrimSpace(record[4]))
			if err != nil || commission.IsNegative() {
				warnings = append(warnings, fmt.Sprintf("%s line %d: invalid commission %q, row skipped", filename, line, record[4]))
				continue
			}
		}
		row.commission = M(commission, currency)

		emit(row)
	}
	return warnings, nil
}

// isBrokerHeader reports whether the first CSV record is a column header
// rather than data: its units column does not parse as a number.
func isBrokerHeader(record []string) bool {
	if len(record) < 3 {
		return true
	}
	_, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	return err != nil
}
