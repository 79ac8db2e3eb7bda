package cgt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// This file persists the engine's boundary records in JSONL, one record per
// line, human-readable and git-friendly. Parcels and sales are the
// normalized output of the ingestion layer; disposal records and the
// conversion audit are the engine's output contract.

// jparcel is the JSONL representation of a parcel.
type jparcel struct {
	Symbol     string          `json:"symbol"`
	Date       Date            `json:"date"`
	Units      Quantity        `json:"units"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Currency   string          `json:"currency"`
}

// jsale is the JSONL representation of a sale.
type jsale struct {
	Symbol     string          `json:"symbol"`
	Date       Date            `json:"date"`
	Quantity   Quantity        `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Currency   string          `json:"currency"`
}

// DecodeParcels reads parcels from a JSONL stream, one parcel per line.
// filename is for error messages only.
func DecodeParcels(filename string, r io.Reader) ([]Parcel, error) {
	var parcels []Parcel
	err := scanLines(filename, r, func(line []byte) error {
		var jp jparcel
		if err := json.Unmarshal(line, &jp); err != nil {
			return err
		}
		if !jp.Units.IsPositive() {
			return fmt.Errorf("parcel units must be positive, got %s", jp.Units)
		}
		if jp.Commission.IsNegative() {
			return fmt.Errorf("parcel commission must not be negative, got %s", jp.Commission)
		}
		parcels = append(parcels, Parcel{
			Symbol:       jp.Symbol,
			PurchaseDate: jp.Date,
			Units:        jp.Units,
			UnitPrice:    M(jp.Price, jp.Currency),
			Commission:   M(jp.Commission, jp.Currency),
		})
		return nil
	})
	return parcels, err
}

// DecodeSales reads sales from a JSONL stream, one sale per line, in the
// order given. Callers are responsible for the chronological-per-symbol
// ordering the engine requires.
func DecodeSales(filename string, r io.Reader) ([]Sale, error) {
	var sales []Sale
	err := scanLines(filename, r, func(line []byte) error {
		var js jsale
		if err := json.Unmarshal(line, &js); err != nil {
			return err
		}
		sales = append(sales, Sale{
			Symbol:     js.Symbol,
			TradeDate:  js.Date,
			Quantity:   js.Quantity,
			UnitPrice:  M(js.Price, js.Currency),
			Commission: M(js.Commission, js.Currency),
		})
		return nil
	})
	return sales, err
}

// scanLines feeds each non-blank line of r to fn, decorating errors with the
// filename and offending line.
func scanLines(filename string, r io.Reader, fn func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("format error in %q on line %q: %w", filename, string(line), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %q: %w", filename, err)
	}
	return nil
}

// jdisposal is the JSONL representation of a disposal record.
type jdisposal struct {
	Symbol        string          `json:"symbol"`
	SaleDate      Date            `json:"saleDate"`
	PurchaseDate  Date            `json:"purchaseDate"`
	Units         Quantity        `json:"units"`
	DaysHeld      int             `json:"daysHeld"`
	LongTerm      bool            `json:"longTerm"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	GrossProceeds decimal.Decimal `json:"grossProceeds"`
	Commission    decimal.Decimal `json:"commission"`
	NetProceeds   decimal.Decimal `json:"netProceeds"`
	CapitalGain   decimal.Decimal `json:"capitalGain"`
	Discount      float64         `json:"discount"`
	TaxableGain   decimal.Decimal `json:"taxableGain"`
	Rate          decimal.Decimal `json:"rate"`
	Phase         string          `json:"phase"`
	Currency      string          `json:"currency"`
}

// EncodeDisposals writes the report's records as JSONL, one record per line.
func EncodeDisposals(w io.Writer, report *DisposalReport) error {
	for _, rec := range report.Records {
		jd := jdisposal{
			Symbol:        rec.Symbol,
			SaleDate:      rec.SaleDate,
			PurchaseDate:  rec.PurchaseDate,
			Units:         rec.Units,
			DaysHeld:      rec.DaysHeld,
			LongTerm:      rec.LongTerm,
			CostBasis:     rec.CostBasis.Decimal().Round(2),
			GrossProceeds: rec.GrossProceeds.Decimal().Round(2),
			Commission:    rec.Commission.Decimal().Round(2),
			NetProceeds:   rec.NetProceeds.Decimal().Round(2),
			CapitalGain:   rec.CapitalGain.Decimal().Round(2),
			Discount:      float64(rec.Discount),
			TaxableGain:   rec.TaxableGain.Decimal().Round(2),
			Rate:          rec.Rate,
			Phase:         rec.Phase.String(),
			Currency:      rec.CostBasis.Currency(),
		}
		line, err := json.Marshal(jd)
		if err != nil {
			return fmt.Errorf("could not marshal disposal record: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// jconversion is the JSONL representation of a conversion audit entry.
type jconversion struct {
	Date     Date            `json:"date"`
	RateDate Date            `json:"rateDate"`
	Input    decimal.Decimal `json:"input"`
	From     string          `json:"from"`
	Output   decimal.Decimal `json:"output"`
	To       string          `json:"to"`
	Rate     decimal.Decimal `json:"rate"`
	Fallback bool            `json:"fallback,omitempty"`
	Context  string          `json:"context,omitempty"`
}

// EncodeConversions writes a conversion audit trail as JSONL.
func EncodeConversions(w io.Writer, records []ConversionRecord) error {
	for _, rec := range records {
		jc := jconversion{
			Date:     rec.Date,
			RateDate: rec.RateDate,
			Input:    rec.Input.Decimal(),
			From:     rec.Input.Currency(),
			Output:   rec.Output.Decimal().Round(6),
			To:       rec.Output.Currency(),
			Rate:     rec.Rate,
			Fallback: rec.Fallback,
			Context:  rec.Context,
		}
		line, err := json.Marshal(jc)
		if err != nil {
			return fmt.Errorf("could not marshal conversion record: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
