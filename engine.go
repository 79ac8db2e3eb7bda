package cgt

import (
	"errors"
	"fmt"
	"log"
)

// DisposalReport is the output of one engine run: the disposal records in
// processing order and the warnings accumulated along the way. An empty
// record list with no warnings means "nothing to report"; an empty list with
// warnings means processing was impaired.
type DisposalReport struct {
	Policy   string
	Currency string
	Records  []DisposalRecord
	Warnings []string
}

// TotalTaxableGain sums the taxable gain over all records.
func (r *DisposalReport) TotalTaxableGain() Money {
	var total Money
	for _, rec := range r.Records {
		total = total.Add(rec.TaxableGain)
	}
	return total
}

// TotalCostBasis sums the cost basis over all records.
func (r *DisposalReport) TotalCostBasis() Money {
	var total Money
	for _, rec := range r.Records {
		total = total.Add(rec.CostBasis)
	}
	return total
}

// TotalUnits sums the units sold over all records.
func (r *DisposalReport) TotalUnits() Quantity {
	var total Quantity
	for _, rec := range r.Records {
		total = total.Add(rec.Units)
	}
	return total
}

// DisposalEngine processes sales one at a time against a parcel ledger,
// converting amounts to the home currency, consuming parcels through a
// selection policy and computing per-lot tax outcomes.
//
// Sales for a given symbol must be processed in chronological order, because
// consuming a parcel mutates the ledger state that subsequent sales of the
// same symbol depend on.
type DisposalEngine struct {
	ledger    *ParcelLedger
	converter *Converter
	policy    SelectionPolicy
}

// NewDisposalEngine creates an engine over the given ledger, converter and policy.
func NewDisposalEngine(ledger *ParcelLedger, converter *Converter, policy SelectionPolicy) *DisposalEngine {
	return &DisposalEngine{ledger: ledger, converter: converter, policy: policy}
}

// Run processes the sales in the order given and returns the full report.
// The per-sale boundary is the isolation unit: no single sale's failure
// aborts the batch.
func (e *DisposalEngine) Run(sales []Sale) *DisposalReport {
	report := &DisposalReport{Policy: e.policy.Name(), Currency: e.converter.Home()}
	for _, sale := range sales {
		records, warnings := e.ProcessSale(sale)
		report.Records = append(report.Records, records...)
		report.Warnings = append(report.Warnings, warnings...)
	}
	return report
}

// ProcessSale processes a single sale and returns the disposal records it
// produced and any warnings. Validation and conversion failures downgrade to
// warnings and skip the sale; a shortfall still records the consumed portion.
func (e *DisposalEngine) ProcessSale(sale Sale) ([]DisposalRecord, []string) {
	var warnings []string

	if !sale.Quantity.IsPositive() {
		return nil, []string{fmt.Sprintf("%s %s: invalid sale quantity %s, sale skipped", sale.TradeDate, sale.Symbol, sale.Quantity)}
	}
	if !sale.UnitPrice.IsPositive() {
		return nil, []string{fmt.Sprintf("%s %s: invalid sale price %s, sale skipped", sale.TradeDate, sale.Symbol, sale.UnitPrice)}
	}

	// Convert the sale-side amounts first: a sale that cannot be priced in
	// the home currency must not emit partial, mixed-currency records.
	price, priceRec, err := e.converter.Convert(sale.UnitPrice, sale.TradeDate, sale.Symbol+" sale price")
	if err != nil {
		return nil, []string{conversionWarning(sale, err)}
	}
	commission, _, err := e.converter.Convert(sale.Commission, sale.TradeDate, sale.Symbol+" sale commission")
	if err != nil {
		return nil, []string{conversionWarning(sale, err)}
	}

	if e.ledger.Position(sale.Symbol).IsZero() {
		return nil, []string{fmt.Sprintf("%s %s: no cost basis parcels held, sale skipped", sale.TradeDate, sale.Symbol)}
	}

	selected, unfulfilled := e.ledger.Consume(sale.Symbol, sale.Quantity, sale.TradeDate, e.policy)
	if unfulfilled.GreaterThan(fulfillmentTolerance) {
		warnings = append(warnings, fmt.Sprintf("%s %s: insufficient units, need %s, short by %s", sale.TradeDate, sale.Symbol, sale.Quantity, unfulfilled))
	}

	records := make([]DisposalRecord, 0, len(selected))
	for _, lot := range selected {
		records = append(records, ComputeDisposal(sale, lot, price, commission, priceRec.Rate))
	}
	log.Printf("%s: disposed %s %s in %d lots", sale.TradeDate, sale.Quantity.Sub(unfulfilled), sale.Symbol, len(records))
	return records, warnings
}

func conversionWarning(sale Sale, err error) string {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return fmt.Sprintf("%s %s: %v, sale skipped", sale.TradeDate, sale.Symbol, convErr)
	}
	return fmt.Sprintf("%s %s: conversion failed: %v, sale skipped", sale.TradeDate, sale.Symbol, err)
}
