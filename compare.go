package cgt

import "github.com/shopspring/decimal"

// PolicyOutcome aggregates one policy's simulation run.
type PolicyOutcome struct {
	Policy           string
	TotalTaxableGain Money
	AverageCostBasis Money // cost basis per unit sold
	Disposals        int   // number of disposal records produced
	Report           *DisposalReport
}

// ComparisonSummary reconciles the aggregate tax outcomes of the tax-optimal
// and FIFO policies run over identical input.
type ComparisonSummary struct {
	Currency        string
	TaxOptimal      PolicyOutcome
	FIFO            PolicyOutcome
	TaxSavings      Money   // fifo total - tax-optimal total
	PercentageSaved Percent // savings as a share of the fifo total
}

// CompareStrategies runs the disposal engine once per policy against
// independent copies of the initial ledger and reconciles the results. Each
// run gets its own converter, so the audit trails stay independent while the
// immutable rate table is shared.
func CompareStrategies(sales []Sale, initial *ParcelLedger, table *RateTable, home string) *ComparisonSummary {
	optimal := runPolicy(sales, initial, table, home, TaxOptimalPolicy{})
	fifo := runPolicy(sales, initial, table, home, FIFOPolicy{})

	savings := fifo.TotalTaxableGain.Sub(optimal.TotalTaxableGain)
	var saved Percent
	if !fifo.TotalTaxableGain.IsZero() {
		saved = Percent(savings.Decimal().Div(fifo.TotalTaxableGain.Decimal()).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}

	return &ComparisonSummary{
		Currency:        home,
		TaxOptimal:      optimal,
		FIFO:            fifo,
		TaxSavings:      savings,
		PercentageSaved: saved,
	}
}

func runPolicy(sales []Sale, initial *ParcelLedger, table *RateTable, home string, policy SelectionPolicy) PolicyOutcome {
	engine := NewDisposalEngine(initial.Clone(), NewConverter(table, home), policy)
	report := engine.Run(sales)

	var average Money
	if units := report.TotalUnits(); !units.IsZero() {
		average = report.TotalCostBasis().Div(units)
	} else {
		average = M(0, home)
	}

	return PolicyOutcome{
		Policy:           policy.Name(),
		TotalTaxableGain: report.TotalTaxableGain(),
		AverageCostBasis: average,
		Disposals:        len(report.Records),
		Report:           report,
	}
}
