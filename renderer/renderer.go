// Package renderer formats disposal reports, strategy comparisons, holdings
// and conversion audit trails as markdown.
package renderer

import (
	"fmt"
	"strings"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
)

// DisposalsMarkdown renders a disposal report as a markdown table, one row per
// consumed lot, with a totals row and any warnings as a trailing section.
func DisposalsMarkdown(report *cgt.DisposalReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Disposal Report (%s)\n\n", report.Policy)
	fmt.Fprintf(&b, "Amounts in %s.\n\n", report.Currency)

	if len(report.Records) == 0 {
		fmt.Fprint(&b, "No disposals.\n")
	} else {
		fmt.Fprintln(&b, "| Symbol | Sold | Acquired | Units | Held | Phase | Cost Basis | Net Proceeds | Gain | Discount | Taxable |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|:---|---:|---:|---:|---:|---:|")
		for _, rec := range report.Records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %dd | %s | %s | %s | %s | %s | %s |\n",
				rec.Symbol,
				rec.SaleDate,
				rec.PurchaseDate,
				rec.Units,
				rec.DaysHeld,
				rec.Phase,
				rec.CostBasis,
				rec.NetProceeds,
				rec.CapitalGain.SignedString(),
				rec.Discount,
				rec.TaxableGain.SignedString(),
			)
		}
		fmt.Fprintf(&b, "| **Total** | | | **%s** | | | **%s** | | | | **%s** |\n",
			report.TotalUnits(),
			report.TotalCostBasis(),
			report.TotalTaxableGain().SignedString(),
		)
	}

	renderWarnings(&b, report.Warnings)
	return b.String()
}

// ComparisonMarkdown renders a strategy comparison: one row per policy plus
// the reconciliation lines.
func ComparisonMarkdown(summary *cgt.ComparisonSummary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Strategy Comparison\n\n")
	fmt.Fprintf(&b, "Amounts in %s.\n\n", summary.Currency)

	fmt.Fprintln(&b, "| Strategy | Taxable Gain | Avg Cost Basis | Disposals |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, o := range []cgt.PolicyOutcome{summary.TaxOptimal, summary.FIFO} {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n",
			o.Policy, o.TotalTaxableGain.SignedString(), o.AverageCostBasis, o.Disposals)
	}
	fmt.Fprintf(&b, "\nTax savings over fifo: **%s** (%s of the fifo total)\n",
		summary.TaxSavings.SignedString(), summary.PercentageSaved)

	var warnings []string
	warnings = append(warnings, summary.TaxOptimal.Report.Warnings...)
	warnings = append(warnings, summary.FIFO.Report.Warnings...)
	renderWarnings(&b, warnings)
	return b.String()
}

// AuditMarkdown renders a conversion audit trail, one row per conversion.
// Fallback rows are flagged with the publication date of the rate used.
func AuditMarkdown(home string, records []cgt.ConversionRecord) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Currency Conversion Audit\n\n")
	if len(records) == 0 {
		fmt.Fprint(&b, "No conversions performed.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Home currency: %s.\n\n", home)
	fmt.Fprintln(&b, "| Date | Input | Output | Rate | Rate Date | Context |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|:---|")
	for _, rec := range records {
		rateDate := rec.RateDate.String()
		if rec.Fallback {
			rateDate += " (fallback)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			rec.Date, rec.Input, rec.Output, rec.Rate, rateDate, rec.Context)
	}
	return b.String()
}

// HoldingsMarkdown renders the ledger's remaining parcels grouped by symbol.
func HoldingsMarkdown(ledger *cgt.ParcelLedger, asOf cgt.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings on %s\n\n", asOf)
	fmt.Fprintln(&b, "| Symbol | Acquired | Units | Cost/Unit | Total Cost | Held | Class |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|:---|")

	empty := true
	for symbol := range ledger.Symbols() {
		empty = false
		for _, p := range ledger.Parcels(symbol) {
			daysHeld, longTerm := cgt.Classify(p.PurchaseDate, asOf)
			class := "short-term"
			if longTerm {
				class = "long-term"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %dd | %s |\n",
				p.Symbol, p.PurchaseDate, p.Units, p.CostPerUnit(), p.TotalCost(), daysHeld, class)
		}
		fmt.Fprintf(&b, "| **%s total** | | **%s** | | | | |\n", symbol, ledger.Position(symbol))
	}
	if empty {
		fmt.Fprint(&b, "| - | - | - | - | - | - | - |\n")
	}
	return b.String()
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprint(b, "\n## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}
