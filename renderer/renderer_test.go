package renderer

import (
	"strings"
	"testing"
	"time"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
)

func testLedger() *cgt.ParcelLedger {
	l := cgt.NewParcelLedger()
	l.Add(
		cgt.Parcel{Symbol: "BHP", PurchaseDate: cgt.NewDate(2023, time.January, 1), Units: cgt.Q(100), UnitPrice: cgt.M(10, "AUD"), Commission: cgt.M(0, "AUD")},
		cgt.Parcel{Symbol: "BHP", PurchaseDate: cgt.NewDate(2024, time.January, 15), Units: cgt.Q(100), UnitPrice: cgt.M(12, "AUD"), Commission: cgt.M(0, "AUD")},
	)
	return l
}

func testSales() []cgt.Sale {
	return []cgt.Sale{
		{Symbol: "BHP", TradeDate: cgt.NewDate(2024, time.June, 1), Quantity: cgt.Q(150), UnitPrice: cgt.M(20, "AUD"), Commission: cgt.M(0, "AUD")},
	}
}

func TestDisposalsMarkdown(t *testing.T) {
	engine := cgt.NewDisposalEngine(testLedger(), cgt.NewConverter(cgt.NewRateTable(), "AUD"), cgt.TaxOptimalPolicy{})
	report := engine.Run(testSales())

	md := DisposalsMarkdown(report)
	for _, want := range []string{
		"# Disposal Report (tax-optimal)",
		"Amounts in AUD.",
		"| BHP | 2024-06-01 | 2023-01-01 |",
		"LONG-TERM",
		"SHORT-TERM",
		"**+A$900.00**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("DisposalsMarkdown() missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Warnings") {
		t.Errorf("DisposalsMarkdown() has a warnings section for a clean run:\n%s", md)
	}
}

func TestDisposalsMarkdown_Empty(t *testing.T) {
	md := DisposalsMarkdown(&cgt.DisposalReport{Policy: "fifo", Currency: "AUD", Warnings: []string{"2024-06-01 ZZZ: no cost basis parcels held, sale skipped"}})
	if !strings.Contains(md, "No disposals.") {
		t.Errorf("DisposalsMarkdown() missing the empty marker:\n%s", md)
	}
	if !strings.Contains(md, "## Warnings") || !strings.Contains(md, "ZZZ") {
		t.Errorf("DisposalsMarkdown() missing the warnings section:\n%s", md)
	}
}

func TestComparisonMarkdown(t *testing.T) {
	summary := cgt.CompareStrategies(testSales(), testLedger(), cgt.NewRateTable(), "AUD")

	md := ComparisonMarkdown(summary)
	for _, want := range []string{
		"# Strategy Comparison",
		"| tax-optimal |",
		"| fifo |",
		"Tax savings over fifo:",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("ComparisonMarkdown() missing %q:\n%s", want, md)
		}
	}
}

func TestAuditMarkdown(t *testing.T) {
	if md := AuditMarkdown("AUD", nil); !strings.Contains(md, "No conversions performed.") {
		t.Errorf("AuditMarkdown(empty) = %q", md)
	}

	records := []cgt.ConversionRecord{{
		Input:    cgt.M(66, "USD"),
		Output:   cgt.M(100, "AUD"),
		Date:     cgt.NewDate(2024, time.June, 8),
		RateDate: cgt.NewDate(2024, time.June, 3),
		Fallback: true,
		Context:  "AAPL sale price",
	}}
	md := AuditMarkdown("AUD", records)
	for _, want := range []string{"2024-06-08", "2024-06-03 (fallback)", "AAPL sale price"} {
		if !strings.Contains(md, want) {
			t.Errorf("AuditMarkdown() missing %q:\n%s", want, md)
		}
	}
}

func TestHoldingsMarkdown(t *testing.T) {
	md := HoldingsMarkdown(testLedger(), cgt.NewDate(2024, time.June, 1))
	for _, want := range []string{"# Holdings on 2024-06-01", "long-term", "short-term", "**BHP total** | | **200**"} {
		if !strings.Contains(md, want) {
			t.Errorf("HoldingsMarkdown() missing %q:\n%s", want, md)
		}
	}
}
