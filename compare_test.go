package cgt

import (
	"testing"
	"time"
)

func TestCompareStrategies(t *testing.T) {
	// Two long-term parcels with different cost bases. FIFO consumes the
	// cheap 2022 parcel first; tax-optimal prefers the expensive 2023 one.
	ledger := NewParcelLedger()
	ledger.Add(
		Parcel{Symbol: "BHP", PurchaseDate: NewDate(2022, time.January, 1), Units: Q(100), UnitPrice: aud(5), Commission: aud(0)},
		Parcel{Symbol: "BHP", PurchaseDate: NewDate(2023, time.January, 1), Units: Q(100), UnitPrice: aud(10), Commission: aud(0)},
	)
	sales := []Sale{
		{Symbol: "BHP", TradeDate: NewDate(2024, time.June, 1), Quantity: Q(150), UnitPrice: aud(20), Commission: aud(0)},
	}

	summary := CompareStrategies(sales, ledger, NewRateTable(), "AUD")

	// Tax-optimal: 100 @ $10 (gain 1000, halved 500) + 50 @ $5 (gain 750,
	// halved 375) = 875.
	if !summary.TaxOptimal.TotalTaxableGain.Equal(aud(875)) {
		t.Errorf("tax-optimal taxable gain = %s, want A$875.00", summary.TaxOptimal.TotalTaxableGain)
	}
	// FIFO: 100 @ $5 (gain 1500, halved 750) + 50 @ $10 (gain 500, halved
	// 250) = 1000.
	if !summary.FIFO.TotalTaxableGain.Equal(aud(1000)) {
		t.Errorf("fifo taxable gain = %s, want A$1000.00", summary.FIFO.TotalTaxableGain)
	}
	if !summary.TaxSavings.Equal(aud(125)) {
		t.Errorf("TaxSavings = %s, want A$125.00", summary.TaxSavings)
	}
	if !summary.PercentageSaved.Equal(Percent(12.5)) {
		t.Errorf("PercentageSaved = %s, want 12.5%%", summary.PercentageSaved)
	}
	if summary.TaxOptimal.Disposals != 2 || summary.FIFO.Disposals != 2 {
		t.Errorf("disposal counts = %d/%d, want 2/2", summary.TaxOptimal.Disposals, summary.FIFO.Disposals)
	}
	if summary.Currency != "AUD" {
		t.Errorf("Currency = %q, want AUD", summary.Currency)
	}
}

func TestCompareStrategies_ShortTermTrap(t *testing.T) {
	// A cheap short-term parcel sits between the long-term parcel and the
	// latest purchase. FIFO consumes it by age; tax-optimal skips it for the
	// more expensive short-term parcel.
	ledger := NewParcelLedger()
	ledger.Add(
		Parcel{Symbol: "BHP", PurchaseDate: NewDate(2023, time.January, 1), Units: Q(100), UnitPrice: aud(10), Commission: aud(0)},
		Parcel{Symbol: "BHP", PurchaseDate: NewDate(2023, time.December, 1), Units: Q(100), UnitPrice: aud(5), Commission: aud(0)},
		Parcel{Symbol: "BHP", PurchaseDate: NewDate(2024, time.January, 15), Units: Q(100), UnitPrice: aud(12), Commission: aud(0)},
	)
	sales := []Sale{
		{Symbol: "BHP", TradeDate: NewDate(2024, time.June, 1), Quantity: Q(150), UnitPrice: aud(20), Commission: aud(0)},
	}

	summary := CompareStrategies(sales, ledger, NewRateTable(), "AUD")

	// Tax-optimal: 100 long-term @ $10 (taxable 500) + 50 short-term @ $12
	// (gain 400, full) = 900.
	if !summary.TaxOptimal.TotalTaxableGain.Equal(aud(900)) {
		t.Errorf("tax-optimal taxable gain = %s, want A$900.00", summary.TaxOptimal.TotalTaxableGain)
	}
	// FIFO: 100 long-term @ $10 (taxable 500) + 50 short-term @ $5 (gain
	// 750, full) = 1250.
	if !summary.FIFO.TotalTaxableGain.Equal(aud(1250)) {
		t.Errorf("fifo taxable gain = %s, want A$1250.00", summary.FIFO.TotalTaxableGain)
	}
	if !summary.TaxSavings.Equal(aud(350)) {
		t.Errorf("TaxSavings = %s, want A$350.00", summary.TaxSavings)
	}
	if !summary.PercentageSaved.Equal(Percent(28)) {
		t.Errorf("PercentageSaved = %s, want 28%%", summary.PercentageSaved)
	}
}

func TestCompareStrategies_LedgerUntouched(t *testing.T) {
	ledger := NewParcelLedger()
	ledger.Add(Parcel{Symbol: "BHP", PurchaseDate: NewDate(2022, time.January, 1), Units: Q(100), UnitPrice: aud(5), Commission: aud(0)})
	sales := []Sale{
		{Symbol: "BHP", TradeDate: NewDate(2024, time.June, 1), Quantity: Q(100), UnitPrice: aud(20), Commission: aud(0)},
	}

	CompareStrategies(sales, ledger, NewRateTable(), "AUD")

	// Each policy runs on its own clone: the caller's ledger is untouched.
	if !ledger.Position("BHP").Equal(Q(100)) {
		t.Errorf("initial ledger position = %s, want 100", ledger.Position("BHP"))
	}
}

func TestCompareStrategies_IndependentAudits(t *testing.T) {
	ledger := NewParcelLedger()
	ledger.Add(Parcel{Symbol: "AAPL", PurchaseDate: NewDate(2022, time.January, 1), Units: Q(100), UnitPrice: aud(50), Commission: aud(0)})
	sales := []Sale{
		{Symbol: "AAPL", TradeDate: NewDate(2024, time.June, 3), Quantity: Q(10), UnitPrice: M(66, "USD"), Commission: M(0, "USD")},
	}

	summary := CompareStrategies(sales, ledger, testTable(t), "AUD")

	// Both runs converted the same sale, so both gains match, yet neither
	// report carries the other's warnings or records.
	if !summary.TaxOptimal.TotalTaxableGain.Equal(summary.FIFO.TotalTaxableGain) {
		t.Errorf("gains differ on a single-parcel book: %s vs %s",
			summary.TaxOptimal.TotalTaxableGain, summary.FIFO.TotalTaxableGain)
	}
	if summary.TaxOptimal.Report == summary.FIFO.Report {
		t.Error("both outcomes share one report")
	}
}

func TestCompareStrategies_NoSales(t *testing.T) {
	ledger := NewParcelLedger()
	ledger.Add(Parcel{Symbol: "BHP", PurchaseDate: NewDate(2022, time.January, 1), Units: Q(100), UnitPrice: aud(5), Commission: aud(0)})

	summary := CompareStrategies(nil, ledger, NewRateTable(), "AUD")
	if !summary.TaxSavings.IsZero() {
		t.Errorf("TaxSavings = %s, want 0", summary.TaxSavings)
	}
	// Zero FIFO total: the percentage is reported as 0 rather than dividing
	// by zero.
	if !summary.PercentageSaved.Equal(0) {
		t.Errorf("PercentageSaved = %s, want 0", summary.PercentageSaved)
	}
}
