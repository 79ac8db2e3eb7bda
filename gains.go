package cgt

import "github.com/shopspring/decimal"

// DiscountRate is the CGT discount applied to eligible long-term gains.
const DiscountRate = Percent(50)

var half = decimal.NewFromFloat(0.5)

// DisposalRecord is the tax outcome of consuming one lot for one sale. All
// monetary amounts are in the engine's home currency.
type DisposalRecord struct {
	Symbol        string
	SaleDate      Date
	PurchaseDate  Date
	Units         Quantity // units sold out of this lot
	DaysHeld      int
	LongTerm      bool
	CostBasis     Money
	GrossProceeds Money
	Commission    Money // sale commission allocated to this lot
	NetProceeds   Money
	CapitalGain   Money
	Discount      Percent
	TaxableGain   Money
	Rate          decimal.Decimal // exchange rate applied to the sale amounts
	Phase         Phase
}

// ComputeDisposal computes the tax outcome for a single consumed lot.
//
// salePrice and saleCommission are the sale's per-unit price and total
// commission already converted to the home currency; the commission is
// allocated to the lot in proportion of units consumed over units sold.
// The 50% discount applies only to long-term gains, never to losses.
// Pure arithmetic: it never fails for well-formed inputs.
func ComputeDisposal(sale Sale, lot ConsumedLot, salePrice, saleCommission Money, rate decimal.Decimal) DisposalRecord {
	allocated := saleCommission.Mul(lot.Units).Div(sale.Quantity)
	gross := salePrice.Mul(lot.Units)
	net := gross.Sub(allocated)
	costBasis := lot.CostBasis()
	gain := net.Sub(costBasis)

	discount := Percent(0)
	taxable := gain
	if gain.IsPositive() && lot.LongTerm {
		discount = DiscountRate
		taxable = M(gain.Decimal().Mul(half), gain.Currency())
	}

	return DisposalRecord{
		Symbol:        sale.Symbol,
		SaleDate:      sale.TradeDate,
		PurchaseDate:  lot.PurchaseDate(),
		Units:         lot.Units,
		DaysHeld:      lot.DaysHeld,
		LongTerm:      lot.LongTerm,
		CostBasis:     costBasis,
		GrossProceeds: gross,
		Commission:    allocated,
		NetProceeds:   net,
		CapitalGain:   gain,
		Discount:      discount,
		TaxableGain:   taxable,
		Rate:          rate,
		Phase:         lot.Phase,
	}
}
