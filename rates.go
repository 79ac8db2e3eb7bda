package cgt

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultRateLookback is how many days the converter walks backward looking
// for the nearest earlier rate when a date has no direct entry
// (forward-fill: weekends and holidays inherit the last trading day's rate).
const DefaultRateLookback = 10

// RateTable stores a chronological series of daily exchange rates, expressed
// as the amount of foreign currency per unit of the home currency (the RBA
// convention: one AUD buys `rate` USD). Dates are unique and the series is
// always sorted.
//
// The table is loaded once and treated as read-only for the lifetime of a
// run; it is safe for unsynchronized concurrent reads.
type RateTable struct {
	days  []Date
	rates []decimal.Decimal
}

// NewRateTable creates an empty rate table.
func NewRateTable() *RateTable { return &RateTable{} }

// Len returns the number of daily rates in the table.
func (t *RateTable) Len() int { return len(t.days) }

// Oldest returns the earliest date covered by the table, or the zero Date.
func (t *RateTable) Oldest() Date {
	if len(t.days) == 0 {
		return Date{}
	}
	return t.days[0]
}

// Newest returns the latest date covered by the table, or the zero Date.
func (t *RateTable) Newest() Date {
	if len(t.days) == 0 {
		return Date{}
	}
	return t.days[len(t.days)-1]
}

// compareDate is the ordering used for the table's binary searches.
func compareDate(d, target Date) int {
	if d.After(target) {
		return 1
	}
	if d.Before(target) {
		return -1
	}
	return 0
}

// Append adds a daily rate. An existing value at that date is overwritten,
// which gives higher priority to the last data loaded.
func (t *RateTable) Append(on Date, rate decimal.Decimal) {
	i, found := slices.BinarySearchFunc(t.days, on, compareDate)
	if found {
		t.rates[i] = rate
		return
	}
	t.days = slices.Insert(t.days, i, on)
	t.rates = slices.Insert(t.rates, i, rate)
}

// Get returns the rate at exactly `on`, if any.
func (t *RateTable) Get(on Date) (decimal.Decimal, bool) {
	i, found := slices.BinarySearchFunc(t.days, on, compareDate)
	if !found {
		return decimal.Decimal{}, false
	}
	return t.rates[i], true
}

// RateAsOf returns the rate on a given day, or the most recent rate before it
// within `lookback` days. It reports the date the rate was actually published
// on. The lookup is deterministic: repeated calls for the same date return
// bit-identical results.
func (t *RateTable) RateAsOf(on Date, lookback int) (rate decimal.Decimal, published Date, ok bool) {
	i, found := slices.BinarySearchFunc(t.days, on, compareDate)
	if found {
		return t.rates[i], on, true
	}
	// Not found. `i` is the insertion index, so the nearest earlier rate is
	// at i-1. It only counts if it is within the lookback window.
	if i == 0 {
		return decimal.Decimal{}, Date{}, false
	}
	prev := t.days[i-1]
	if on.Sub(prev) > lookback {
		return decimal.Decimal{}, Date{}, false
	}
	return t.rates[i-1], prev, true
}

// ConversionError reports that no exchange rate exists for a date or any of
// the `Lookback` days before it. The converter never substitutes a rate from
// outside the window: an unnoticed 1:1 fallback would corrupt every
// downstream tax figure.
type ConversionError struct {
	Date     Date
	Lookback int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s or %d days prior", e.Date, e.Lookback)
}

// ConversionRecord is an append-only audit entry for a single currency
// conversion. Records are immutable once appended.
type ConversionRecord struct {
	Input    Money
	Output   Money
	Rate     decimal.Decimal
	Date     Date   // the date the conversion was requested for
	RateDate Date   // the date the applied rate was published on
	Fallback bool   // true when the rate came from an earlier day
	Context  string // free-form label, e.g. "AAPL sale price"
}

// Converter converts foreign amounts into a home currency using historical
// daily rates, and keeps an audit trail of every conversion it performs.
//
// The rate table may be shared between converters; the audit trail is owned
// by each converter, so independent simulation runs each get their own.
type Converter struct {
	table    *RateTable
	home     string
	lookback int
	audit    []ConversionRecord
}

// NewConverter creates a converter into the given home currency with the
// default lookback window.
func NewConverter(table *RateTable, home string) *Converter {
	return &Converter{table: table, home: home, lookback: DefaultRateLookback}
}

// WithLookback returns the converter with its fallback window set to the
// given number of days.
func (c *Converter) WithLookback(days int) *Converter {
	c.lookback = days
	return c
}

// Home returns the converter's home currency.
func (c *Converter) Home() string { return c.home }

// Audit returns the conversions performed so far, in order.
func (c *Converter) Audit() []ConversionRecord {
	return slices.Clone(c.audit)
}

var one = decimal.NewFromInt(1)

// Convert converts an amount into the home currency using the rate for the
// given date, falling back to the nearest earlier rate within the lookback
// window. An amount already in the home currency converts at rate 1 with no
// table lookup. When no rate is found it returns a *ConversionError and
// records nothing.
func (c *Converter) Convert(amount Money, on Date, context string) (Money, ConversionRecord, error) {
	if amount.Currency() == c.home || amount.Currency() == "" {
		rec := ConversionRecord{
			Input:    amount,
			Output:   M(amount.Decimal(), c.home),
			Rate:     one,
			Date:     on,
			RateDate: on,
			Context:  context,
		}
		c.audit = append(c.audit, rec)
		return rec.Output, rec, nil
	}

	rate, published, ok := c.table.RateAsOf(on, c.lookback)
	if !ok {
		return Money{}, ConversionRecord{}, &ConversionError{Date: on, Lookback: c.lookback}
	}

	// The table holds foreign units per home unit, so converting to the home
	// currency is a division.
	out := M(amount.Decimal().Div(rate), c.home)
	rec := ConversionRecord{
		Input:    amount,
		Output:   out,
		Rate:     rate,
		Date:     on,
		RateDate: published,
		Fallback: published != on,
		Context:  context,
	}
	c.audit = append(c.audit, rec)
	return out, rec, nil
}

// ConvertParcel converts a parcel's unit price and commission independently,
// using the parcel's purchase date, and returns the parcel re-expressed in
// the home currency. Cost per unit and total cost derive from the converted
// amounts.
func (c *Converter) ConvertParcel(p Parcel) (Parcel, []ConversionRecord, error) {
	price, priceRec, err := c.Convert(p.UnitPrice, p.PurchaseDate, p.Symbol+" cost basis price")
	if err != nil {
		return Parcel{}, nil, err
	}
	commission, commRec, err := c.Convert(p.Commission, p.PurchaseDate, p.Symbol+" purchase commission")
	if err != nil {
		return Parcel{}, nil, err
	}
	converted := p
	converted.UnitPrice = price
	converted.Commission = commission
	return converted, []ConversionRecord{priceRec, commRec}, nil
}
