package cgt

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// fulfillmentTolerance is the floating-point slack, in units, below which a
// sale counts as fully satisfied.
var fulfillmentTolerance = Q(0.001)

// ParcelLedger holds the per-symbol inventory of parcels, each symbol's list
// ordered by purchase date ascending. The ledger's state after a run is the
// accumulation of all prior sales' effects within that run.
type ParcelLedger struct {
	parcels map[string][]Parcel
}

// NewParcelLedger creates an empty ledger.
func NewParcelLedger() *ParcelLedger {
	return &ParcelLedger{parcels: make(map[string][]Parcel)}
}

// Add appends parcels to the ledger and maintains the chronological order of
// each symbol's list. The sort is stable, so parcels purchased on the same
// day keep their load order.
func (l *ParcelLedger) Add(parcels ...Parcel) {
	touched := make(map[string]struct{})
	for _, p := range parcels {
		l.parcels[p.Symbol] = append(l.parcels[p.Symbol], p)
		touched[p.Symbol] = struct{}{}
	}
	for symbol := range touched {
		list := l.parcels[symbol]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].PurchaseDate.Before(list[j].PurchaseDate)
		})
	}
}

// Symbols iterates over the symbols with remaining inventory, in alphabetical order.
func (l *ParcelLedger) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		symbols := slices.Collect(maps.Keys(l.parcels))
		slices.Sort(symbols)
		for _, s := range symbols {
			if len(l.parcels[s]) == 0 {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Parcels returns a copy of the symbol's remaining parcels in chronological order.
func (l *ParcelLedger) Parcels(symbol string) []Parcel {
	return slices.Clone(l.parcels[symbol])
}

// Position returns the total remaining units held for a symbol.
func (l *ParcelLedger) Position(symbol string) Quantity {
	var total Quantity
	for _, p := range l.parcels[symbol] {
		total = total.Add(p.Units)
	}
	return total
}

// Clone returns a deep copy of the ledger, so independent simulation runs
// never share mutable state.
func (l *ParcelLedger) Clone() *ParcelLedger {
	c := NewParcelLedger()
	for symbol, list := range l.parcels {
		c.parcels[symbol] = slices.Clone(list)
	}
	return c
}

// ConvertLedger returns a new ledger with every parcel re-expressed in the
// converter's home currency at its purchase date. A parcel whose cost cannot
// be converted has no usable cost basis: it is dropped with a warning rather
// than loaded with an invented rate.
func ConvertLedger(l *ParcelLedger, c *Converter) (*ParcelLedger, []string) {
	converted := NewParcelLedger()
	var warnings []string
	for symbol := range l.Symbols() {
		for _, p := range l.Parcels(symbol) {
			cp, _, err := c.ConvertParcel(p)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s %s: %v, parcel dropped", p.PurchaseDate, p.Symbol, err))
				continue
			}
			converted.Add(cp)
		}
	}
	return converted, warnings
}

// Consume selects parcels to satisfy unitsNeeded using the given policy and
// applies the selection to the ledger: fully-consumed parcels are removed and
// partially-consumed parcels are replaced by a reduced-units copy whose
// commission is scaled by the remaining-unit proportion.
//
// If the symbol is absent or exhausted it returns no lots and the full
// quantity as unfulfilled; that is non-fatal and the caller emits a warning.
func (l *ParcelLedger) Consume(symbol string, unitsNeeded Quantity, saleDate Date, policy SelectionPolicy) ([]ConsumedLot, Quantity) {
	available := l.parcels[symbol]
	if len(available) == 0 {
		return nil, unitsNeeded
	}

	selected, remaining, unfulfilled := policy.Select(slices.Clone(available), unitsNeeded, saleDate)

	if len(remaining) == 0 {
		delete(l.parcels, symbol)
	} else {
		l.parcels[symbol] = remaining
	}
	return selected, unfulfilled
}
