package cgt

import (
	"fmt"
	"sort"
)

// SelectionPolicy decides which parcels satisfy a requested sale quantity.
//
// Select must be pure with respect to its inputs: it never mutates the given
// parcels and holds no state between invocations. It returns the consumed
// lots, the parcels left over (in the ledger's chronological order, split
// parcels replaced by their remainder), and any units it could not fulfill.
type SelectionPolicy interface {
	Name() string
	Select(parcels []Parcel, units Quantity, saleDate Date) (selected []ConsumedLot, remaining []Parcel, unfulfilled Quantity)
}

// ParsePolicy parses a string into a SelectionPolicy.
func ParsePolicy(s string) (SelectionPolicy, error) {
	switch s {
	case "tax-optimal":
		return TaxOptimalPolicy{}, nil
	case "fifo":
		return FIFOPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown selection policy: %q", s)
	}
}

// candidate is a parcel enriched with its holding-period classification and
// its position in the ledger's chronological order.
type candidate struct {
	index    int // original chronological position, for stable tie-breaks
	parcel   Parcel
	daysHeld int
	longTerm bool
}

func enrich(parcels []Parcel, saleDate Date) []candidate {
	candidates := make([]candidate, 0, len(parcels))
	for i, p := range parcels {
		daysHeld, longTerm := Classify(p.PurchaseDate, saleDate)
		candidates = append(candidates, candidate{index: i, parcel: p, daysHeld: daysHeld, longTerm: longTerm})
	}
	return candidates
}

// consume walks candidates in order, taking units until the need is met.
// Taken units are recorded per original index so the caller can rebuild the
// remaining parcel list in chronological order.
func consume(candidates []candidate, needed Quantity, phase Phase, taken map[int]Quantity, selected *[]ConsumedLot) Quantity {
	for _, c := range candidates {
		if !needed.IsPositive() {
			break
		}
		take := needed.Min(c.parcel.Units)
		*selected = append(*selected, ConsumedLot{
			Parcel:     c.parcel,
			Units:      take,
			Commission: c.parcel.Commission.Mul(take).Div(c.parcel.Units),
			DaysHeld:   c.daysHeld,
			LongTerm:   c.longTerm,
			Phase:      phase,
		})
		taken[c.index] = taken[c.index].Add(take)
		needed = needed.Sub(take)
	}
	return needed
}

// leftovers rebuilds the remaining parcel list in the original chronological
// order, replacing partially-consumed parcels with their split remainder.
func leftovers(parcels []Parcel, taken map[int]Quantity) []Parcel {
	remaining := make([]Parcel, 0, len(parcels))
	for i, p := range parcels {
		t, ok := taken[i]
		if !ok || t.IsZero() {
			remaining = append(remaining, p)
			continue
		}
		if t.Equal(p.Units) {
			continue // fully consumed
		}
		remaining = append(remaining, p.split(t))
	}
	return remaining
}

// TaxOptimalPolicy is a two-phase greedy heuristic for Australian CGT:
// consume discount-eligible long-term parcels before any short-term parcel,
// and within each bucket consume the highest cost basis first to minimize the
// recognized gain. Ties are broken by original chronological order, so the
// selection is deterministic.
//
// This is a documented heuristic, not a proven global optimum: mixed
// gain/loss portfolios can have orderings where it is suboptimal.
type TaxOptimalPolicy struct{}

func (TaxOptimalPolicy) Name() string { return "tax-optimal" }

func (TaxOptimalPolicy) Select(parcels []Parcel, units Quantity, saleDate Date) ([]ConsumedLot, []Parcel, Quantity) {
	candidates := enrich(parcels, saleDate)

	var longTerm, shortTerm []candidate
	for _, c := range candidates {
		if c.longTerm {
			longTerm = append(longTerm, c)
		} else {
			shortTerm = append(shortTerm, c)
		}
	}
	byCostDesc := func(bucket []candidate) {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].parcel.CostPerUnit().GreaterThan(bucket[j].parcel.CostPerUnit())
		})
	}
	byCostDesc(longTerm)
	byCostDesc(shortTerm)

	var selected []ConsumedLot
	taken := make(map[int]Quantity)
	needed := consume(longTerm, units, LongTermPhase, taken, &selected)
	needed = consume(shortTerm, needed, ShortTermPhase, taken, &selected)

	return selected, leftovers(parcels, taken), needed
}

// FIFOPolicy consumes parcels in plain chronological order, oldest first,
// ignoring the long/short-term classification. Each lot still carries its
// classification for the downstream discount arithmetic.
type FIFOPolicy struct{}

func (FIFOPolicy) Name() string { return "fifo" }

func (FIFOPolicy) Select(parcels []Parcel, units Quantity, saleDate Date) ([]ConsumedLot, []Parcel, Quantity) {
	candidates := enrich(parcels, saleDate)

	var selected []ConsumedLot
	taken := make(map[int]Quantity)
	needed := consume(candidates, units, FIFOPhase, taken, &selected)

	return selected, leftovers(parcels, taken), needed
}
