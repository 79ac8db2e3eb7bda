package cgt

import "fmt"

// Parcel is a discrete purchase record of units of a security at a specific
// historical cost. Parcels are immutable values: consuming part of a parcel
// produces a reduced-units replacement plus a consumed-lot record, never a
// mutation.
type Parcel struct {
	Symbol       string
	PurchaseDate Date
	Units        Quantity // always > 0
	UnitPrice    Money
	Commission   Money // total commission paid on the purchase, >= 0
}

// Currency returns the currency the parcel's amounts are expressed in.
func (p Parcel) Currency() string { return p.UnitPrice.Currency() }

// CostPerUnit is the per-unit acquisition cost: unit price plus the
// commission spread over the parcel's units.
func (p Parcel) CostPerUnit() Money {
	return p.UnitPrice.Add(p.Commission.Div(p.Units))
}

// TotalCost is the parcel's total acquisition cost.
func (p Parcel) TotalCost() Money { return p.CostPerUnit().Mul(p.Units) }

// split returns the parcel reduced by take units. The commission of the
// remainder is scaled by the retained-unit proportion, so cost per unit is
// preserved across the split.
func (p Parcel) split(take Quantity) Parcel {
	remaining := p.Units.Sub(take)
	r := p
	r.Units = remaining
	r.Commission = p.Commission.Mul(remaining).Div(p.Units)
	return r
}

func (p Parcel) String() string {
	return fmt.Sprintf("%s %s units @ %s on %s", p.Symbol, p.Units, p.CostPerUnit(), p.PurchaseDate)
}

// Sale is a disposal event to be matched against the ledger.
type Sale struct {
	Symbol     string
	TradeDate  Date
	Quantity   Quantity // always > 0
	UnitPrice  Money
	Commission Money // total commission paid on the sale, >= 0
}

// Currency returns the currency the sale's amounts are expressed in.
func (s Sale) Currency() string { return s.UnitPrice.Currency() }

// Phase tags which selection phase produced a consumed lot.
type Phase int

const (
	// LongTermPhase marks lots taken by the tax-optimal policy's first pass
	// over discount-eligible parcels.
	LongTermPhase Phase = iota
	// ShortTermPhase marks lots taken by the tax-optimal policy's second pass.
	ShortTermPhase
	// FIFOPhase marks lots taken in plain chronological order.
	FIFOPhase
)

func (p Phase) String() string {
	switch p {
	case LongTermPhase:
		return "LONG-TERM"
	case ShortTermPhase:
		return "SHORT-TERM"
	case FIFOPhase:
		return "FIFO"
	default:
		return "unknown"
	}
}

// ConsumedLot records the portion of a parcel consumed by a sale, together
// with the holding-period classification computed at selection time.
type ConsumedLot struct {
	Parcel     Parcel   // the originating parcel, before the split
	Units      Quantity // units consumed from it
	Commission Money    // purchase commission, proportional to units consumed
	DaysHeld   int
	LongTerm   bool
	Phase      Phase
}

// PurchaseDate returns the acquisition date of the originating parcel.
func (c ConsumedLot) PurchaseDate() Date { return c.Parcel.PurchaseDate }

// CostPerUnit returns the per-unit acquisition cost of the originating parcel.
func (c ConsumedLot) CostPerUnit() Money { return c.Parcel.CostPerUnit() }

// CostBasis is the total acquisition cost attributable to the consumed units.
func (c ConsumedLot) CostBasis() Money { return c.CostPerUnit().Mul(c.Units) }
