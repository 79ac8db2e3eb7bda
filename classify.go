package cgt

// LongTermHoldingDays is the minimum holding period, in calendar days, for a
// disposal to qualify for the CGT discount.
const LongTermHoldingDays = 365

// Classify computes the holding period between a purchase and a sale.
// It reports the number of calendar days held and whether the holding
// qualifies as long-term (at least 365 days, strict day difference with no
// partial-day or leap adjustment).
func Classify(purchase, sale Date) (daysHeld int, longTerm bool) {
	daysHeld = sale.Sub(purchase)
	return daysHeld, daysHeld >= LongTermHoldingDays
}
