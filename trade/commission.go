package trade

import (
	"fmt"
	"math"
)

type commissionKind int

const (
	noCommission commissionKind = iota
	flatCommission
	pairCommission
)

// Commission is how a trade was charged: either one flat per-contract
// rate, charged on each side that actually traded, or explicit opening and
// closing rates per contract. The zero value is neither and is invalid.
type Commission struct {
	kind    commissionKind
	rate    float64
	opening float64
	closing float64
}

// FlatRate is a per-contract rate charged once when the position is opened
// and once more when it is closed.
func FlatRate(rate float64) Commission {
	return Commission{kind: flatCommission, rate: rate}
}

// OpenClose holds explicit per-contract opening and closing rates.
func OpenClose(opening, closing float64) Commission {
	return Commission{kind: pairCommission, opening: opening, closing: closing}
}

func (c Commission) IsZero() bool { return c.kind == noCommission }

// Flat returns the flat rate, if c is a flat rate.
func (c Commission) Flat() (float64, bool) {
	return c.rate, c.kind == flatCommission
}

// Pair returns the opening and closing rates, if c holds explicit rates.
func (c Commission) Pair() (opening, closing float64, ok bool) {
	return c.opening, c.closing, c.kind == pairCommission
}

func (c Commission) rates() []float64 {
	switch c.kind {
	case flatCommission:
		return []float64{c.rate}
	case pairCommission:
		return []float64{c.opening, c.closing}
	}
	return nil
}

func (c Commission) String() string {
	switch c.kind {
	case flatCommission:
		return fmt.Sprintf("%.2f/contract", c.rate)
	case pairCommission:
		return fmt.Sprintf("%.2f open + %.2f close/contract", c.opening, c.closing)
	}
	return "none"
}

// CommissionCost returns the total commission paid on t.
//
// Explicit rates apply to the combined quantity of both legs. A flat rate
// is charged per leg, on the opening side only when the position expired
// worthless and on both sides otherwise. A trade without a commission
// yields NaN.
func CommissionCost(t Trade) float64 {
	c := t.Commission
	switch c.kind {
	case pairCommission:
		qty := t.Quantity
		if t.Ratio() {
			qty += t.Quantity2
		}
		return (c.opening + c.closing) * float64(qty)
	case flatCommission:
		sides := 2.0
		if t.Expired {
			sides = 1
		}
		cost := c.rate * float64(t.Quantity) * sides
		if t.Ratio() {
			cost += c.rate * float64(t.Quantity2) * sides
		}
		return cost
	}
	return math.NaN()
}
