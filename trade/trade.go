// Package trade holds a logged options position and the arithmetic that
// turns it into commission cost and realized P&L.
//
// Calculators are pure and never fail: malformed numbers propagate as NaN.
// Use Validate before storing a Trade.
package trade

import (
	"github.com/rustyeddy/odyssey/strategy"
)

// Trade is one logged options position.
//
// Quantity, EntryPrice and ExitPrice describe the primary leg. Ratio
// strategies also carry an independently sized second leg in Quantity2,
// EntryPrice2 and ExitPrice2; other strategies leave them zero.
type Trade struct {
	Ticker     string
	Strategy   strategy.Kind
	Open       Date
	Close      Date // zero while the position is open
	Expiration Date
	Strikes    []float64

	Quantity   int
	EntryPrice float64
	ExitPrice  float64

	Quantity2   int
	EntryPrice2 float64
	ExitPrice2  float64

	MaxRisk    float64 // 0 when unknown
	Expired    bool    // expired worthless instead of being closed
	Commission Commission
	Tags       string

	// PnL is the net P&L cached when the trade was stored.
	PnL float64
}

// Ratio reports whether t is a ratio spread.
func (t Trade) Ratio() bool {
	return t.Strategy.IsRatio()
}

// IsClosed reports whether the position has a close date.
func (t Trade) IsClosed() bool {
	return !t.Close.IsZero()
}

// Priced returns a copy of t with PnL recomputed.
func (t Trade) Priced() Trade {
	t.PnL = NetPnL(t)
	return t
}
