package trade

import "github.com/rustyeddy/odyssey/strategy"

// Multiplier is the number of shares one option contract controls.
const Multiplier = 100

func legPnL(d strategy.Direction, entry, exit float64, qty int) float64 {
	move := entry - exit
	if d == strategy.Debit {
		move = exit - entry
	}
	return move * float64(qty) * Multiplier
}

// RawPnL returns the realized P&L of t before commissions.
//
// The strategy's direction signs the primary leg. The second leg of a
// ratio spread is traded the other way and is signed with the mirrored
// direction.
func RawPnL(t Trade) float64 {
	dir := t.Strategy.Direction()
	pnl := legPnL(dir, t.EntryPrice, t.ExitPrice, t.Quantity)
	if t.Ratio() {
		pnl += legPnL(dir.Mirror(), t.EntryPrice2, t.ExitPrice2, t.Quantity2)
	}
	return pnl
}

// NetPnL returns RawPnL less CommissionCost.
func NetPnL(t Trade) float64 {
	return RawPnL(t) - CommissionCost(t)
}

// ReturnOnRisk returns RawPnL as a percentage of MaxRisk. A MaxRisk of
// zero means the risk is unknown and ok is false.
func ReturnOnRisk(t Trade) (pct float64, ok bool) {
	if !(t.MaxRisk > 0) {
		return 0, false
	}
	return RawPnL(t) / t.MaxRisk * 100, true
}

// DurationDays returns the number of days the position was held.
func DurationDays(t Trade) (int, bool) {
	if !t.IsClosed() || t.Open.IsZero() {
		return 0, false
	}
	return t.Open.DaysUntil(t.Close), true
}
