package trade

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/odyssey/strategy"
)

// ErrInvalidTrade marks a trade that must not reach the calculators.
var ErrInvalidTrade = errors.New("invalid trade")

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate checks t and returns every problem found, wrapped in
// ErrInvalidTrade.
func Validate(t Trade) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if t.Ticker == "" {
		add("ticker is required")
	}
	if !t.Strategy.Valid() {
		add("%w: %v", strategy.ErrUnknownStrategy, t.Strategy)
	}
	if t.Open.IsZero() {
		add("open date is required")
	}
	if t.IsClosed() && t.Close.Before(t.Open) {
		add("close %s is before open %s", t.Close, t.Open)
	}

	if t.Quantity <= 0 {
		add("quantity must be positive, got %d", t.Quantity)
	}
	checkPrice := func(name string, p float64) {
		if !finite(p) || p < 0 {
			add("%s must be a non-negative number, got %v", name, p)
		}
	}
	checkPrice("entry_price", t.EntryPrice)
	checkPrice("exit_price", t.ExitPrice)

	if t.Ratio() {
		if t.Quantity2 <= 0 {
			add("quantity_2 must be positive for %s, got %d", t.Strategy, t.Quantity2)
		}
		checkPrice("entry_price_2", t.EntryPrice2)
		checkPrice("exit_price_2", t.ExitPrice2)
	} else if t.Quantity2 != 0 || t.EntryPrice2 != 0 || t.ExitPrice2 != 0 {
		add("second leg is only allowed on ratio strategies")
	}

	if t.Commission.IsZero() {
		add("a commission rate is required")
	}
	for _, r := range t.Commission.rates() {
		if !finite(r) || r < 0 {
			add("commission must be a non-negative number, got %v", r)
		}
	}

	if !finite(t.MaxRisk) || t.MaxRisk < 0 {
		add("max_risk must be a non-negative number, got %v", t.MaxRisk)
	}

	if len(t.Strikes) > 0 && t.Strategy.Valid() && len(t.Strikes) != t.Strategy.Legs() {
		add("%s takes %d strikes, got %d", t.Strategy, t.Strategy.Legs(), len(t.Strikes))
	}
	for _, k := range t.Strikes {
		if !finite(k) || k <= 0 {
			add("strike must be a positive number, got %v", k)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTrade, errors.Join(errs...))
}
