// Package strategy is the catalog of options strategies a trade can be
// logged under.
//
// Every strategy is a Kind. A Kind carries its leg layout, whether its two
// legs are sized independently (ratio spreads), its risk category and the
// direction used to sign its P&L. The catalog is the only place that
// direction is decided.
package strategy

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a strategy name is not in the catalog.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind identifies a strategy. The zero value is not a strategy.
type Kind int

const (
	Unknown Kind = iota
	LongCall
	LongPut
	ShortCall
	ShortPut
	LongCallSpread
	LongPutSpread
	ShortCallSpread
	ShortPutSpread
	CalendarSpread
	LongRatioSpread
	ShortRatioSpread
	LongStraddle
	ShortStraddle
	LongStrangle
	ShortStrangle
	LongButterfly
	ShortButterfly
	ShortIronCondor
	ShortIronButterfly
)

// Risk is the risk category shown next to a strategy.
type Risk string

const (
	RiskDebit      Risk = "debit"
	RiskCredit     Risk = "credit"
	RiskCollateral Risk = "collateral"
	RiskSpread     Risk = "spread"
	RiskUndefined  Risk = "undefined"
	RiskCustom     Risk = "custom"
)

// Direction says which way a price move is profitable.
type Direction int

const (
	// Debit positions are bought: exit above entry is a profit.
	Debit Direction = iota + 1
	// Credit positions are sold: exit below entry is a profit.
	Credit
)

func (d Direction) String() string {
	switch d {
	case Debit:
		return "debit"
	case Credit:
		return "credit"
	default:
		return "unknown"
	}
}

// Mirror returns the opposite direction.
func (d Direction) Mirror() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// Spec describes a strategy.
//
// For ratio strategies Direction applies to the first leg and the second
// leg is traded the other way.
type Spec struct {
	Name        string
	Strikes     []string
	Risk        Risk
	Ratio       bool
	Expirations int
	Direction   Direction
}

var catalog = map[Kind]Spec{
	LongCall:           {Name: "Long Call", Strikes: []string{"Strike"}, Risk: RiskDebit, Direction: Debit},
	LongPut:            {Name: "Long Put", Strikes: []string{"Strike"}, Risk: RiskDebit, Direction: Debit},
	ShortCall:          {Name: "Short Call", Strikes: []string{"Strike"}, Risk: RiskUndefined, Direction: Credit},
	ShortPut:           {Name: "Short Put", Strikes: []string{"Strike"}, Risk: RiskCollateral, Direction: Credit},
	LongCallSpread:     {Name: "Long Call Spread", Strikes: []string{"Long Strike", "Short Strike"}, Risk: RiskDebit, Direction: Debit},
	LongPutSpread:      {Name: "Long Put Spread", Strikes: []string{"Short Strike", "Long Strike"}, Risk: RiskDebit, Direction: Debit},
	ShortCallSpread:    {Name: "Short Call Spread", Strikes: []string{"Short Strike", "Long Strike"}, Risk: RiskSpread, Direction: Credit},
	ShortPutSpread:     {Name: "Short Put Spread", Strikes: []string{"Short Strike", "Long Strike"}, Risk: RiskSpread, Direction: Credit},
	CalendarSpread:     {Name: "Calendar Spread", Strikes: []string{"Strike"}, Risk: RiskDebit, Expirations: 2, Direction: Debit},
	LongRatioSpread:    {Name: "Long Ratio Spread", Strikes: []string{"Long Strike", "Short Strike"}, Risk: RiskCustom, Ratio: true, Direction: Debit},
	ShortRatioSpread:   {Name: "Short Ratio Spread", Strikes: []string{"Short Strike", "Long Strike"}, Risk: RiskCustom, Ratio: true, Direction: Credit},
	LongStraddle:       {Name: "Long Straddle", Strikes: []string{"Strike"}, Risk: RiskDebit, Direction: Debit},
	ShortStraddle:      {Name: "Short Straddle", Strikes: []string{"Strike"}, Risk: RiskUndefined, Direction: Credit},
	LongStrangle:       {Name: "Long Strangle", Strikes: []string{"Put Strike", "Call Strike"}, Risk: RiskDebit, Direction: Debit},
	ShortStrangle:      {Name: "Short Strangle", Strikes: []string{"Put Strike", "Call Strike"}, Risk: RiskUndefined, Direction: Credit},
	LongButterfly:      {Name: "Long Butterfly", Strikes: []string{"Low Strike", "Mid Strike", "High Strike"}, Risk: RiskDebit, Direction: Debit},
	ShortButterfly:     {Name: "Short Butterfly", Strikes: []string{"Low Strike", "Mid Strike", "High Strike"}, Risk: RiskCredit, Direction: Credit},
	ShortIronCondor:    {Name: "Short Iron Condor", Strikes: []string{"Long Put", "Short Put", "Short Call", "Long Call"}, Risk: RiskSpread, Direction: Credit},
	ShortIronButterfly: {Name: "Short Iron Butterfly", Strikes: []string{"Long Put", "Short Strike", "Long Call"}, Risk: RiskSpread, Direction: Credit},
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(catalog))
	for k, s := range catalog {
		m[s.Name] = k
	}
	return m
}()

// All returns every strategy in catalog order.
func All() []Kind {
	out := make([]Kind, 0, len(catalog))
	for k := LongCall; k <= ShortIronButterfly; k++ {
		out = append(out, k)
	}
	return out
}

// Lookup returns the strategy with the given display name.
func Lookup(name string) (Kind, error) {
	k, ok := byName[name]
	if !ok {
		return Unknown, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return k, nil
}

// Valid reports whether k is in the catalog.
func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

// Spec returns the catalog entry for k. Unknown kinds return the zero Spec.
func (k Kind) Spec() Spec {
	return catalog[k]
}

func (k Kind) String() string {
	if s, ok := catalog[k]; ok {
		return s.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Legs returns the number of strikes the strategy is entered with.
func (k Kind) Legs() int { return len(catalog[k].Strikes) }

// IsRatio reports whether the strategy has an independently sized second leg.
func (k Kind) IsRatio() bool { return catalog[k].Ratio }

// Direction returns the P&L direction of the strategy (of its first leg for ratio spreads).
func (k Kind) Direction() Direction { return catalog[k].Direction }

// MarshalText encodes k as its display name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a display name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := Lookup(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
