package journal

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rustyeddy/odyssey/strategy"
	"github.com/rustyeddy/odyssey/trade"
)

// Record is the flat wire form of a Transaction, as submitted by a caller
// and as persisted in a Document. A nil field is absent: on update it
// leaves the stored value untouched.
//
// Ratio and PnL are derived. They are written out but ignored on input.
type Record struct {
	ID              *int    `json:"id,omitempty"`
	TransactionType *Kind   `json:"transaction_type,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	Ticker            *string     `json:"ticker,omitempty"`
	Type              *string     `json:"type,omitempty"`
	Open              *trade.Date `json:"open,omitempty"`
	Close             *trade.Date `json:"close,omitempty"`
	Expiration        *trade.Date `json:"expiration,omitempty"`
	Strikes           []float64   `json:"strikes,omitempty"`
	Quantity          *int        `json:"quantity,omitempty"`
	Quantity2         *int        `json:"quantity_2,omitempty"`
	EntryPrice        *float64    `json:"entry_price,omitempty"`
	ExitPrice         *float64    `json:"exit_price,omitempty"`
	EntryPrice2       *float64    `json:"entry_price_2,omitempty"`
	ExitPrice2        *float64    `json:"exit_price_2,omitempty"`
	MaxRisk           *float64    `json:"max_risk,omitempty"`
	IsExpired         *bool       `json:"isExpired,omitempty"`
	Ratio             *bool       `json:"ratio,omitempty"`
	Commissions       *float64    `json:"commissions,omitempty"`
	OpeningCommission *float64    `json:"opening_commission,omitempty"`
	ClosingCommission *float64    `json:"closing_commission,omitempty"`
	Tags              *string     `json:"tags,omitempty"`
	PnL               *float64    `json:"pnl,omitempty"`

	Amount *float64    `json:"amount,omitempty"`
	Date   *trade.Date `json:"date,omitempty"`
}

// Ptr returns a pointer to v, for filling in a Record.
func Ptr[T any](v T) *T { return &v }

// Record returns the wire form of t.
func (t Transaction) Record() Record {
	r := Record{
		ID:              Ptr(t.ID),
		TransactionType: Ptr(t.Kind),
		Notes:           Ptr(t.Notes),
	}
	if tr := t.Trade; tr != nil {
		r.Ticker = Ptr(tr.Ticker)
		r.Type = Ptr(tr.Strategy.String())
		r.Open = Ptr(tr.Open)
		r.Close = Ptr(tr.Close)
		r.Expiration = Ptr(tr.Expiration)
		r.Strikes = slices.Clone(tr.Strikes)
		r.Quantity = Ptr(tr.Quantity)
		r.EntryPrice = Ptr(tr.EntryPrice)
		r.ExitPrice = Ptr(tr.ExitPrice)
		if tr.Ratio() {
			r.Quantity2 = Ptr(tr.Quantity2)
			r.EntryPrice2 = Ptr(tr.EntryPrice2)
			r.ExitPrice2 = Ptr(tr.ExitPrice2)
		}
		r.MaxRisk = Ptr(tr.MaxRisk)
		r.IsExpired = Ptr(tr.Expired)
		r.Ratio = Ptr(tr.Ratio())
		if rate, ok := tr.Commission.Flat(); ok {
			r.Commissions = Ptr(rate)
		}
		if o, c, ok := tr.Commission.Pair(); ok {
			r.OpeningCommission = Ptr(o)
			r.ClosingCommission = Ptr(c)
		}
		r.Tags = Ptr(tr.Tags)
		r.PnL = Ptr(tr.PnL)
	}
	if c := t.Cash; c != nil {
		r.Amount = Ptr(c.Amount)
		r.Date = Ptr(c.Date)
	}
	return r
}

// overlay returns r with every field set in patch replacing its own.
func (r Record) overlay(patch Record) Record {
	if patch.TransactionType != nil {
		r.TransactionType = patch.TransactionType
	}
	if patch.Notes != nil {
		r.Notes = patch.Notes
	}
	if patch.Ticker != nil {
		r.Ticker = patch.Ticker
	}
	if patch.Type != nil {
		r.Type = patch.Type
		// A second leg only survives a strategy change to another ratio spread.
		if k, err := strategy.Lookup(*patch.Type); err != nil || !k.IsRatio() {
			r.Quantity2, r.EntryPrice2, r.ExitPrice2 = nil, nil, nil
		}
	}
	if patch.Open != nil {
		r.Open = patch.Open
	}
	if patch.Close != nil {
		r.Close = patch.Close
	}
	if patch.Expiration != nil {
		r.Expiration = patch.Expiration
	}
	if patch.Strikes != nil {
		r.Strikes = slices.Clone(patch.Strikes)
	}
	if patch.Quantity != nil {
		r.Quantity = patch.Quantity
	}
	if patch.Quantity2 != nil {
		r.Quantity2 = patch.Quantity2
	}
	if patch.EntryPrice != nil {
		r.EntryPrice = patch.EntryPrice
	}
	if patch.ExitPrice != nil {
		r.ExitPrice = patch.ExitPrice
	}
	if patch.EntryPrice2 != nil {
		r.EntryPrice2 = patch.EntryPrice2
	}
	if patch.ExitPrice2 != nil {
		r.ExitPrice2 = patch.ExitPrice2
	}
	if patch.MaxRisk != nil {
		r.MaxRisk = patch.MaxRisk
	}
	if patch.IsExpired != nil {
		r.IsExpired = patch.IsExpired
	}
	// Switching commission representation drops the other one.
	if patch.Commissions != nil {
		r.Commissions = patch.Commissions
		if patch.OpeningCommission == nil && patch.ClosingCommission == nil {
			r.OpeningCommission, r.ClosingCommission = nil, nil
		}
	}
	if patch.OpeningCommission != nil || patch.ClosingCommission != nil {
		if patch.Commissions == nil {
			r.Commissions = nil
		}
		if patch.OpeningCommission != nil {
			r.OpeningCommission = patch.OpeningCommission
		}
		if patch.ClosingCommission != nil {
			r.ClosingCommission = patch.ClosingCommission
		}
	}
	if patch.Tags != nil {
		r.Tags = patch.Tags
	}
	if patch.Amount != nil {
		r.Amount = patch.Amount
	}
	if patch.Date != nil {
		r.Date = patch.Date
	}
	return r
}

// checkFields rejects fields set in r that a transaction of the given kind
// does not carry. The derived ratio and pnl fields are never checked.
func (r Record) checkFields(kind Kind) error {
	var stray []string
	add := func(name string, set bool) {
		if set {
			stray = append(stray, name)
		}
	}
	switch kind {
	case KindTrade:
		add("amount", r.Amount != nil)
		add("date", r.Date != nil)
	case KindDeposit, KindWithdrawal:
		add("ticker", r.Ticker != nil)
		add("type", r.Type != nil)
		add("open", r.Open != nil)
		add("close", r.Close != nil)
		add("expiration", r.Expiration != nil)
		add("strikes", r.Strikes != nil)
		add("quantity", r.Quantity != nil)
		add("quantity_2", r.Quantity2 != nil)
		add("entry_price", r.EntryPrice != nil)
		add("exit_price", r.ExitPrice != nil)
		add("entry_price_2", r.EntryPrice2 != nil)
		add("exit_price_2", r.ExitPrice2 != nil)
		add("max_risk", r.MaxRisk != nil)
		add("isExpired", r.IsExpired != nil)
		add("commissions", r.Commissions != nil)
		add("opening_commission", r.OpeningCommission != nil)
		add("closing_commission", r.ClosingCommission != nil)
		add("tags", r.Tags != nil)
	default:
		return nil
	}

	if len(stray) > 0 {
		return fmt.Errorf("%w: a %s has no %s", ErrInvalidTransaction, kind, strings.Join(stray, ", "))
	}
	return nil
}

// build turns r into a validated Transaction with its P&L computed. The ID
// is left for the caller.
func (r Record) build() (Transaction, error) {
	if r.TransactionType == nil {
		return Transaction{}, fmt.Errorf("%w: transaction_type is required", ErrInvalidTransaction)
	}
	tx := Transaction{Kind: *r.TransactionType}
	if r.Notes != nil {
		tx.Notes = *r.Notes
	}

	switch tx.Kind {
	case KindTrade:
		tr, err := r.buildTrade()
		if err != nil {
			return Transaction{}, err
		}
		tx.Trade = &tr
	case KindDeposit, KindWithdrawal:
		c, err := r.buildCash()
		if err != nil {
			return Transaction{}, err
		}
		tx.Cash = &c
	default:
		return Transaction{}, fmt.Errorf("%w: unknown transaction_type %q", ErrInvalidTransaction, tx.Kind)
	}
	return tx, nil
}

func (r Record) buildTrade() (trade.Trade, error) {
	var missing []string
	need := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	need("ticker", r.Ticker != nil)
	need("type", r.Type != nil)
	need("open", r.Open != nil)
	need("quantity", r.Quantity != nil)
	need("entry_price", r.EntryPrice != nil)
	need("exit_price", r.ExitPrice != nil)
	if len(missing) > 0 {
		return trade.Trade{}, fmt.Errorf("%w: missing %s", trade.ErrInvalidTrade, strings.Join(missing, ", "))
	}

	kind, err := strategy.Lookup(*r.Type)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: %w", trade.ErrInvalidTrade, err)
	}

	tr := trade.Trade{
		Ticker:     strings.ToUpper(strings.TrimSpace(*r.Ticker)),
		Strategy:   kind,
		Open:       *r.Open,
		Strikes:    slices.Clone(r.Strikes),
		Quantity:   *r.Quantity,
		EntryPrice: *r.EntryPrice,
		ExitPrice:  *r.ExitPrice,
	}
	if r.Close != nil {
		tr.Close = *r.Close
	}
	if r.Expiration != nil {
		tr.Expiration = *r.Expiration
	}
	if r.MaxRisk != nil {
		tr.MaxRisk = *r.MaxRisk
	}
	if r.IsExpired != nil {
		tr.Expired = *r.IsExpired
	}
	if r.Tags != nil {
		tr.Tags = *r.Tags
	}

	secondLeg := r.Quantity2 != nil || r.EntryPrice2 != nil || r.ExitPrice2 != nil
	switch {
	case kind.IsRatio():
		missing = nil
		need("quantity_2", r.Quantity2 != nil)
		need("entry_price_2", r.EntryPrice2 != nil)
		need("exit_price_2", r.ExitPrice2 != nil)
		if len(missing) > 0 {
			return trade.Trade{}, fmt.Errorf("%w: %s needs %s", trade.ErrInvalidTrade, kind, strings.Join(missing, ", "))
		}
		tr.Quantity2 = *r.Quantity2
		tr.EntryPrice2 = *r.EntryPrice2
		tr.ExitPrice2 = *r.ExitPrice2
	case secondLeg:
		return trade.Trade{}, fmt.Errorf("%w: %s has no second leg", trade.ErrInvalidTrade, kind)
	}

	c, err := r.commission()
	if err != nil {
		return trade.Trade{}, err
	}
	tr.Commission = c

	if err := trade.Validate(tr); err != nil {
		return trade.Trade{}, err
	}
	return tr.Priced(), nil
}

func (r Record) commission() (trade.Commission, error) {
	pair := r.OpeningCommission != nil || r.ClosingCommission != nil
	switch {
	case r.Commissions != nil && pair:
		return trade.Commission{}, fmt.Errorf("%w: give either commissions or opening/closing commissions, not both", trade.ErrInvalidTrade)
	case r.Commissions != nil:
		return trade.FlatRate(*r.Commissions), nil
	case r.OpeningCommission != nil && r.ClosingCommission != nil:
		return trade.OpenClose(*r.OpeningCommission, *r.ClosingCommission), nil
	case pair:
		return trade.Commission{}, fmt.Errorf("%w: opening and closing commissions go together", trade.ErrInvalidTrade)
	}
	return trade.Commission{}, fmt.Errorf("%w: a commission rate is required", trade.ErrInvalidTrade)
}

func (r Record) buildCash() (Cash, error) {
	var errs []error
	if r.Amount == nil {
		errs = append(errs, errors.New("amount is required"))
	} else if a := *r.Amount; math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		errs = append(errs, fmt.Errorf("amount must be a positive number, got %v", a))
	}
	if r.Date == nil || r.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if len(errs) > 0 {
		return Cash{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, errors.Join(errs...))
	}
	return Cash{Amount: *r.Amount, Date: *r.Date}, nil
}
