// Package journal keeps the transactions of each account: options trades
// and cash moving in or out.
//
// A Book owns the accounts, their collections and the display settings.
// Its Selector decides which account is active and its Ledger reads and
// writes the active account's collection. A Book is not safe for
// concurrent use; callers serialize access.
package journal

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/rustyeddy/odyssey/trade"
)

var (
	// ErrNoActiveAccount is returned by ledger operations before any account is active.
	ErrNoActiveAccount = errors.New("no active account")
	// ErrAccountNotFound is returned when selecting an account that does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidTransaction marks a malformed deposit, withdrawal or envelope.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrIDsExhausted is returned when a collection already holds the largest id.
	ErrIDsExhausted = errors.New("transaction ids exhausted")
)

// Kind discriminates transactions.
type Kind string

const (
	KindTrade      Kind = "trade"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTrade, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

// Cash is money deposited into or withdrawn from an account.
type Cash struct {
	Amount float64
	Date   trade.Date
}

// Transaction is one entry of an account's collection. Trade is set for
// KindTrade, Cash for deposits and withdrawals.
type Transaction struct {
	ID    int
	Kind  Kind
	Notes string
	Trade *trade.Trade
	Cash  *Cash
}

func (t Transaction) IsTrade() bool { return t.Kind == KindTrade && t.Trade != nil }

// Date is the day the transaction counts on: the close date of a trade
// (its open date while still open), or the cash date.
func (t Transaction) Date() trade.Date {
	switch {
	case t.Trade != nil:
		if t.Trade.IsClosed() {
			return t.Trade.Close
		}
		return t.Trade.Open
	case t.Cash != nil:
		return t.Cash.Date
	}
	return trade.Date{}
}

// Amount is the signed effect on account value: net P&L for a trade,
// positive for deposits and negative for withdrawals.
func (t Transaction) Amount() float64 {
	switch t.Kind {
	case KindTrade:
		if t.Trade != nil {
			return t.Trade.PnL
		}
	case KindDeposit:
		if t.Cash != nil {
			return t.Cash.Amount
		}
	case KindWithdrawal:
		if t.Cash != nil {
			return -t.Cash.Amount
		}
	}
	return 0
}

func (t Transaction) clone() Transaction {
	if t.Trade != nil {
		tr := *t.Trade
		tr.Strikes = slices.Clone(tr.Strikes)
		t.Trade = &tr
	}
	if t.Cash != nil {
		c := *t.Cash
		t.Cash = &c
	}
	return t
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	v, err := r.build()
	if err != nil {
		return err
	}
	if r.ID != nil {
		v.ID = *r.ID
	}
	*t = v
	return nil
}
