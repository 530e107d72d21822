package journal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/odyssey/trade"
)

func putSpread() Record {
	return Record{
		TransactionType: Ptr(KindTrade),
		Ticker:          Ptr("spy"),
		Type:            Ptr("Short Put Spread"),
		Open:            Ptr(trade.NewDate(2024, 3, 1)),
		Close:           Ptr(trade.NewDate(2024, 3, 15)),
		Expiration:      Ptr(trade.NewDate(2024, 3, 15)),
		Strikes:         []float64{500, 495},
		Quantity:        Ptr(2),
		EntryPrice:      Ptr(1.50),
		ExitPrice:       Ptr(0.50),
		MaxRisk:         Ptr(700.0),
		Commissions:     Ptr(0.65),
	}
}

func deposit(amount float64) Record {
	return Record{
		TransactionType: Ptr(KindDeposit),
		Amount:          Ptr(amount),
		Date:            Ptr(trade.NewDate(2024, 1, 2)),
	}
}

func mustAdd(t *testing.T, l *Ledger, r Record) Transaction {
	t.Helper()
	tx, applied, err := l.AddOrUpdate(r)
	require.NoError(t, err)
	require.True(t, applied)
	return tx
}

func TestLedgerAddAssignsIDs(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()

	a := mustAdd(t, l, putSpread())
	b := mustAdd(t, l, deposit(1000))
	assert.Equal(t, 0, a.ID)
	assert.Equal(t, 1, b.ID)

	ok, err := l.Delete(0)
	require.NoError(t, err)
	assert.True(t, ok)

	c := mustAdd(t, l, deposit(50))
	assert.Equal(t, 2, c.ID)

	txs, err := l.List()
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 1, txs[0].ID)
	assert.Equal(t, 2, txs[1].ID)

	l2 := NewBook("").Ledger()
	mustAdd(t, l2, deposit(10))
	ok, err = l2.Delete(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, mustAdd(t, l2, deposit(20)).ID)
}

func TestLedgerAddComputesPnL(t *testing.T) {
	t.Parallel()

	tx := mustAdd(t, NewBook("").Ledger(), putSpread())

	require.True(t, tx.IsTrade())
	assert.Equal(t, "SPY", tx.Trade.Ticker)
	assert.InDelta(t, 197.4, tx.Trade.PnL, 1e-9)
	assert.InDelta(t, 197.4, tx.Amount(), 1e-9)
}

func TestLedgerPartialUpdate(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	orig := mustAdd(t, l, putSpread())

	tx, applied, err := l.AddOrUpdate(Record{ID: Ptr(orig.ID), Notes: Ptr("rolled early")})
	require.NoError(t, err)
	require.True(t, applied)

	assert.Equal(t, "rolled early", tx.Notes)
	orig.Notes = "rolled early"
	assert.Equal(t, orig, tx)

	tx, _, err = l.AddOrUpdate(Record{ID: Ptr(orig.ID), ExitPrice: Ptr(1.0)})
	require.NoError(t, err)
	assert.InDelta(t, 100-2.6, tx.Trade.PnL, 1e-9)
	assert.Equal(t, "rolled early", tx.Notes)
}

func TestLedgerUpdateSwitchesCommission(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	orig := mustAdd(t, l, putSpread())

	tx, _, err := l.AddOrUpdate(Record{
		ID:                Ptr(orig.ID),
		OpeningCommission: Ptr(1.0),
		ClosingCommission: Ptr(0.5),
	})
	require.NoError(t, err)

	o, c, ok := tx.Trade.Commission.Pair()
	require.True(t, ok)
	assert.Equal(t, 1.0, o)
	assert.Equal(t, 0.5, c)
	assert.InDelta(t, 200-3.0, tx.Trade.PnL, 1e-9)
}

func TestLedgerUpdateUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	mustAdd(t, l, putSpread())

	_, applied, err := l.AddOrUpdate(Record{ID: Ptr(42), Notes: Ptr("x")})
	require.NoError(t, err)
	assert.False(t, applied)

	txs, err := l.List()
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Empty(t, txs[0].Notes)
}

func TestLedgerUpdateInvalidLeavesStored(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	orig := mustAdd(t, l, putSpread())

	_, _, err := l.AddOrUpdate(Record{ID: Ptr(orig.ID), Quantity: Ptr(0)})
	require.ErrorIs(t, err, trade.ErrInvalidTrade)

	got, ok, err := l.Get(orig.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, orig, got)
}

func TestLedgerDeleteUnknown(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	mustAdd(t, l, putSpread())

	ok, err := l.Delete(7)
	require.NoError(t, err)
	assert.False(t, ok)

	txs, err := l.List()
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestLedgerRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mut  func(*Record)
		err  error
	}{
		{"no type", func(r *Record) { r.TransactionType = nil }, ErrInvalidTransaction},
		{"bad kind", func(r *Record) { r.TransactionType = Ptr(Kind("transfer")) }, ErrInvalidTransaction},
		{"unknown strategy", func(r *Record) { r.Type = Ptr("Jade Lizard") }, trade.ErrInvalidTrade},
		{"missing ticker", func(r *Record) { r.Ticker = nil }, trade.ErrInvalidTrade},
		{"no commission", func(r *Record) { r.Commissions = nil }, trade.ErrInvalidTrade},
		{"both commissions", func(r *Record) { r.OpeningCommission = Ptr(1.0); r.ClosingCommission = Ptr(1.0) }, trade.ErrInvalidTrade},
		{"half pair", func(r *Record) { r.Commissions = nil; r.OpeningCommission = Ptr(1.0) }, trade.ErrInvalidTrade},
		{"second leg", func(r *Record) { r.Quantity2 = Ptr(1) }, trade.ErrInvalidTrade},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewBook("").Ledger()
			r := putSpread()
			tt.mut(&r)

			_, applied, err := l.AddOrUpdate(r)
			require.ErrorIs(t, err, tt.err)
			assert.False(t, applied)

			txs, err := l.List()
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

func TestLedgerCash(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()

	_, _, err := l.AddOrUpdate(deposit(-5))
	require.ErrorIs(t, err, ErrInvalidTransaction)

	r := deposit(300)
	r.TransactionType = Ptr(KindWithdrawal)
	tx := mustAdd(t, l, r)
	assert.Equal(t, -300.0, tx.Amount())
	assert.Equal(t, trade.NewDate(2024, 1, 2), tx.Date())
}

func TestLedgerRatioTrade(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	r := Record{
		TransactionType: Ptr(KindTrade),
		Ticker:          Ptr("QQQ"),
		Type:            Ptr("Long Ratio Spread"),
		Open:            Ptr(trade.NewDate(2024, 5, 1)),
		Quantity:        Ptr(1),
		EntryPrice:      Ptr(3.0),
		ExitPrice:       Ptr(4.0),
		Commissions:     Ptr(0.65),
	}

	_, _, err := l.AddOrUpdate(r)
	require.ErrorIs(t, err, trade.ErrInvalidTrade)

	r.Quantity2 = Ptr(2)
	r.EntryPrice2 = Ptr(1.0)
	r.ExitPrice2 = Ptr(1.5)
	tx := mustAdd(t, l, r)
	assert.True(t, tx.Trade.Ratio())
	// (4-3)*1*100 + (1-1.5)*2*100 less 0.65*(1+2)*2
	assert.InDelta(t, 100-100-3.9, tx.Trade.PnL, 1e-9)

	// Moving to a single-leg strategy drops the second leg.
	tx, _, err = l.AddOrUpdate(Record{ID: Ptr(tx.ID), Type: Ptr("Long Call")})
	require.NoError(t, err)
	assert.False(t, tx.Trade.Ratio())
	assert.Zero(t, tx.Trade.Quantity2)
}

func TestLedgerAccountsAreIsolated(t *testing.T) {
	t.Parallel()

	b := NewBook("Main")
	first, err := b.Selector().Active()
	require.NoError(t, err)
	mustAdd(t, b.Ledger(), putSpread())

	second := b.AddAccount("")
	assert.Equal(t, "Account 2", second.Name)
	assert.Equal(t, first.ID, b.Selector().ActiveID(), "adding an account keeps the active one")

	require.NoError(t, b.Selector().SetActive(second.ID))
	txs, err := b.Ledger().List()
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Equal(t, 0, mustAdd(t, b.Ledger(), deposit(10)).ID)

	err = b.Selector().SetActive("acc_missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, second.ID, b.Selector().ActiveID())

	require.NoError(t, b.Selector().SetActive(first.ID))
	txs, err = b.Ledger().List()
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, KindTrade, txs[0].Kind)
}

func TestLedgerNoActiveAccount(t *testing.T) {
	t.Parallel()

	b, err := FromDocument(Document{})
	require.NoError(t, err)

	l := b.Ledger()
	_, err = l.List()
	assert.ErrorIs(t, err, ErrNoActiveAccount)
	_, _, err = l.AddOrUpdate(deposit(1))
	assert.ErrorIs(t, err, ErrNoActiveAccount)
	_, err = l.Delete(0)
	assert.ErrorIs(t, err, ErrNoActiveAccount)
	_, _, err = l.Get(0)
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

func TestLedgerListReturnsCopies(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	mustAdd(t, l, putSpread())

	txs, err := l.List()
	require.NoError(t, err)
	txs[0].Trade.Strikes[0] = 1
	txs[0].Notes = "changed"

	again, err := l.List()
	require.NoError(t, err)
	assert.Equal(t, 500.0, again[0].Trade.Strikes[0])
	assert.Empty(t, again[0].Notes)
}

func TestLedgerRejectsFieldsOfOtherKind(t *testing.T) {
	t.Parallel()

	l := NewBook("").Ledger()
	cash := mustAdd(t, l, deposit(500))
	spread := mustAdd(t, l, putSpread())

	tests := []struct {
		name string
		rec  Record
	}{
		{"ticker on a deposit", Record{ID: Ptr(cash.ID), Ticker: Ptr("QQQ")}},
		{"commission on a deposit", Record{ID: Ptr(cash.ID), Commissions: Ptr(1.0)}},
		{"amount on a trade", Record{ID: Ptr(spread.ID), Amount: Ptr(10.0)}},
		{"trade fields with a switch to deposit", Record{
			ID:              Ptr(spread.ID),
			TransactionType: Ptr(KindDeposit),
			Amount:          Ptr(10.0),
			Date:            Ptr(trade.NewDate(2024, 1, 2)),
			Ticker:          Ptr("QQQ"),
		}},
		{"new withdrawal with strikes", Record{
			TransactionType: Ptr(KindWithdrawal),
			Amount:          Ptr(10.0),
			Date:            Ptr(trade.NewDate(2024, 1, 2)),
			Strikes:         []float64{100},
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, applied, err := l.AddOrUpdate(tt.rec)
			assert.ErrorIs(t, err, ErrInvalidTransaction)
			assert.False(t, applied)
		})
	}

	got, ok, err := l.Get(cash.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cash, got)
	got, _, _ = l.Get(spread.ID)
	assert.Equal(t, spread, got)
	txs, _ := l.List()
	assert.Len(t, txs, 2)

	tx, applied, err := l.AddOrUpdate(Record{ID: Ptr(cash.ID), Notes: Ptr("payday")})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "payday", tx.Notes)
}

func TestLedgerIDsExhausted(t *testing.T) {
	t.Parallel()

	b := NewBook("")
	acc := b.Selector().ActiveID()
	last := deposit(5)
	last.ID = Ptr(math.MaxInt)
	doc := b.Document()
	doc.Transactions[acc] = []Record{last}

	loaded, err := FromDocument(doc)
	require.NoError(t, err)

	_, applied, err := loaded.Ledger().AddOrUpdate(deposit(5))
	assert.ErrorIs(t, err, ErrIDsExhausted)
	assert.False(t, applied)

	txs, err := loaded.Ledger().List()
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, math.MaxInt, txs[0].ID)
}
