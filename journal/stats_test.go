package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/odyssey/trade"
)

// activity returns a deposit, a winner, a loser and a withdrawal.
func activity(t *testing.T) []Transaction {
	t.Helper()

	l := NewBook("").Ledger()
	mustAdd(t, l, deposit(5000))
	mustAdd(t, l, putSpread())

	loser := Record{
		TransactionType: Ptr(KindTrade),
		Ticker:          Ptr("AAPL"),
		Type:            Ptr("Long Call"),
		Open:            Ptr(trade.NewDate(2024, 2, 1)),
		Close:           Ptr(trade.NewDate(2024, 2, 10)),
		Quantity:        Ptr(1),
		EntryPrice:      Ptr(3.0),
		ExitPrice:       Ptr(1.0),
		Commissions:     Ptr(0.65),
		Tags:            Ptr("earnings"),
	}
	mustAdd(t, l, loser)

	w := deposit(250)
	w.TransactionType = Ptr(KindWithdrawal)
	w.Date = Ptr(trade.NewDate(2024, 4, 1))
	w.Notes = Ptr("taxes")
	mustAdd(t, l, w)

	txs, err := l.List()
	require.NoError(t, err)
	return txs
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(activity(t))

	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 50.0, s.WinRate, 1e-9)
	// 197.4 + (-200 - 1.3)
	assert.InDelta(t, -3.9, s.TotalPnL, 1e-9)
	assert.InDelta(t, 3.9, s.Commissions, 1e-9)
	assert.InDelta(t, 197.4, s.GrossProfit, 1e-9)
	assert.InDelta(t, 201.3, s.GrossLoss, 1e-9)
	assert.InDelta(t, 197.4/201.3, s.ProfitFactor, 1e-9)
	assert.Equal(t, 5000.0, s.Deposits)
	assert.Equal(t, 250.0, s.Withdrawals)
	assert.InDelta(t, 5000-250-3.9, s.AccountValue, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestPnLCurve(t *testing.T) {
	t.Parallel()

	pts := PnLCurve(activity(t))
	require.Len(t, pts, 3)

	assert.True(t, pts[0].Date.IsZero())
	assert.Zero(t, pts[0].Value)
	assert.Equal(t, trade.NewDate(2024, 2, 10), pts[1].Date)
	assert.InDelta(t, -201.3, pts[1].Value, 1e-9)
	assert.Equal(t, trade.NewDate(2024, 3, 15), pts[2].Date)
	assert.InDelta(t, -3.9, pts[2].Value, 1e-9)
}

func TestPnLBuckets(t *testing.T) {
	t.Parallel()

	txs := activity(t)

	byTicker := PnLByTicker(txs)
	require.Len(t, byTicker, 2)
	assert.Equal(t, "AAPL", byTicker[0].Key)
	assert.Equal(t, "SPY", byTicker[1].Key)
	assert.Equal(t, 1, byTicker[1].Trades)

	byStrategy := PnLByStrategy(txs)
	require.Len(t, byStrategy, 2)
	assert.Equal(t, "Long Call", byStrategy[0].Key)
	assert.InDelta(t, 197.4, byStrategy[1].PnL, 1e-9)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	txs := activity(t)
	ids := func(txs []Transaction) []int {
		out := []int{}
		for _, t := range txs {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		in   string
		want []int
	}{
		{"", []int{0, 1, 2, 3}},
		{"trades", []int{1, 2}},
		{"Winners", []int{1}},
		{"losers", []int{2}},
		{"cash", []int{0, 3}},
	}
	for _, tt := range tests {
		f, err := ParseFilter(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(f.Apply(txs)), tt.in)
	}

	_, err := ParseFilter("open")
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	txs := activity(t)

	page, pages := Paginate(txs, 1, 3)
	assert.Len(t, page, 3)
	assert.Equal(t, 2, pages)

	page, _ = Paginate(txs, 2, 3)
	require.Len(t, page, 1)
	assert.Equal(t, 3, page[0].ID)

	page, _ = Paginate(txs, 5, 3)
	assert.Empty(t, page)

	page, pages = Paginate(txs, 1, 0)
	assert.Len(t, page, 4)
	assert.Equal(t, 1, pages)
}

func TestActivity(t *testing.T) {
	t.Parallel()

	rows := Activity(activity(t))
	require.Len(t, rows, 4)

	assert.Equal(t, "Deposit", rows[0].Type)
	assert.Equal(t, "Deposit", rows[0].Description)
	assert.Nil(t, rows[0].Days)

	assert.Equal(t, "Trade", rows[1].Type)
	assert.Equal(t, "SPY Short Put Spread", rows[1].Description)
	require.NotNil(t, rows[1].Days)
	assert.Equal(t, 14, *rows[1].Days)
	require.NotNil(t, rows[1].ROC)
	assert.InDelta(t, 200.0/700*100, *rows[1].ROC, 1e-9)

	assert.Nil(t, rows[2].ROC, "no max risk")

	assert.Equal(t, "Withdrawal", rows[3].Type)
	assert.Equal(t, "taxes", rows[3].Description)
	assert.Equal(t, -250.0, rows[3].Amount)
}
