package journal

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rustyeddy/odyssey/trade"
)

// Summary holds the account-level figures of a collection.
type Summary struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"` // percent
	TotalPnL     float64 `json:"total_pnl"`
	Commissions  float64 `json:"commissions"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor float64 `json:"profit_factor"` // 0 when there are no losses
	Deposits     float64 `json:"deposits"`
	Withdrawals  float64 `json:"withdrawals"`
	AccountValue float64 `json:"account_value"`
}

// Summarize computes the Summary of txs. Account value is deposits less
// withdrawals plus the net P&L of every trade.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch {
		case t.IsTrade():
			s.Trades++
			pnl := t.Trade.PnL
			s.TotalPnL += pnl
			s.Commissions += trade.CommissionCost(*t.Trade)
			if pnl > 0 {
				s.Wins++
				s.GrossProfit += pnl
			} else {
				s.Losses++
				s.GrossLoss -= pnl
			}
		case t.Kind == KindDeposit && t.Cash != nil:
			s.Deposits += t.Cash.Amount
		case t.Kind == KindWithdrawal && t.Cash != nil:
			s.Withdrawals += t.Cash.Amount
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	s.AccountValue = s.Deposits - s.Withdrawals + s.TotalPnL
	return s
}

// Trades returns the trades of txs.
func Trades(txs []Transaction) []Transaction {
	return slices.DeleteFunc(slices.Clone(txs), func(t Transaction) bool { return !t.IsTrade() })
}

// Point is one step of a cumulative P&L curve.
type Point struct {
	Date  trade.Date `json:"date"`
	Value float64    `json:"value"`
}

// PnLCurve returns the running net P&L of the trades in txs ordered by
// close date. The first point is the zero-dated starting value of 0.
func PnLCurve(txs []Transaction) []Point {
	trades := Trades(txs)
	slices.SortStableFunc(trades, func(a, b Transaction) int {
		return a.Date().Compare(b.Date())
	})
	out := make([]Point, 0, len(trades)+1)
	out = append(out, Point{})
	running := 0.0
	for _, t := range trades {
		running += t.Trade.PnL
		out = append(out, Point{Date: t.Date(), Value: running})
	}
	return out
}

// Bucket is a P&L total for one group of trades.
type Bucket struct {
	Key    string  `json:"key"`
	Trades int     `json:"trades"`
	PnL    float64 `json:"pnl"`
}

func groupPnL(txs []Transaction, key func(trade.Trade) string) []Bucket {
	idx := make(map[string]int)
	var out []Bucket
	for _, t := range txs {
		if !t.IsTrade() {
			continue
		}
		k := key(*t.Trade)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Bucket{Key: k})
		}
		out[i].Trades++
		out[i].PnL += t.Trade.PnL
	}
	slices.SortStableFunc(out, func(a, b Bucket) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// PnLByTicker totals net P&L per underlying, sorted by ticker.
func PnLByTicker(txs []Transaction) []Bucket {
	return groupPnL(txs, func(t trade.Trade) string { return t.Ticker })
}

// PnLByStrategy totals net P&L per strategy, sorted by name.
func PnLByStrategy(txs []Transaction) []Bucket {
	return groupPnL(txs, func(t trade.Trade) string { return t.Strategy.String() })
}

// Filter selects part of a collection for display.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterTrades  Filter = "trades"
	FilterWinners Filter = "winners"
	FilterLosers  Filter = "losers"
	FilterCash    Filter = "cash"
)

// ParseFilter accepts the filter names; "" means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterTrades, FilterWinners, FilterLosers, FilterCash:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Apply returns the transactions of txs that pass f. Break-even trades
// count as losers.
func (f Filter) Apply(txs []Transaction) []Transaction {
	keep := func(t Transaction) bool {
		switch f {
		case FilterTrades:
			return t.IsTrade()
		case FilterWinners:
			return t.IsTrade() && t.Trade.PnL > 0
		case FilterLosers:
			return t.IsTrade() && t.Trade.PnL <= 0
		case FilterCash:
			return t.Cash != nil
		}
		return true
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Paginate returns page (1-based) of txs and the number of pages.
func Paginate(txs []Transaction, page, perPage int) ([]Transaction, int) {
	if perPage <= 0 {
		return txs, 1
	}
	pages := int(math.Ceil(float64(len(txs)) / float64(perPage)))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(txs) {
		return nil, pages
	}
	end := min(start+perPage, len(txs))
	return txs[start:end], pages
}

// Row is a transaction prepared for an activity log.
type Row struct {
	ID          int        `json:"id"`
	Date        trade.Date `json:"date"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Days        *int       `json:"days,omitempty"`
	ROC         *float64   `json:"roc,omitempty"` // percent of max risk
}

// Activity turns txs into display rows. ROC is only given for trades with
// a known (positive) max risk.
func Activity(txs []Transaction) []Row {
	out := make([]Row, 0, len(txs))
	for _, t := range txs {
		r := Row{ID: t.ID, Date: t.Date(), Amount: t.Amount()}
		if t.IsTrade() {
			r.Type = "Trade"
			r.Description = t.Trade.Ticker + " " + t.Trade.Strategy.String()
			if d, ok := trade.DurationDays(*t.Trade); ok {
				r.Days = &d
			}
			if roc, ok := trade.ReturnOnRisk(*t.Trade); ok {
				r.ROC = &roc
			}
		} else {
			if k := string(t.Kind); k != "" {
				r.Type = strings.ToUpper(k[:1]) + k[1:]
			}
			r.Description = t.Notes
			if r.Description == "" {
				r.Description = r.Type
			}
		}
		out = append(out, r)
	}
	return out
}
