package journal

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/odyssey/trade"
)

// Between returns the transactions dated within [start, end). A zero
// bound is open.
func Between(txs []Transaction, start, end trade.Date) []Transaction {
	var out []Transaction
	for _, t := range txs {
		d := t.Date()
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && !d.Before(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Search returns the transactions whose ticker, strategy, tags or notes
// contain text, ignoring case.
func Search(txs []Transaction, text string) []Transaction {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return txs
	}
	var out []Transaction
	for _, t := range txs {
		hay := []string{t.Notes, string(t.Kind)}
		if t.Trade != nil {
			hay = append(hay, t.Trade.Ticker, t.Trade.Strategy.String(), t.Trade.Tags)
		}
		if slices.ContainsFunc(hay, func(s string) bool { return strings.Contains(strings.ToLower(s), text) }) {
			out = append(out, t)
		}
	}
	return out
}

// SortKey orders an activity log.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
	SortByTicker SortKey = "ticker"
)

// ParseSortKey accepts the sort key names; "" means date.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAmount, SortByTicker:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort orders txs in place by key, newest or largest first when desc.
// Ties keep insertion order.
func Sort(txs []Transaction, key SortKey, desc bool) {
	compare := func(a, b Transaction) int {
		switch key {
		case SortByAmount:
			return cmp.Compare(a.Amount(), b.Amount())
		case SortByTicker:
			return cmp.Compare(ticker(a), ticker(b))
		}
		return a.Date().Compare(b.Date())
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func ticker(t Transaction) string {
	if t.Trade != nil {
		return t.Trade.Ticker
	}
	return ""
}
