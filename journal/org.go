package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/odyssey/trade"
)

// FormatTradeOrg renders a trade as an Org-mode block for pasting into a
// notes file. Structured facts go in the PROPERTIES drawer so they stay
// searchable; Thesis, Execution and Review are left for the narrative.
func FormatTradeOrg(t Transaction, s Settings) string {
	if !t.IsTrade() {
		return ""
	}
	tr := t.Trade

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (#%d)\n", tr.Ticker, tr.Strategy, t.ID)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %d\n", t.ID)
	fmt.Fprintf(&b, ":TICKER: %s\n", tr.Ticker)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", tr.Strategy)
	fmt.Fprintf(&b, ":OPEN: %s\n", orDash(tr.Open.String()))
	fmt.Fprintf(&b, ":CLOSE: %s\n", orDash(tr.Close.String()))
	fmt.Fprintf(&b, ":EXPIRATION: %s\n", orDash(tr.Expiration.String()))
	if len(tr.Strikes) > 0 {
		fmt.Fprintf(&b, ":STRIKES: %s\n", strikes(tr))
	}
	fmt.Fprintf(&b, ":QUANTITY: %d\n", tr.Quantity)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.2f\n", tr.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.2f\n", tr.ExitPrice)
	if tr.Ratio() {
		fmt.Fprintf(&b, ":QUANTITY_2: %d\n", tr.Quantity2)
		fmt.Fprintf(&b, ":ENTRY_PRICE_2: %.2f\n", tr.EntryPrice2)
		fmt.Fprintf(&b, ":EXIT_PRICE_2: %.2f\n", tr.ExitPrice2)
	}
	fmt.Fprintf(&b, ":COMMISSION: %s\n", s.Format(trade.CommissionCost(*tr)))
	fmt.Fprintf(&b, ":RAW_PL: %s\n", s.Format(trade.RawPnL(*tr)))
	fmt.Fprintf(&b, ":NET_PL: %s\n", s.Format(tr.PnL))
	if roc, ok := trade.ReturnOnRisk(*tr); ok {
		fmt.Fprintf(&b, ":MAX_RISK: %s\n", s.Format(tr.MaxRisk))
		fmt.Fprintf(&b, ":ROC: %.1f%%\n", roc)
	}
	if tr.Expired {
		b.WriteString(":EXPIRED: t\n")
	}
	if tr.Tags != "" {
		fmt.Fprintf(&b, ":TAGS: %s\n", tr.Tags)
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- ")
	b.WriteString(t.Notes)
	b.WriteString("\n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders every trade of txs separated by blank lines.
func FormatTradesOrg(txs []Transaction, s Settings) string {
	var b strings.Builder
	for _, t := range Trades(txs) {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t, s))
	}
	return b.String()
}

func strikes(tr *trade.Trade) string {
	labels := tr.Strategy.Spec().Strikes
	parts := make([]string, len(tr.Strikes))
	for i, k := range tr.Strikes {
		if i < len(labels) {
			parts[i] = fmt.Sprintf("%s %g", labels[i], k)
		} else {
			parts[i] = fmt.Sprintf("%g", k)
		}
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
