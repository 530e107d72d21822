package journal

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rustyeddy/odyssey/trade"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"id", "transaction_type", "date", "ticker", "type", "open", "close", "expiration",
	"quantity", "entry_price", "exit_price", "quantity_2", "entry_price_2", "exit_price_2",
	"max_risk", "expired", "commission", "raw_pnl", "pnl", "amount", "notes",
}

// WriteCSV writes txs, one row per transaction, to w.
func WriteCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write(csvRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(t Transaction) []string {
	row := make([]string, len(CSVHeader))
	row[0] = strconv.Itoa(t.ID)
	row[1] = string(t.Kind)
	row[2] = t.Date().String()
	row[19] = f(t.Amount())
	row[20] = t.Notes

	if tr := t.Trade; tr != nil {
		row[3] = tr.Ticker
		row[4] = tr.Strategy.String()
		row[5] = tr.Open.String()
		row[6] = tr.Close.String()
		row[7] = tr.Expiration.String()
		row[8] = strconv.Itoa(tr.Quantity)
		row[9] = f(tr.EntryPrice)
		row[10] = f(tr.ExitPrice)
		if tr.Ratio() {
			row[11] = strconv.Itoa(tr.Quantity2)
			row[12] = f(tr.EntryPrice2)
			row[13] = f(tr.ExitPrice2)
		}
		row[14] = f(tr.MaxRisk)
		row[15] = strconv.FormatBool(tr.Expired)
		row[16] = f(trade.CommissionCost(*tr))
		row[17] = f(trade.RawPnL(*tr))
		row[18] = f(tr.PnL)
	}
	return row
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
