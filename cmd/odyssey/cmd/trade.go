package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/odyssey/journal"
	"github.com/rustyeddy/odyssey/trade"
)

// tradeFlags are the trade fields settable from the command line.
type tradeFlags struct {
	ticker     string
	strategy   string
	open       string
	close      string
	expiration string
	strikes    []float64
	quantity   int
	entry      float64
	exit       float64
	quantity2  int
	entry2     float64
	exit2      float64
	maxRisk    float64
	expired    bool
	commission float64
	openComm   float64
	closeComm  float64
	tags       string
	notes      string
}

func (f *tradeFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ticker, "ticker", "t", "", "underlying symbol")
	fs.StringVarP(&f.strategy, "strategy", "s", "", `strategy name, e.g. "Short Put Spread"`)
	fs.StringVar(&f.open, "open", "", "open date (YYYY-MM-DD)")
	fs.StringVar(&f.close, "close", "", "close date (YYYY-MM-DD)")
	fs.StringVar(&f.expiration, "expiration", "", "expiration date (YYYY-MM-DD)")
	fs.Float64SliceVar(&f.strikes, "strikes", nil, "strike prices in catalog order")
	fs.IntVarP(&f.quantity, "qty", "q", 1, "contracts")
	fs.Float64Var(&f.entry, "entry", 0, "entry price per share")
	fs.Float64Var(&f.exit, "exit", 0, "exit price per share")
	fs.IntVar(&f.quantity2, "qty2", 0, "ratio spreads: second leg contracts")
	fs.Float64Var(&f.entry2, "entry2", 0, "ratio spreads: second leg entry price")
	fs.Float64Var(&f.exit2, "exit2", 0, "ratio spreads: second leg exit price")
	fs.Float64Var(&f.maxRisk, "max-risk", 0, "maximum risk in currency (0 = unknown)")
	fs.BoolVar(&f.expired, "expired", false, "the position expired, so no closing commission")
	fs.Float64Var(&f.commission, "commission", 0, "flat commission per contract per side (default from settings)")
	fs.Float64Var(&f.openComm, "open-commission", 0, "opening commission per contract")
	fs.Float64Var(&f.closeComm, "close-commission", 0, "closing commission per contract")
	fs.StringVar(&f.tags, "tags", "", "free-form tags")
	fs.StringVarP(&f.notes, "notes", "n", "", "notes")
}

// record returns the fields whose flags were set. Fields listed in always
// are included even when left at their defaults.
func (f *tradeFlags) record(fs *pflag.FlagSet, always ...string) (journal.Record, error) {
	set := func(name string) bool {
		if fs.Changed(name) {
			return true
		}
		for _, a := range always {
			if a == name {
				return true
			}
		}
		return false
	}
	date := func(name, v string) (*trade.Date, error) {
		d, err := trade.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		return &d, nil
	}

	var r journal.Record
	var err error
	if set("ticker") {
		r.Ticker = journal.Ptr(f.ticker)
	}
	if set("strategy") {
		r.Type = journal.Ptr(f.strategy)
	}
	if set("open") {
		if r.Open, err = date("open", f.open); err != nil {
			return r, err
		}
	}
	if set("close") {
		if r.Close, err = date("close", f.close); err != nil {
			return r, err
		}
	}
	if set("expiration") {
		if r.Expiration, err = date("expiration", f.expiration); err != nil {
			return r, err
		}
	}
	if set("strikes") {
		r.Strikes = append([]float64{}, f.strikes...)
	}
	if set("qty") {
		r.Quantity = journal.Ptr(f.quantity)
	}
	if set("entry") {
		r.EntryPrice = journal.Ptr(f.entry)
	}
	if set("exit") {
		r.ExitPrice = journal.Ptr(f.exit)
	}
	if set("qty2") {
		r.Quantity2 = journal.Ptr(f.quantity2)
	}
	if set("entry2") {
		r.EntryPrice2 = journal.Ptr(f.entry2)
	}
	if set("exit2") {
		r.ExitPrice2 = journal.Ptr(f.exit2)
	}
	if set("max-risk") {
		r.MaxRisk = journal.Ptr(f.maxRisk)
	}
	if set("expired") {
		r.IsExpired = journal.Ptr(f.expired)
	}
	if set("commission") {
		r.Commissions = journal.Ptr(f.commission)
	}
	if set("open-commission") {
		r.OpeningCommission = journal.Ptr(f.openComm)
	}
	if set("close-commission") {
		r.ClosingCommission = journal.Ptr(f.closeComm)
	}
	if set("tags") {
		r.Tags = journal.Ptr(f.tags)
	}
	if set("notes") {
		r.Notes = journal.Ptr(f.notes)
	}
	return r, nil
}

func newTradeCmd(a *app) *cobra.Command {
	tradeCmd := &cobra.Command{
		Use:   "trade",
		Short: "Add or edit trades in the active account",
		Long: `Record an options trade or change one already recorded.

Subcommands:
  add   - Record a trade
  edit  - Change the fields of a recorded trade

Examples:
  odyssey trade add -t SPY -s "Short Put Spread" --open 2024-03-01 \
      --strikes 500,495 -q 2 --entry 1.50 --exit 0.50 --max-risk 700
  odyssey trade edit 0 --notes "closed at 50%"`,
	}

	var addFlags tradeFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := addFlags.record(cmd.Flags(), "qty", "exit")
			if err != nil {
				return err
			}
			r.TransactionType = journal.Ptr(journal.KindTrade)

			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if r.Commissions == nil && r.OpeningCommission == nil && r.ClosingCommission == nil {
					r.Commissions = journal.Ptr(s.book.Settings().DefaultCommission)
				}
				tx, _, err := s.book.Ledger().AddOrUpdate(r)
				if err != nil {
					return err
				}
				if err := s.saveActive(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				a.log.Info("trade added", "id", tx.ID, "ticker", tx.Trade.Ticker, "pnl", tx.Trade.PnL)
				printTrade(cmd.OutOrStdout(), "Added", tx, s.book.Settings())
				return nil
			})
		},
	}
	addFlags.register(addCmd.Flags())
	addCmd.MarkFlagRequired("ticker")
	addCmd.MarkFlagRequired("strategy")
	addCmd.MarkFlagRequired("open")
	addCmd.MarkFlagRequired("entry")

	var editFlags tradeFlags
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a recorded trade",
		Long: `Only the flags given are changed; every other field keeps its
recorded value. The P&L is recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad id %q: %w", args[0], err)
			}
			r, err := editFlags.record(cmd.Flags())
			if err != nil {
				return err
			}
			r.ID = journal.Ptr(id)

			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				cur, ok, err := s.book.Ledger().Get(id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no transaction #%d in the active account", id)
				}
				if !cur.IsTrade() {
					return fmt.Errorf("transaction #%d is a %s, not a trade", id, cur.Kind)
				}
				tx, applied, err := s.book.Ledger().AddOrUpdate(r)
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("no transaction #%d in the active account", id)
				}
				if err := s.saveActive(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				a.log.Info("transaction updated", "id", tx.ID)
				printTrade(cmd.OutOrStdout(), "Updated", tx, s.book.Settings())
				return nil
			})
		},
	}
	editFlags.register(editCmd.Flags())

	tradeCmd.AddCommand(addCmd, editCmd)
	return tradeCmd
}

func printTrade(w io.Writer, verb string, tx journal.Transaction, st journal.Settings) {
	if !tx.IsTrade() {
		fmt.Fprintf(w, "✓ %s %s #%d: %s\n", verb, tx.Kind, tx.ID, st.Format(tx.Amount()))
		return
	}
	tr := tx.Trade
	fmt.Fprintf(w, "✓ %s trade #%d: %s %s\n", verb, tx.ID, tr.Ticker, tr.Strategy)
	fmt.Fprintf(w, "  Raw P&L: %s\n", st.Format(trade.RawPnL(*tr)))
	fmt.Fprintf(w, "  Commission: %s (%s)\n", st.Format(trade.CommissionCost(*tr)), tr.Commission)
	fmt.Fprintf(w, "  Net P&L: %s\n", st.Format(tr.PnL))
	if roc, ok := trade.ReturnOnRisk(*tr); ok {
		fmt.Fprintf(w, "  Return on risk: %.1f%%\n", roc)
	}
}
