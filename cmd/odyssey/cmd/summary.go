package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/journal"
)

func newSummaryCmd(a *app) *cobra.Command {
	var breakdown bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show account value and trade statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				acc, err := s.book.Selector().Active()
				if err != nil {
					return err
				}
				txs, err := s.book.Ledger().List()
				if err != nil {
					return err
				}
				st := s.book.Settings()
				sum := journal.Summarize(txs)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", acc.Name, acc.ID)
				fmt.Fprintf(out, "  Account value: %s\n", st.Format(sum.AccountValue))
				fmt.Fprintf(out, "  Deposits: %s\n", st.Format(sum.Deposits))
				fmt.Fprintf(out, "  Withdrawals: %s\n", st.Format(sum.Withdrawals))
				fmt.Fprintf(out, "  Net P&L: %s\n", st.Format(sum.TotalPnL))
				fmt.Fprintf(out, "  Commissions: %s\n", st.Format(sum.Commissions))
				fmt.Fprintf(out, "  Trades: %d (%d wins, %d losses, %.1f%% win rate)\n",
					sum.Trades, sum.Wins, sum.Losses, sum.WinRate)
				if sum.ProfitFactor > 0 {
					fmt.Fprintf(out, "  Profit factor: %.2f\n", sum.ProfitFactor)
				}

				if breakdown {
					printBuckets(out, "By ticker", journal.PnLByTicker(txs), st)
					printBuckets(out, "By strategy", journal.PnLByStrategy(txs), st)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "show P&L by ticker and strategy")
	return cmd
}

func printBuckets(w io.Writer, title string, buckets []journal.Bucket, st journal.Settings) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-22s %3d  %s\n", b.Key, b.Trades, st.Format(b.PnL))
	}
}
