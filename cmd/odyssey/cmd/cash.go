package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/journal"
	"github.com/rustyeddy/odyssey/trade"
)

func newCashCmd(a *app) *cobra.Command {
	cashCmd := &cobra.Command{
		Use:   "cash",
		Short: "Record deposits and withdrawals",
		Long: `Record money moving into or out of the active account.

Examples:
  odyssey cash deposit 5000 --date 2024-01-02
  odyssey cash withdraw 250 --notes taxes`,
	}

	cashCmd.AddCommand(
		newCashMoveCmd(a, "deposit", journal.KindDeposit),
		newCashMoveCmd(a, "withdraw", journal.KindWithdrawal),
	)
	return cashCmd
}

func newCashMoveCmd(a *app, use string, kind journal.Kind) *cobra.Command {
	var date, notes string
	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: fmt.Sprintf("Record a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("bad amount %q: %w", args[0], err)
			}
			d := trade.DateOf(time.Now())
			if date != "" {
				if d, err = trade.ParseDate(date); err != nil {
					return err
				}
			}
			r := journal.Record{
				TransactionType: journal.Ptr(kind),
				Amount:          journal.Ptr(amount),
				Date:            journal.Ptr(d),
			}
			if notes != "" {
				r.Notes = journal.Ptr(notes)
			}

			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				tx, _, err := s.book.Ledger().AddOrUpdate(r)
				if err != nil {
					return err
				}
				if err := s.saveActive(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				a.log.Info("cash recorded", "id", tx.ID, "type", tx.Kind, "amount", tx.Amount())
				printTrade(cmd.OutOrStdout(), "Added", tx, s.book.Settings())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "notes")
	return cmd
}
