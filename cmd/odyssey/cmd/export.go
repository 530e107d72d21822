package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/journal"
	"github.com/rustyeddy/odyssey/trade"
)

func newExportCmd(a *app) *cobra.Command {
	var output, from, to string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active account",
		Long: `Export transactions of the active account.

Subcommands:
  csv  - One row per transaction
  org  - One Org-mode block per trade, ready for review notes

Examples:
  odyssey export csv -o activity.csv
  odyssey export org --from 2024-03-01 --to 2024-04-01`,
	}
	pf := exportCmd.PersistentFlags()
	pf.StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	pf.StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	pf.StringVar(&to, "to", "", "end date, exclusive (YYYY-MM-DD)")

	run := func(write func(w io.Writer, txs []journal.Transaction, st journal.Settings) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			start, err := trade.ParseDate(from)
			if err != nil {
				return err
			}
			end, err := trade.ParseDate(to)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				txs, err := s.book.Ledger().List()
				if err != nil {
					return err
				}
				txs = journal.Between(txs, start, end)

				if output == "-" || output == "" {
					return write(cmd.OutOrStdout(), txs, s.book.Settings())
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				if err := write(f, txs, s.book.Settings()); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d transactions to %s\n", len(txs), output)
				return nil
			})
		}
	}

	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export as CSV",
		Args:  cobra.NoArgs,
		RunE: run(func(w io.Writer, txs []journal.Transaction, _ journal.Settings) error {
			return journal.WriteCSV(w, txs)
		}),
	}
	orgCmd := &cobra.Command{
		Use:   "org",
		Short: "Export trades as Org-mode blocks",
		Args:  cobra.NoArgs,
		RunE: run(func(w io.Writer, txs []journal.Transaction, st journal.Settings) error {
			_, err := io.WriteString(w, journal.FormatTradesOrg(txs, st))
			return err
		}),
	}

	exportCmd.AddCommand(csvCmd, orgCmd)
	return exportCmd
}
