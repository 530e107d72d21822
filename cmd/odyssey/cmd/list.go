package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/journal"
	"github.com/rustyeddy/odyssey/pkg/money"
	"github.com/rustyeddy/odyssey/trade"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter  string
		search  string
		sortBy  string
		desc    bool
		from    string
		to      string
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the active account's activity log",
		Long: `List transactions of the active account.

Examples:
  odyssey list --filter winners --sort amount --desc
  odyssey list --search spy --from 2024-01-01 --to 2024-04-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := journal.ParseFilter(filter)
			if err != nil {
				return err
			}
			key, err := journal.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
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
				txs = journal.Search(journal.Between(f.Apply(txs), start, end), search)
				journal.Sort(txs, key, desc)
				txs, pages := journal.Paginate(txs, page, perPage)

				st := s.book.Settings()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tTYPE\tDESCRIPTION\tAMOUNT\tDAYS\tROC")
				for _, r := range journal.Activity(txs) {
					days, roc := "-", "-"
					if r.Days != nil {
						days = fmt.Sprint(*r.Days)
					}
					if r.ROC != nil {
						roc = fmt.Sprintf("%.1f%%", *r.ROC)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
						r.ID, r.Date, r.Type, r.Description, money.Signed(r.Amount, st.Currency), days, roc)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if pages > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", page, pages)
				}
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&filter, "filter", "f", "all", "all, trades, winners, losers or cash")
	fs.StringVar(&search, "search", "", "match ticker, strategy, tags or notes")
	fs.StringVar(&sortBy, "sort", "date", "date, amount or ticker")
	fs.BoolVar(&desc, "desc", false, "sort descending")
	fs.StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	fs.StringVar(&to, "to", "", "end date, exclusive (YYYY-MM-DD)")
	fs.IntVar(&page, "page", 1, "page number")
	fs.IntVar(&perPage, "per-page", 0, "rows per page (0 = all)")
	return cmd
}
