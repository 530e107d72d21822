package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction from the active account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad id %q: %w", args[0], err)
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				ok, err := s.book.Ledger().Delete(id)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No transaction #%d\n", id)
					return nil
				}
				if err := s.saveActive(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				a.log.Info("transaction deleted", "id", id)
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted transaction #%d\n", id)
				return nil
			})
		},
	}
}
