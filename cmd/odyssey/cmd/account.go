package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/pkg/id"
)

func newAccountCmd(a *app) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "List, create and switch accounts",
		Long: `Each account keeps its own transactions. Commands that read or
change transactions work on the active account.

Subcommands:
  list    - List accounts, marking the active one
  add     - Create an account
  use     - Make an account active
  rename  - Rename an account

Examples:
  odyssey account add IRA
  odyssey account use acc_01hv...`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				out := cmd.OutOrStdout()
				active := s.book.Selector().ActiveID()
				for _, acc := range s.book.Selector().Accounts() {
					mark := " "
					if acc.ID == active {
						mark = "*"
					}
					created := ""
					if t, err := id.Time(acc.ID); err == nil {
						created = "  created " + t.Local().Format(time.DateOnly)
					}
					fmt.Fprintf(out, "%s %s  %s%s\n", mark, acc.ID, acc.Name, created)
				}
				return nil
			})
		},
	}

	var activate bool
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				acc := s.book.AddAccount(name)
				if activate {
					if err := s.book.Selector().SetActive(acc.ID); err != nil {
						return err
					}
				}
				if err := s.save(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Created account %s (%s)\n", acc.Name, acc.ID)
				return nil
			})
		},
	}
	addCmd.Flags().BoolVar(&activate, "use", false, "make the new account active")

	useCmd := &cobra.Command{
		Use:   "use <account-id>",
		Short: "Make an account active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.book.Selector().SetActive(args[0]); err != nil {
					return err
				}
				if err := s.save(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				acc, _ := s.book.Selector().Active()
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Active account: %s (%s)\n", acc.Name, acc.ID)
				return nil
			})
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <account-id> <name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.book.Selector().Rename(args[0], args[1]); err != nil {
					return err
				}
				if err := s.save(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}

	accountCmd.AddCommand(listCmd, addCmd, useCmd, renameCmd)
	return accountCmd
}
