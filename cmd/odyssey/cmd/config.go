package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  odyssey config init -o odyssey.yaml
  odyssey config validate -f odyssey.yaml`,
		// Config files are handled here, not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  odyssey --config %s summary\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "odyssey.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Store: %s %s\n", cfg.Store.Type, cfg.Store.Path)
			fmt.Fprintf(out, "  Currency: %s (default commission %.2f)\n", cfg.Journal.Currency, cfg.Journal.DefaultCommission)
			fmt.Fprintf(out, "  Server: %s\n", cfg.Server.Addr)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
