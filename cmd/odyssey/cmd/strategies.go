package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/strategy"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the supported option strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STRATEGY\tDIRECTION\tRISK\tSTRIKES")
			for _, k := range strategy.All() {
				spec := k.Spec()
				name := spec.Name
				if spec.Ratio {
					name += " (ratio)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, spec.Direction, spec.Risk, strings.Join(spec.Strikes, ", "))
			}
			return tw.Flush()
		},
	}
}
