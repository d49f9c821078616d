package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carbonwise/internal/estimate"
)

func newEstimateCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "estimate [distance]",
		Short: "Estimate trip emissions for a transport mode",
		Example: `  carbonwise estimate 12.5 --mode bus
  carbonwise estimate --list`,
		Args: cobra.MaximumNArgs(1),
		// Estimates need neither config nor storage.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")
			if list {
				for _, m := range estimate.Modes() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-12s %.2f kg/km\n", m.Mode, m.Label, m.Factor)
				}
				return nil
			}
			distance := ""
			if len(args) == 1 {
				distance = args[0]
			}
			kg := estimate.EstimateText(distance, mode)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", headerStyle.Render(fmt.Sprintf("%.2f kg CO₂", kg)))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(estimate.ModeCar), "transport mode")
	cmd.Flags().Bool("list", false, "list transport modes and factors")
	return cmd
}
