package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"carbonwise/internal/analysis"
	"carbonwise/internal/dashboard"
	"carbonwise/internal/report"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		period string
		html   string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for the stored analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := dashboard.ParsePeriod(period)
			if !ok {
				return fmt.Errorf("--period must be monthly or weekly, got %q", period)
			}
			view, err := dashboard.NewPresenter(a.store).Load(cmd.Context(), p)
			if err != nil {
				return err
			}
			if html != "" {
				f, err := os.Create(html)
				if err != nil {
					return err
				}
				defer f.Close()
				return dashboard.RenderHTML(f, view)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderView(view))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", string(dashboard.PeriodMonthly), "monthly|weekly")
	cmd.Flags().StringVar(&html, "html", "", "write the dashboard page to this file instead")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored analysis to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.store.LoadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("no analysis stored; run carbonwise analyze first")
			}
			if err := report.ExportXLSX(*snap, analysis.Summarize(*snap), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported analysis %s to %s\n", snap.Timestamp, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output xlsx path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteSnapshot(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "analysis cleared")
			return nil
		},
	}
}
