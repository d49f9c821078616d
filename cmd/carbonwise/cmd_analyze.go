package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/activity"
	"carbonwise/internal/analysis"
	"carbonwise/internal/upload"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		activities []string
		files      []string
		noDelay    bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Upload bills, add activities and store a new analysis",
		Example: `  carbonwise analyze --file electricity-march.pdf --activity transport:42:km:car commute
  carbonwise analyze --activity food:6:meals --no-delay`,
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := activity.NewCollector()
			parsed := make([]internal.ManualActivity, 0, len(activities))
			for _, raw := range activities {
				act, err := parseActivity(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, act)
			}
			collector.Replace(parsed)

			stepDelay, processDelay, analysisDelay := a.cfg.UploadStepDelay, a.cfg.UploadProcessDelay, a.cfg.AnalysisDelay
			if noDelay {
				stepDelay, processDelay, analysisDelay = 0, 0, 0
			}

			sim := upload.NewSimulator(upload.NewTracker(a.log), upload.Options{
				StepDelay:    stepDelay,
				ProcessDelay: processDelay,
				Logger:       a.log,
			})
			defer sim.Close()

			refs := make([]internal.FileRef, 0, len(files))
			for _, name := range files {
				refs = append(refs, internal.FileRef{Name: name})
			}
			sim.Submit(refs)
			if err := sim.Wait(); err != nil {
				return err
			}

			agg := analysis.NewAggregator(a.store, analysis.Options{Delay: analysisDelay, Logger: a.log})
			snap, err := agg.Analyze(cmd.Context(), sim.Tracker().List(), collector.List())
			if errors.Is(err, analysis.ErrNothingToAnalyze) {
				return fmt.Errorf("%w (pass --file or --activity)", err)
			}
			if err != nil {
				return err
			}

			a.log.Debug("snapshot stored", zap.String("timestamp", snap.Timestamp))
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(analysis.Summarize(snap)))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&activities, "activity", nil, "manual activity as type:value[:unit[:description]]")
	cmd.Flags().StringArrayVar(&files, "file", nil, "bill file name to simulate uploading")
	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the simulated upload and analysis pauses")
	return cmd
}

// parseActivity reads type:value[:unit[:description]]. The description may
// itself contain colons.
func parseActivity(raw string) (internal.ManualActivity, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 2 {
		return internal.ManualActivity{}, fmt.Errorf("activity %q: want type:value[:unit[:description]]", raw)
	}
	act := internal.ManualActivity{
		Type:  strings.TrimSpace(parts[0]),
		Value: strings.TrimSpace(parts[1]),
	}
	if _, ok := internal.ParseCategory(act.Type); !ok {
		return internal.ManualActivity{}, fmt.Errorf("activity %q: unknown type %q", raw, act.Type)
	}
	if len(parts) > 2 {
		act.Unit = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		act.Description = strings.TrimSpace(parts[3])
	}
	return act, nil
}
