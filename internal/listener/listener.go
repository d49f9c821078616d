// Package listener watches the stored analysis and writes a spreadsheet
// report each time a new one appears.
package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/analysis"
	"carbonwise/internal/clock"
	"carbonwise/internal/logging"
	"carbonwise/internal/report"
)

type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error)
}

type Service struct {
	store     SnapshotLoader
	outputDir string
	interval  time.Duration
	clock     clock.Clock
	log       *zap.Logger

	lastExported string
}

func NewService(store SnapshotLoader, outputDir string, interval time.Duration, clk clock.Clock, log *zap.Logger) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		store:     store,
		outputDir: outputDir,
		interval:  interval,
		clock:     clk,
		log:       logging.OrNop(log),
	}
}

// Run polls until ctx is done. A zero interval disables polling.
func (s *Service) Run(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			s.log.Warn("export cycle failed", zap.Error(err))
		}

		if err := s.clock.Sleep(ctx, s.interval); err != nil {
			return nil
		}
	}
}

// RunCycle exports the stored analysis if it has not been exported yet and
// returns the written path, or "" when there was nothing new.
func (s *Service) RunCycle(ctx context.Context) (string, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return "", err
	}
	if snap == nil || snap.Timestamp == s.lastExported {
		return "", nil
	}

	filename := fmt.Sprintf("carbonwise_%s.xlsx", sanitizeFileName(snap.Timestamp))
	outputPath := filepath.Join(s.outputDir, "reports", filename)
	if err := report.ExportXLSX(*snap, analysis.Summarize(*snap), outputPath); err != nil {
		return "", err
	}
	s.lastExported = snap.Timestamp

	s.log.Info("report exported", zap.String("path", outputPath), zap.String("analysed_at", snap.Timestamp))
	return outputPath, nil
}

func sanitizeFileName(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "-", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
