package analysis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/activity"
	"carbonwise/internal/clock"
	"carbonwise/internal/logging"
)

// SnapshotStore persists the single analysis snapshot. LoadSnapshot returns
// nil, nil when nothing has been stored yet.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error)
	SaveSnapshot(ctx context.Context, snap internal.AnalysisSnapshot) error
}

var ErrNothingToAnalyze = errors.New("nothing to analyze: no completed uploads and no complete activities")

type Options struct {
	Clock  clock.Clock
	Delay  time.Duration
	Logger *zap.Logger
}

type Aggregator struct {
	store SnapshotStore
	clock clock.Clock
	delay time.Duration
	log   *zap.Logger
}

func NewAggregator(store SnapshotStore, opts Options) *Aggregator {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	return &Aggregator{
		store: store,
		clock: opts.Clock,
		delay: opts.Delay,
		log:   logging.OrNop(opts.Logger),
	}
}

// CanAnalyze reports whether at least one upload finished or one activity
// has both a type and a value.
func CanAnalyze(files []internal.UploadedFile, activities []internal.ManualActivity) bool {
	for _, f := range files {
		if f.Status == internal.StatusCompleted {
			return true
		}
	}
	for _, a := range activities {
		if a.Valid() {
			return true
		}
	}
	return false
}

func FilterCompleted(files []internal.UploadedFile) []internal.UploadedFile {
	out := make([]internal.UploadedFile, 0, len(files))
	for _, f := range files {
		if f.Status == internal.StatusCompleted {
			out = append(out, f)
		}
	}
	return out
}

// Analyze snapshots the completed uploads and complete activities and
// stores the result, replacing the previous snapshot.
func (a *Aggregator) Analyze(ctx context.Context, files []internal.UploadedFile, activities []internal.ManualActivity) (internal.AnalysisSnapshot, error) {
	if !CanAnalyze(files, activities) {
		return internal.AnalysisSnapshot{}, ErrNothingToAnalyze
	}

	start := a.clock.Now()
	trace := traceID()
	a.log.Info("analysis started", zap.String("trace_id", trace), zap.Int("files", len(files)), zap.Int("activities", len(activities)))

	if err := a.clock.Sleep(ctx, a.delay); err != nil {
		return internal.AnalysisSnapshot{}, err
	}

	snap := internal.AnalysisSnapshot{
		Files:      FilterCompleted(files),
		Activities: activity.FilterValid(activities),
		Timestamp:  a.clock.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := a.store.SaveSnapshot(ctx, snap); err != nil {
		return internal.AnalysisSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	a.log.Info("analysis stored",
		zap.String("trace_id", trace),
		zap.Int("files", len(snap.Files)),
		zap.Int("activities", len(snap.Activities)),
		zap.Duration("elapsed", a.clock.Now().Sub(start)))
	return snap, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
