package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"carbonwise/internal"
	"carbonwise/internal/clock"
	"carbonwise/internal/logging"
)

const ProgressStep = 10

type Options struct {
	Clock        clock.Clock
	Extractor    Extractor
	StepDelay    time.Duration
	ProcessDelay time.Duration
	NewID        func() string
	Logger       *zap.Logger
}

// Simulator walks each submitted file through
// uploading -> processing -> completed on its own goroutine.
type Simulator struct {
	tracker *Tracker
	opts    Options
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

func NewSimulator(tracker *Tracker, opts Options) *Simulator {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Extractor == nil {
		opts.Extractor = NewMockExtractor(time.Now().UnixNano())
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Simulator{
		tracker: tracker,
		opts:    opts,
		log:     logging.OrNop(opts.Logger),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Simulator) Tracker() *Tracker {
	return s.tracker
}

// Submit registers one upload per file and starts processing them. Files are
// independent: completion order across files is not defined.
func (s *Simulator) Submit(files []internal.FileRef) []internal.UploadedFile {
	created := make([]internal.UploadedFile, 0, len(files))
	for _, f := range files {
		created = append(created, internal.UploadedFile{
			ID:       s.opts.NewID(),
			File:     f,
			Status:   internal.StatusUploading,
			Progress: 0,
		})
	}
	s.tracker.Add(created...)

	for _, f := range created {
		f := f
		s.log.Info("upload started", zap.String("file_id", f.ID), zap.String("name", f.File.Name), zap.Int64("size", f.File.Size))
		s.group.Go(func() error {
			return s.process(s.ctx, f)
		})
	}
	return created
}

// Wait blocks until every file submitted so far reached a terminal status.
func (s *Simulator) Wait() error {
	return s.group.Wait()
}

// Close aborts running uploads; they end in the error status.
func (s *Simulator) Close() error {
	s.cancel()
	if err := s.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Simulator) process(ctx context.Context, f internal.UploadedFile) error {
	for p := 0; p <= 100; p += ProgressStep {
		if err := s.opts.Clock.Sleep(ctx, s.opts.StepDelay); err != nil {
			s.fail(f.ID, err)
			return err
		}
		progress := p
		if _, err := s.tracker.Apply(f.ID, func(u *internal.UploadedFile) { u.Progress = progress }); err != nil {
			s.log.Error("upload progress rejected", zap.String("file_id", f.ID), zap.Error(err))
			return nil
		}
	}

	if _, err := s.tracker.Apply(f.ID, func(u *internal.UploadedFile) {
		u.Status = internal.StatusProcessing
		u.Progress = 100
	}); err != nil {
		s.log.Error("upload processing rejected", zap.String("file_id", f.ID), zap.Error(err))
		return nil
	}

	if err := s.opts.Clock.Sleep(ctx, s.opts.ProcessDelay); err != nil {
		s.fail(f.ID, err)
		return err
	}

	data, err := s.opts.Extractor.Extract(ctx, f.File)
	if err != nil {
		s.fail(f.ID, fmt.Errorf("extract %s: %w", f.File.Name, err))
		return nil
	}

	if _, err := s.tracker.Apply(f.ID, func(u *internal.UploadedFile) {
		u.Status = internal.StatusCompleted
		u.ExtractedData = &data
	}); err != nil {
		s.log.Error("upload completion rejected", zap.String("file_id", f.ID), zap.Error(err))
		return nil
	}
	s.log.Info("upload completed",
		zap.String("file_id", f.ID),
		zap.String("category", string(data.Type)),
		zap.Float64("carbon_emissions", data.CarbonEmissions))
	return nil
}

func (s *Simulator) fail(id string, cause error) {
	_, err := s.tracker.Apply(id, func(u *internal.UploadedFile) {
		u.Status = internal.StatusError
		u.Error = cause.Error()
	})
	if err != nil {
		s.log.Error("upload failure not recorded", zap.String("file_id", id), zap.Error(err))
		return
	}
	s.log.Warn("upload failed", zap.String("file_id", id), zap.Error(cause))
}
