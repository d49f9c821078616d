package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"carbonwise/internal/activity"
	"carbonwise/internal/analysis"
	"carbonwise/internal/config"
	"carbonwise/internal/dashboard"
	"carbonwise/internal/listener"
	"carbonwise/internal/logging"
	"carbonwise/internal/storage"
	"carbonwise/internal/upload"
	"carbonwise/internal/web"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logging.New(cfg)
	must(err)
	defer log.Sync()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	sim := upload.NewSimulator(upload.NewTracker(log), upload.Options{
		StepDelay:    cfg.UploadStepDelay,
		ProcessDelay: cfg.UploadProcessDelay,
		Logger:       log,
	})
	defer sim.Close()

	srv := web.NewServer(web.Deps{
		Simulator:      sim,
		Collector:      activity.NewCollector(),
		Aggregator:     analysis.NewAggregator(db, analysis.Options{Delay: cfg.AnalysisDelay, Logger: log}),
		Presenter:      dashboard.NewPresenter(db),
		Store:          db,
		Logger:         log,
		MaxUploadBytes: cfg.UploadMaxBytes,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	exporter := listener.NewService(db, cfg.OutputDir, cfg.ExportInterval, nil, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return exporter.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		log.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	must(g.Wait())
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
