package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/config"
	"carbonwise/internal/logging"
	"carbonwise/internal/storage"
)

type snapshotStore interface {
	LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error)
	SaveSnapshot(ctx context.Context, snap internal.AnalysisSnapshot) error
	DeleteSnapshot(ctx context.Context) error
}

type app struct {
	cfg    config.Config
	log    *zap.Logger
	store  snapshotStore
	closer io.Closer

	dbPath string
	memory bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "carbonwise",
		Short: "Track and analyse a personal carbon footprint",
		Long: `carbonwise simulates bill uploads, collects manual activities and
stores one analysis snapshot that the dashboard and reports read from.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "snapshot database path (default from DB_PATH)")
	root.PersistentFlags().BoolVar(&a.memory, "memory", false, "keep the snapshot in memory only")

	root.AddCommand(
		newEstimateCmd(),
		newAnalyzeCmd(a),
		newDashboardCmd(a),
		newExportCmd(a),
		newResetCmd(a),
	)
	return root
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	a.log = log

	if a.memory {
		a.store = storage.NewMemoryStore()
		return nil
	}
	if err := cfg.Require("DB_PATH", cfg.DBPath); err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	a.store = db
	a.closer = db
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
