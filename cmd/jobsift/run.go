package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/store"
)

var runDeadlineSecs int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion pass over every configured source and persist the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if runDeadlineSecs > 0 {
			cfg.Run.DeadlineSecs = runDeadlineSecs
		}

		if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
			return err
		}
		db, err := store.Open(cfg.App.DataDir)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.Migrate(db.Pool); err != nil {
			return err
		}

		runner := ingest.NewRunner(cfg, log)
		defer runner.Close()

		// Run-level deadline: sources still pending when it expires are
		// abandoned; whatever was gathered is kept.
		ctx, cancel := context.WithTimeout(cmd.Context(),
			time.Duration(cfg.Run.DeadlineSecs)*time.Second)
		defer cancel()

		sum, postings, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		ictx, icancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer icancel()

		added, err := store.UpsertAll(ictx, db.Pool, postings, time.Now())
		if err != nil {
			return err
		}

		log.Info("dataset updated",
			zap.String("run_id", sum.RunID),
			zap.Int("postings", len(postings)),
			zap.Int("added", added),
			zap.String("data_dir", cfg.App.DataDir))
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runDeadlineSecs, "deadline", 0, "override the run deadline in seconds")
	rootCmd.AddCommand(runCmd)
}
