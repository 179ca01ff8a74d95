package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsift-engine/internal/quality"
	"jobsift-engine/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset against the configured quality thresholds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := store.Open(cfg.App.DataDir)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.Migrate(db.Pool); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		rows, err := store.ListPostings(ctx, db.Pool)
		if err != nil {
			return err
		}

		rep := quality.Check(rows, cfg)
		log.Info("quality report",
			zap.Int("rows", rep.Rows),
			zap.Float64("empty_location_frac", rep.EmptyLocationFrac),
			zap.Float64("empty_date_frac", rep.EmptyDateFrac),
			zap.Float64("unknown_seniority_frac", rep.UnknownSeniorityFrac))

		for _, w := range rep.Warnings {
			log.Warn(w)
		}
		if !rep.Passed() {
			for _, f := range rep.Failures {
				log.Error(f)
			}
			return fmt.Errorf("dataset failed %d quality gate(s)", len(rep.Failures))
		}
		log.Info("dataset passed all quality gates")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
