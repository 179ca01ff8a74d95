package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsift-engine/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset as CSV",
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

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if err := store.WriteCSV(out, rows, time.Now()); err != nil {
			return err
		}
		log.Info("exported", zap.Int("rows", len(rows)), zap.String("to", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write CSV to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
