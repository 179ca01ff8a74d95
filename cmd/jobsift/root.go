package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/logger"
)

const app = "jobsift"

var (
	cfgFile  string
	dataDir  string
	jsonLogs bool
	debug    bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jobsift ingests job postings from heterogeneous career sites into one clean dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", app+".yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the configured data directory")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
}

func setup() (config.Config, *zap.Logger, error) {
	log, err := logger.New(jsonLogs, debug)
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	if dataDir != "" {
		cfg.App.DataDir = dataDir
	}
	return cfg, log, nil
}
