package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/pnaas/internal/config"
	"github.com/rpggio/pnaas/internal/logging"
	"github.com/rpggio/pnaas/internal/storage"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string

	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pnaas",
		Short:         "Request tracking service",
		Long:          `pnaas accepts requests over HTTP, hands back a resid for each one, and serves the request with its responses on lookup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML config (overrides PNAAS_CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newRespondCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger writing to logW.
func (a *app) setup(logW io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.Log, logW)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

func (a *app) openStore() (*storage.Store, error) {
	store, err := storage.Open(a.cfg.DB, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.logger.Debug("database ready", "dialect", store.Dialect, "driver", store.Driver)
	return store, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
