package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/dicionario-backend/internal/app"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}

	logger.Info("starting application",
		slog.String("version", app.BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	c, err := app.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	return app.Serve(cmd.Context(), c)
}
