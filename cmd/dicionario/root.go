package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/dicionario-backend/internal/app"
	"github.com/heartmarshall/dicionario-backend/internal/config"
)

type globalOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "dicionario",
		Short:         "Portuguese dictionary API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newResolveCommand(opts),
		newPruneHistoryCommand(opts),
		newVersionCommand(),
	)
	return root
}

// load reads the configuration and builds the process logger.
func (o *globalOptions) load() (*config.Config, *slog.Logger, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Log, os.Stderr), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(app.BuildVersion())
		},
	}
}
