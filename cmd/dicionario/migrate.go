package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/dicionario-backend/migrations"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd, opts, func(p *goose.Provider, log *slog.Logger) error {
					results, err := p.Up(cmd.Context())
					for _, r := range results {
						log.Info("migration applied", slog.Int64("version", r.Source.Version), slog.Duration("duration", r.Duration))
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd, opts, func(p *goose.Provider, log *slog.Logger) error {
					r, err := p.Down(cmd.Context())
					if r != nil {
						log.Info("migration rolled back", slog.Int64("version", r.Source.Version))
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd, opts, func(p *goose.Provider, _ *slog.Logger) error {
					statuses, err := p.Status(cmd.Context())
					if err != nil {
						return err
					}
					for _, s := range statuses {
						applied := "pending"
						if s.State == goose.StateApplied {
							applied = "applied " + s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						cmd.Printf("%05d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func withProvider(cmd *cobra.Command, opts *globalOptions, fn func(*goose.Provider, *slog.Logger) error) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	if err := fn(p, logger.With("command", "migrate")); err != nil {
		return fmt.Errorf("migrate %s: %w", cmd.Name(), err)
	}
	return nil
}
