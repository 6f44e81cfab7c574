// Package cli implements the aerocodectl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/aerocode/db"
	"github.com/garnizeh/aerocode/internal/app"
	"github.com/garnizeh/aerocode/internal/config"
	"github.com/garnizeh/aerocode/internal/db"
	"github.com/garnizeh/aerocode/internal/repository/sqlite"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
}

// RootCmd returns the aerocodectl root command with every subcommand attached.
func RootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "aerocodectl",
		Short:         "Operator tool for the aerocode production database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config YAML file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log database activity to stderr")

	root.AddCommand(MigrateCmd(opts))
	root.AddCommand(BackupCmd(opts))
	root.AddCommand(RestoreCmd(opts))
	root.AddCommand(EligibilityCmd(opts))
	root.AddCommand(ReportCmd(opts))

	return root
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path must not be empty")
	}
	return cfg, nil
}

func (o *options) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// openDB opens the configured database and applies pending migrations.
func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	conn, err := db.New(ctx, db.DSN(cfg.DatabasePath), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// withServices runs fn against services backed by the configured database.
func (o *options) withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Services) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	logger := o.logger(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, app.NewServices(sqlite.New(conn, logger), logger, nil))
}
