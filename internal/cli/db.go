package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			conn, err := openDB(ctx, cfg, opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.DatabasePath, err)
			}
			defer conn.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "%s database %s is up to date\n", color.New(color.FgGreen).Sprint("OK"), cfg.DatabasePath)
			return nil
		},
	}
}

// BackupCmd returns the backup command
func BackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the database file to <database_path>.bak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			dst := cfg.DatabasePath + ".bak"
			if err := copyFile(cfg.DatabasePath, dst); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s backup written to %s\n", color.New(color.FgGreen).Sprint("OK"), dst)
			return nil
		},
	}
}

// RestoreCmd returns the restore command
func RestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Replace the database file with <database_path>.bak",
		Long: `Replace the configured database with its last backup.
Stop the server first; open connections keep reading the old file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			src := cfg.DatabasePath + ".bak"
			if err := copyFile(src, cfg.DatabasePath); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s database restored from %s\n", color.New(color.FgGreen).Sprint("OK"), src)
			return nil
		},
	}
}

// copyFile writes src over dst. dst is only replaced once the copy is complete.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
