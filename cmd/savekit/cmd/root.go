package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/savekit/internal/config"
	"github.com/rawbytedev/savekit/internal/logging"
	"github.com/rawbytedev/savekit/pkg/savefile"
)

// app holds what PersistentPreRunE resolved for the running command.
var app struct {
	cfg *config.Config
	log *logging.Logger
}

var rootCmd = &cobra.Command{
	Use:   "savekit",
	Short: "Inspect and edit save files",
	Long: `savekit decodes a save file, prints what it contains and applies small
edits (flags, item order) while leaving every other byte untouched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg := config.DefaultConfig()
		if path != "" && config.ConfigExists(path) {
			loaded, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if v, _ := cmd.Flags().GetBool("no-backup"); v {
			cfg.Backup.Enabled = false
		}

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		log, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Format, level)
		if err != nil {
			return err
		}
		app.cfg, app.log = cfg, log
		return nil
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().Bool("no-backup", false, "Do not back up a save before overwriting it")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug records")
}

func saveOptions() savefile.Options {
	opts := savefile.Options{
		Logger:    app.log,
		Backup:    app.cfg.Backup.Enabled,
		BackupDir: app.cfg.Backup.Dir,
	}
	if lvl, err := app.cfg.Backup.EncoderLevel(); err == nil {
		opts.BackupLevel = lvl
	}
	return opts
}

func openSave(cmd *cobra.Command, path string) (*savefile.File, error) {
	f, err := savefile.Open(cmd.Context(), path, saveOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
