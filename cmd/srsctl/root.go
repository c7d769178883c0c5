package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hanzi-srs/internal/config"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/platform/clock"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/platform/storage"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	envFiles   []string
	logLevel   string
	clock      clock.Clock
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{clock: clock.System{}}
	return newRootCmdWithOptions(opts)
}

func newRootCmdWithOptions(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "srsctl",
		Short:         "Spaced-repetition scheduler for HSK vocabulary",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a config.yaml file")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(newSaveCmd(opts))
	rootCmd.AddCommand(newLookupCmd(opts))
	rootCmd.AddCommand(newReviewCmd(opts))
	rootCmd.AddCommand(newPostponeCmd(opts))
	rootCmd.AddCommand(newDueCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))

	return rootCmd
}

// env is what a command needs once configuration and storage are open.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend *storage.Backend
	study   study.Service
}

func (e *env) Close() {
	if err := e.backend.Close(); err != nil {
		e.logger.Error("failed to close storage", slog.String("error", err.Error()))
	}
}

// openEnv loads configuration and opens storage. Logs go to stderr so that
// command output stays parseable. migrate controls whether pending
// migrations are applied first.
func openEnv(ctx context.Context, cmd *cobra.Command, opts *globalOptions, migrate bool) (*env, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: opts.configFile,
		EnvFiles:   opts.envFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Server.LogLevel = opts.logLevel
	}

	l, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	open := storage.Open
	if migrate {
		open = storage.OpenAndMigrate
	}
	backend, err := open(ctx, cfg.Storage, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	svc := study.NewService(
		backend.Cards,
		backend.Lookups,
		srs.NewDefaultService(),
		opts.clock,
		study.Options{
			FrictionThreshold: cfg.Scheduler.FrictionThreshold,
			StrictLevels:      cfg.Scheduler.StrictLevels,
		},
		l,
	)

	return &env{cfg: cfg, logger: l, backend: backend, study: svc}, nil
}
