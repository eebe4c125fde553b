package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/palmares/internal/config"
	"github.com/pfrederiksen/palmares/internal/logger"
	"github.com/pfrederiksen/palmares/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

// Per-invocation state, set up by the root command's PersistentPreRunE.
var (
	cfg     config.Config
	appLog  = logger.Nop()
	metrics = logger.NewMetrics()
)

// now is the clock for fetch timestamps and cache freshness.
var now = time.Now

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palmares",
		Short: "Build chess tournament prize lists from published standings",
		Long: `A CLI tool to build the prize list (palmarès) of chess tournaments.
Fetches standings pages, applies an ordered set of award blocks and
prints who wins what, never awarding the same player twice unless the
tournament allows it.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", config.DefaultPath, "Config file")
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory for cached standings (overrides config)")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newFetchCmd(),
		newStandingsCmd(),
		newResolveCmd(),
		newBlocksCmd(),
	)

	return cmd
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadRequired(flagConfig)
	} else {
		cfg, err = config.Load(flagConfig)
	}
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	appLog = logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(appLog)
	metrics = logger.NewMetrics()

	appLog.Debug("Configuration loaded", logger.Fields{
		"data_dir":    cfg.DataDir,
		"rules_file":  cfg.RulesFile,
		"tournaments": len(cfg.Tournaments),
	})
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	metrics.Log(appLog)
	_ = appLog.Sync()
}

func openStorage() (*storage.Storage, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
