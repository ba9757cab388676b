package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ghnotion/pkg/scheduler"
)

var (
	runInterval string
	runOnly     []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Continuously mirror issues and pull requests into Notion",
	Long: `Run the sync loop until the process is stopped.

Issues and pull requests are synced by two independent jobs. Each job waits the
configured interval (default 5m) after a pass completes before starting the
next one. A pass that fails halts its job; the other job keeps running. The
command exits with an error once every job has halted.

Examples:
  ghnotion run
  ghnotion run --interval 10m
  ghnotion run --only issues`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInterval, "interval", "", "Delay between sync passes (e.g. 5m, 1h)")
	runCmd.Flags().StringSliceVar(&runOnly, "only", nil, "Sync only these kinds (issues, pulls)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runInterval != "" {
		cfg.Sync.Interval = runInterval
	}
	kinds, err := parseKinds(runOnly)
	if err != nil {
		return err
	}
	if err := cfg.ValidateKinds(kinds); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	interval, err := cfg.SyncInterval()
	if err != nil {
		return err
	}

	if cfg.GitHub.Token == "" {
		logger.Warn("no GitHub token configured, using unauthenticated access")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(interval, scheduler.WithLogger(logger))
	for _, job := range buildJobs(cfg, kinds, logger) {
		if err := sched.Add(job); err != nil {
			return err
		}
	}

	logger.Info("starting sync loop",
		"repository", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo,
		"interval", interval,
		"kinds", kinds)

	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("all sync jobs halted: %w", err)
	}

	logger.Info("sync loop stopped")
	return nil
}
