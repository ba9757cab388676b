package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ghnotion/pkg/mirror"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync [issues|pulls]...",
	Short: "Run a single sync pass and exit",
	Long: `Run one sync pass for issues, pull requests, or both (the default).

With --dry-run the Notion databases are indexed and the source repository is
read, but no pages are created or updated; the planned writes are printed
instead.

Examples:
  ghnotion sync
  ghnotion sync issues
  ghnotion sync pulls --dry-run`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show planned creates and updates without writing to Notion")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kinds, err := parseKinds(args)
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	for _, job := range buildJobs(cfg, kinds, logger) {
		job.DryRun = syncDryRun

		plan, result, err := job.Sync(ctx)
		if err != nil {
			return err
		}
		displayPlan(out, plan, result, syncDryRun)
	}

	return nil
}

// displayPlan shows the planned or applied changes in a human-readable format
func displayPlan(w io.Writer, plan *mirror.Plan, result mirror.Result, isDryRun bool) {
	if isDryRun {
		fmt.Fprintf(w, "\n🔍 Dry-run mode: Showing planned changes for %s (database %s)\n", plan.Table.Kind, plan.Table.DatabaseID)
	} else {
		fmt.Fprintf(w, "\n📋 Synced %s (database %s)\n", plan.Table.Kind, plan.Table.DatabaseID)
	}

	if len(plan.Changes) == 0 {
		fmt.Fprintln(w, "No items found in repository - nothing to sync")
		return
	}

	if isDryRun {
		for _, change := range plan.Changes {
			props := change.Properties
			switch change.Type {
			case mirror.ChangeTypeCreate:
				fmt.Fprintf(w, "  + #%d: CREATE %q [%s]%s\n", change.Key, props.Title, props.State, formatLabels(props.Labels))
			case mirror.ChangeTypeUpdate:
				fmt.Fprintf(w, "  ~ #%d: UPDATE page %s %q [%s]%s\n", change.Key, change.RecordID, props.Title, props.State, formatLabels(props.Labels))
			}
		}
		fmt.Fprintf(w, "\nTotal changes: %d (%d create, %d update)\n",
			len(plan.Changes), plan.Count(mirror.ChangeTypeCreate), plan.Count(mirror.ChangeTypeUpdate))
		return
	}

	fmt.Fprintf(w, "✅ %d created, %d updated\n", result.Created, result.Updated)
}

func formatLabels(labels []mirror.Label) string {
	if len(labels) == 0 {
		return ""
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return " labels: " + strings.Join(names, ", ")
}
