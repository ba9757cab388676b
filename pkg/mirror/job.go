package mirror

import (
	"context"
	"fmt"
	"log/slog"

	"ghnotion/pkg/scheduler"
)

// Job runs a sync pass for one table: index, fetch, reconcile
type Job struct {
	Table  Table
	Source ItemSource
	Store  RecordStore
	Logger *slog.Logger

	// DryRun plans the pass without writing to the destination
	DryRun bool
}

// NewJob creates a job syncing items of table.Kind from source into store
func NewJob(table Table, source ItemSource, store RecordStore, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		Table:  table,
		Source: source,
		Store:  store,
		Logger: logger.With("table", table.Kind),
	}
}

// Name returns the kind of items this job syncs
func (j *Job) Name() string {
	return string(j.Table.Kind)
}

// Run performs one pass and reports its phases to the scheduler
func (j *Job) Run(ctx context.Context, report scheduler.Reporter) error {
	_, _, err := j.sync(ctx, report)
	return err
}

// Sync performs one pass and returns the plan it executed
func (j *Job) Sync(ctx context.Context) (*Plan, Result, error) {
	return j.sync(ctx, func(scheduler.State) {})
}

func (j *Job) sync(ctx context.Context, report scheduler.Reporter) (*Plan, Result, error) {
	j.Logger.Info("syncing GitHub items with Notion database", "database", j.Table.DatabaseID)

	report(scheduler.StateFetching)
	index, err := BuildIndex(ctx, j.Store, j.Table, j.Logger)
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to build %s index: %w", j.Table.Kind, err)
	}

	items, err := j.Source.ListItems(ctx, j.Table.Kind)
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to fetch %s: %w", j.Table.Kind, err)
	}
	items = CollectItems(items)

	report(scheduler.StateReconciling)
	reconciler := NewReconciler(j.Store, j.Logger)
	plan := reconciler.Plan(j.Table, index, items)

	j.Logger.Debug("reconciliation planned",
		"indexed", len(index), "fetched", len(items),
		"creates", plan.Count(ChangeTypeCreate), "updates", plan.Count(ChangeTypeUpdate))

	if j.DryRun {
		return plan, Result{}, nil
	}

	result, err := reconciler.Apply(ctx, plan)
	if err != nil {
		return plan, result, err
	}

	j.Logger.Info("sync complete", "created", result.Created, "updated", result.Updated)
	return plan, result, nil
}
