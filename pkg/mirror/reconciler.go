package mirror

import (
	"context"
	"fmt"
	"log/slog"
)

// reconciler implements the Reconciler interface
type reconciler struct {
	store  RecordStore
	logger *slog.Logger
}

// NewReconciler creates a new reconciler writing to store
func NewReconciler(store RecordStore, logger *slog.Logger) Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &reconciler{
		store:  store,
		logger: logger,
	}
}

// Plan decides create or update for every item by looking its key up in the index
func (r *reconciler) Plan(table Table, index Index, items []RemoteItem) *Plan {
	plan := &Plan{
		Table:   table,
		Changes: make([]Change, 0, len(items)),
	}

	for _, item := range items {
		props := MapProperties(item, table.Schema)

		recordID, exists := index[item.Key]
		if !exists {
			plan.Changes = append(plan.Changes, Change{
				Type:       ChangeTypeCreate,
				Key:        item.Key,
				Properties: props,
			})
			continue
		}

		plan.Changes = append(plan.Changes, Change{
			Type:       ChangeTypeUpdate,
			Key:        item.Key,
			RecordID:   recordID,
			Properties: props,
		})
	}

	return plan
}

// Apply executes the plan one request at a time and stops at the first failure
func (r *reconciler) Apply(ctx context.Context, plan *Plan) (Result, error) {
	var result Result

	for _, change := range plan.Changes {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch change.Type {
		case ChangeTypeCreate:
			recordID, err := r.store.CreateRecord(ctx, plan.Table.DatabaseID, change.Properties)
			if err != nil {
				return result, fmt.Errorf("failed to create %s record for #%d: %w", plan.Table.Kind, change.Key, err)
			}
			r.logger.Debug("record created", "table", plan.Table.Kind, "key", change.Key, "record", recordID)
			result.Created++

		case ChangeTypeUpdate:
			if err := r.store.UpdateRecord(ctx, change.RecordID, change.Properties); err != nil {
				return result, fmt.Errorf("failed to update %s record for #%d: %w", plan.Table.Kind, change.Key, err)
			}
			r.logger.Debug("record updated", "table", plan.Table.Kind, "key", change.Key, "record", change.RecordID)
			result.Updated++

		default:
			return result, fmt.Errorf("unsupported change type %q for #%d", change.Type, change.Key)
		}
	}

	return result, nil
}
