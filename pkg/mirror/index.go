package mirror

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
)

// ErrMissingCursor is returned when the store reports more pages without a cursor to fetch them
var ErrMissingCursor = errors.New("destination reported more pages but returned no cursor")

// Pages walks every page of a table, starting without a cursor and following
// the returned cursor while the store reports more pages. Iteration stops at
// the first error, which is yielded with a nil page.
func Pages(ctx context.Context, store RecordStore, table Table) iter.Seq2[*RecordPage, error] {
	return func(yield func(*RecordPage, error) bool) {
		cursor := ""
		for {
			page, err := store.QueryRecords(ctx, table.DatabaseID, table.Schema.KeyField, cursor)
			if err != nil {
				yield(nil, fmt.Errorf("failed to query %s table: %w", table.Kind, err))
				return
			}

			if !yield(page, nil) {
				return
			}

			if !page.HasMore {
				return
			}
			if page.NextCursor == "" {
				yield(nil, ErrMissingCursor)
				return
			}
			cursor = page.NextCursor
		}
	}
}

// BuildIndex scans the whole table and maps every stored key to its record.
// Any failed query aborts the scan; a partial index is never returned.
func BuildIndex(ctx context.Context, store RecordStore, table Table, logger *slog.Logger) (Index, error) {
	index := make(Index)

	for page, err := range Pages(ctx, store, table) {
		if err != nil {
			return nil, err
		}

		for _, record := range page.Records {
			if !record.HasKey {
				logger.Debug("skipping record without key",
					"table", table.Kind, "record", record.ID, "field", table.Schema.KeyField)
				continue
			}
			if existing, ok := index[record.Key]; ok {
				logger.Warn("duplicate key in destination table, using last record",
					"table", table.Kind, "key", record.Key, "previous", existing, "record", record.ID)
			}
			index[record.Key] = record.ID
		}
	}

	return index, nil
}

// CollectItems deduplicates items by key and orders them by ascending key.
// When a key repeats the later item replaces the earlier one.
func CollectItems(items []RemoteItem) []RemoteItem {
	byKey := make(map[int]RemoteItem, len(items))
	for _, item := range items {
		if item.Labels == nil {
			item.Labels = []Label{}
		}
		byKey[item.Key] = item
	}

	collected := make([]RemoteItem, 0, len(byKey))
	for _, item := range byKey {
		collected = append(collected, item)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Key < collected[j].Key
	})

	return collected
}
