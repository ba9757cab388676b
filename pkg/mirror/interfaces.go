package mirror

import "context"

// ItemSource lists every issue or pull request of the source repository
type ItemSource interface {
	ListItems(ctx context.Context, kind Kind) ([]RemoteItem, error)
}

// RecordStore reads and writes records in the destination database
type RecordStore interface {
	// QueryRecords returns one page of records; an empty cursor requests the first page
	QueryRecords(ctx context.Context, databaseID, keyField, cursor string) (*RecordPage, error)

	// CreateRecord adds a record to the database and returns its identifier
	CreateRecord(ctx context.Context, databaseID string, props Properties) (string, error)

	// UpdateRecord replaces the mapped properties of an existing record
	UpdateRecord(ctx context.Context, recordID string, props Properties) error
}

// Reconciler defines the interface for state reconciliation operations
type Reconciler interface {
	Plan(table Table, index Index, items []RemoteItem) *Plan
	Apply(ctx context.Context, plan *Plan) (Result, error)
}
