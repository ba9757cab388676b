package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory RecordStore that pages its records
type memStore struct {
	pageSize int
	records  []memRecord
	nextID   int

	queries []string
	creates []Properties
	updates map[string][]Properties

	queryErr  error
	createErr error
}

type memRecord struct {
	id    string
	key   int
	props Properties
}

func newMemStore(pageSize int) *memStore {
	return &memStore{
		pageSize: pageSize,
		updates:  make(map[string][]Properties),
	}
}

func (s *memStore) seed(key int, id string) {
	s.records = append(s.records, memRecord{id: id, key: key})
}

func (s *memStore) QueryRecords(_ context.Context, _, _ string, cursor string) (*RecordPage, error) {
	s.queries = append(s.queries, cursor)
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		start = n
	}

	end := start + s.pageSize
	if end > len(s.records) {
		end = len(s.records)
	}

	page := &RecordPage{}
	for _, r := range s.records[start:end] {
		page.Records = append(page.Records, Record{ID: r.id, Key: r.key, HasKey: r.key > 0})
	}
	if end < len(s.records) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (s *memStore) CreateRecord(_ context.Context, _ string, props Properties) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.nextID++
	id := fmt.Sprintf("page-%d", s.nextID)
	s.creates = append(s.creates, props)
	s.records = append(s.records, memRecord{id: id, key: props.Key, props: props})
	return id, nil
}

func (s *memStore) UpdateRecord(_ context.Context, recordID string, props Properties) error {
	s.updates[recordID] = append(s.updates[recordID], props)
	return nil
}

func (s *memStore) updateCount() int {
	n := 0
	for _, u := range s.updates {
		n += len(u)
	}
	return n
}

// staticSource returns a fixed list of items per kind
type staticSource struct {
	items map[Kind][]RemoteItem
	err   error
	calls int
}

func (s *staticSource) ListItems(_ context.Context, kind Kind) ([]RemoteItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items[kind], nil
}
