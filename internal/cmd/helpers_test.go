package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"ghnotion/pkg/config"
	"ghnotion/pkg/mirror"
)

// fakeSource serves fixed items per kind and signals every call on calls
type fakeSource struct {
	items map[mirror.Kind][]mirror.RemoteItem
	err   error
	calls chan mirror.Kind
}

func (s *fakeSource) ListItems(_ context.Context, kind mirror.Kind) ([]mirror.RemoteItem, error) {
	if s.calls != nil {
		s.calls <- kind
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.items[kind], nil
}

// fakeStore keeps records per database in memory and returns them as one page
type fakeStore struct {
	mu       sync.Mutex
	records  map[string]map[int]string
	creates  []mirror.Properties
	updates  map[string]mirror.Properties
	nextID   int
	queryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]map[int]string),
		updates: make(map[string]mirror.Properties),
	}
}

func (s *fakeStore) seed(databaseID string, key int, id string) {
	if s.records[databaseID] == nil {
		s.records[databaseID] = make(map[int]string)
	}
	s.records[databaseID][key] = id
}

func (s *fakeStore) QueryRecords(_ context.Context, databaseID, _, _ string) (*mirror.RecordPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	page := &mirror.RecordPage{}
	for key, id := range s.records[databaseID] {
		page.Records = append(page.Records, mirror.Record{ID: id, Key: key, HasKey: true})
	}
	return page, nil
}

func (s *fakeStore) CreateRecord(_ context.Context, databaseID string, props mirror.Properties) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("page-%d", s.nextID)
	if s.records[databaseID] == nil {
		s.records[databaseID] = make(map[int]string)
	}
	s.records[databaseID][props.Key] = id
	s.creates = append(s.creates, props)
	return id, nil
}

func (s *fakeStore) UpdateRecord(_ context.Context, recordID string, props mirror.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[recordID] = props
	return nil
}

var errQueryFailed = errors.New("query failed")

// setupCommandTest isolates the package-level flag values, factories and
// environment, and returns the config path used by the command under test
func setupCommandTest(t *testing.T) string {
	t.Helper()

	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_KEY", "GITHUB_REPO_OWNER", "GITHUB_REPO_NAME",
		"NOTION_TOKEN", "NOTION_KEY", "ISSUE_DATABASE_ID", "PULL_DATABASE_ID",
		"SYNC_INTERVAL", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfgFile = filepath.Join(dir, "config.yaml")
	envFile = filepath.Join(dir, ".env")
	logLevel = ""
	logFormat = ""
	syncDryRun = false
	validateOffline = false
	runInterval = ""
	runOnly = nil

	origSource, origStore := newItemSource, newRecordStore
	origValidator, origDescriber := newAccessValidator, newDatabaseDescriber
	t.Cleanup(func() {
		newItemSource, newRecordStore = origSource, origStore
		newAccessValidator, newDatabaseDescriber = origValidator, origDescriber
	})

	return cfgFile
}

// writeConfig writes a complete configuration to path
func writeConfig(t *testing.T, path string) *config.Config {
	t.Helper()

	cfg := &config.Config{
		GitHub: config.GitHubConfig{Token: "ghp_test", Owner: "octo", Repo: "app"},
		Notion: config.NotionConfig{
			Token:  "secret_test",
			Issues: config.TableConfig{DatabaseID: "issues-db"},
			Pulls:  config.TableConfig{DatabaseID: "pulls-db"},
		},
		Log: config.LogConfig{Format: "json"},
	}
	require.NoError(t, cfg.SaveConfigToPath(path))
	return cfg
}

// useFakes routes the commands to in-memory collaborators
func useFakes(source *fakeSource, store *fakeStore) {
	newItemSource = func(*config.Config) mirror.ItemSource { return source }
	newRecordStore = func(*config.Config) mirror.RecordStore { return store }
}

// newTestCommand returns a command carrying ctx whose output is captured
func newTestCommand(ctx context.Context) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}
