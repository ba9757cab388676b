package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghnotion/pkg/mirror"
)

// mockGitHubServer creates a test HTTP server that mocks GitHub API responses
func mockGitHubServer(_ *testing.T, responses map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		key := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		if response, exists := responses[key]; exists {
			if err, ok := response.(error); ok {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
				return
			}

			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(response)
		} else {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		}
	}))
}

// createTestClient creates a GitHub client configured to use the test server
func createTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client := NewClient("test-token")

	serverURL, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}

	client.client.BaseURL = serverURL

	return client
}

func issueJSON(id, number int, title, state string, labels ...string) map[string]interface{} {
	labelList := make([]map[string]interface{}, 0, len(labels))
	for _, label := range labels {
		labelList = append(labelList, map[string]interface{}{"name": label, "color": "ededed"})
	}
	return map[string]interface{}{
		"id":     id,
		"number": number,
		"title":  title,
		"state":  state,
		"labels": labelList,
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token")
	require.NotNil(t, client)
	assert.NotNil(t, client.client)

	anonymous := NewClient("")
	require.NotNil(t, anonymous)
	assert.NotNil(t, anonymous.client)
}

func TestListIssues(t *testing.T) {
	tests := []struct {
		name          string
		mockResponse  interface{}
		expected      []mirror.RemoteItem
		expectedError bool
		expectedType  ErrorType
	}{
		{
			name: "issues with and without labels",
			mockResponse: []map[string]interface{}{
				issueJSON(1001, 42, "Fix login", "open", "bug", "p1"),
				issueJSON(1002, 43, "Docs", "closed"),
			},
			expected: []mirror.RemoteItem{
				{SourceID: 1001, Key: 42, Title: "Fix login", State: "open", Labels: []mirror.Label{{Name: "bug"}, {Name: "p1"}}},
				{SourceID: 1002, Key: 43, Title: "Docs", State: "closed", Labels: []mirror.Label{}},
			},
		},
		{
			name:         "empty repository",
			mockResponse: []map[string]interface{}{},
			expected:     nil,
		},
		{
			name:          "server error",
			mockResponse:  fmt.Errorf("Internal Server Error"),
			expectedError: true,
			expectedType:  ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockGitHubServer(t, map[string]interface{}{
				"GET /repos/octo/app/issues": tt.mockResponse,
			})
			defer server.Close()

			client := createTestClient(t, server)
			items, err := client.ListIssues(context.Background(), "octo", "app")

			if tt.expectedError {
				require.Error(t, err)
				var ghErr *GitHubError
				require.ErrorAs(t, err, &ghErr)
				assert.Equal(t, tt.expectedType, ghErr.Type)
				assert.Equal(t, "issues for octo/app", ghErr.Resource)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestListIssues_QueryParameters(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := createTestClient(t, server)
	_, err := client.ListIssues(context.Background(), "octo", "app")
	require.NoError(t, err)

	assert.Equal(t, "all", query.Get("state"))
	assert.Equal(t, "100", query.Get("per_page"))
}

func TestListIssues_FollowsPagination(t *testing.T) {
	var requestedPages []string
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requestedPages = append(requestedPages, page)
		w.Header().Set("Content-Type", "application/json")

		switch page {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/app/issues?page=2>; rel="next", <%s/repos/octo/app/issues?page=3>; rel="last"`, server.URL, server.URL))
			json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(1, 1, "one", "open")})
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/app/issues?page=3>; rel="next"`, server.URL))
			json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(2, 2, "two", "open")})
		default:
			json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(3, 3, "three", "closed")})
		}
	}))
	defer server.Close()

	client := createTestClient(t, server)
	items, err := client.ListIssues(context.Background(), "octo", "app")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "2", "3"}, requestedPages)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].Key, items[1].Key, items[2].Key})
}

func TestListIssues_ErrorOnLaterPageDiscardsResults(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/app/issues?page=2>; rel="next"`, server.URL))
			json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(1, 1, "one", "open")})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "Bad Gateway"}`))
	}))
	defer server.Close()

	client := createTestClient(t, server)
	items, err := client.ListIssues(context.Background(), "octo", "app")

	assert.Nil(t, items)
	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeNetwork, ghErr.Type)
	assert.True(t, ghErr.IsRetryable())
}

func TestListPullRequests(t *testing.T) {
	tests := []struct {
		name          string
		mockResponse  interface{}
		expected      []mirror.RemoteItem
		expectedError bool
		expectedType  ErrorType
	}{
		{
			name: "pull requests",
			mockResponse: []map[string]interface{}{
				issueJSON(2001, 7, "Add feature", "open", "enhancement"),
				issueJSON(2002, 8, "Refactor", "closed"),
			},
			expected: []mirror.RemoteItem{
				{SourceID: 2001, Key: 7, Title: "Add feature", State: "open", Labels: []mirror.Label{{Name: "enhancement"}}},
				{SourceID: 2002, Key: 8, Title: "Refactor", State: "closed", Labels: []mirror.Label{}},
			},
		},
		{
			name:         "no pull requests",
			mockResponse: []map[string]interface{}{},
			expected:     nil,
		},
		{
			name:          "server error",
			mockResponse:  fmt.Errorf("Internal Server Error"),
			expectedError: true,
			expectedType:  ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockGitHubServer(t, map[string]interface{}{
				"GET /repos/octo/app/pulls": tt.mockResponse,
			})
			defer server.Close()

			client := createTestClient(t, server)
			items, err := client.ListPullRequests(context.Background(), "octo", "app")

			if tt.expectedError {
				require.Error(t, err)
				var ghErr *GitHubError
				require.ErrorAs(t, err, &ghErr)
				assert.Equal(t, tt.expectedType, ghErr.Type)
				assert.Equal(t, "pulls for octo/app", ghErr.Resource)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestListItems(t *testing.T) {
	server := mockGitHubServer(t, map[string]interface{}{
		"GET /repos/octo/app/issues": []map[string]interface{}{issueJSON(1, 42, "issue", "open")},
		"GET /repos/octo/app/pulls":  []map[string]interface{}{issueJSON(2, 7, "pull", "open")},
	})
	defer server.Close()

	client := createTestClient(t, server)

	issues, err := client.ListItems(context.Background(), "octo", "app", mirror.KindIssues)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 42, issues[0].Key)

	pulls, err := client.ListItems(context.Background(), "octo", "app", mirror.KindPulls)
	require.NoError(t, err)
	require.Len(t, pulls, 1)
	assert.Equal(t, 7, pulls[0].Key)

	_, err = client.ListItems(context.Background(), "octo", "app", mirror.Kind("discussions"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported item kind")
}

func TestListItems_RepositoryNotFound(t *testing.T) {
	server := mockGitHubServer(t, map[string]interface{}{})
	defer server.Close()

	client := createTestClient(t, server)
	_, err := client.ListItems(context.Background(), "octo", "missing", mirror.KindIssues)

	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeNotFound, ghErr.Type)
	assert.Contains(t, ghErr.Message, "Repository not found")
}

func TestRepositorySource(t *testing.T) {
	server := mockGitHubServer(t, map[string]interface{}{
		"GET /repos/octo/app/pulls": []map[string]interface{}{issueJSON(2, 7, "pull", "open")},
	})
	defer server.Close()

	var source mirror.ItemSource = createTestClient(t, server).Source("octo", "app")

	items, err := source.ListItems(context.Background(), mirror.KindPulls)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pull", items[0].Title)
}

func TestConvertLabels(t *testing.T) {
	assert.Equal(t, []mirror.Label{}, convertLabels(nil))

	name := "bug"
	assert.Equal(t, []mirror.Label{{Name: "bug"}}, convertLabels([]*github.Label{{Name: &name}}))
}
