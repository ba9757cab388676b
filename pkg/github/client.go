package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"ghnotion/pkg/mirror"
)

// pageSize is the number of items requested per page of a listing
const pageSize = 100

// Client lists repository items using the GitHub REST API
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub API client with the provided token.
// An empty token creates an unauthenticated client limited to public repositories.
func NewClient(token string) *Client {
	if token == "" {
		return &Client{client: github.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// ListItems lists every item of the given kind in the repository, open and closed
func (c *Client) ListItems(ctx context.Context, owner, repo string, kind mirror.Kind) ([]mirror.RemoteItem, error) {
	switch kind {
	case mirror.KindIssues:
		return c.ListIssues(ctx, owner, repo)
	case mirror.KindPulls:
		return c.ListPullRequests(ctx, owner, repo)
	default:
		return nil, NewGitHubError(ErrorTypeValidation, fmt.Sprintf("unsupported item kind %q", kind), nil)
	}
}

// ListIssues lists every issue of a repository in all states.
// GitHub's issue listing also returns pull requests; they are passed through unchanged.
func (c *Client) ListIssues(ctx context.Context, owner, repo string) ([]mirror.RemoteItem, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var allIssues []mirror.RemoteItem

	for {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("issues for %s/%s", owner, repo))
		}

		for _, issue := range issues {
			allIssues = append(allIssues, mirror.RemoteItem{
				SourceID: issue.GetID(),
				Key:      issue.GetNumber(),
				Title:    issue.GetTitle(),
				State:    issue.GetState(),
				Labels:   convertLabels(issue.Labels),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// ListPullRequests lists every pull request of a repository in all states
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string) ([]mirror.RemoteItem, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var allPulls []mirror.RemoteItem

	for {
		pulls, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("pulls for %s/%s", owner, repo))
		}

		for _, pull := range pulls {
			allPulls = append(allPulls, mirror.RemoteItem{
				SourceID: pull.GetID(),
				Key:      pull.GetNumber(),
				Title:    pull.GetTitle(),
				State:    pull.GetState(),
				Labels:   convertLabels(pull.Labels),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPulls, nil
}

// Source binds the client to one repository so it satisfies mirror.ItemSource
func (c *Client) Source(owner, repo string) *RepositorySource {
	return &RepositorySource{
		client: c,
		owner:  owner,
		repo:   repo,
	}
}

// RepositorySource lists the items of a single repository
type RepositorySource struct {
	client *Client
	owner  string
	repo   string
}

// ListItems lists every item of the given kind in the bound repository
func (s *RepositorySource) ListItems(ctx context.Context, kind mirror.Kind) ([]mirror.RemoteItem, error) {
	return s.client.ListItems(ctx, s.owner, s.repo, kind)
}

// convertLabels flattens GitHub labels to name-only labels, never returning nil
func convertLabels(labels []*github.Label) []mirror.Label {
	converted := make([]mirror.Label, 0, len(labels))
	for _, label := range labels {
		converted = append(converted, mirror.Label{Name: label.GetName()})
	}
	return converted
}
