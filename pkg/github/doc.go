// Package github reads issues and pull requests from a GitHub repository for ghnotion.
// It wraps the GitHub REST API client and normalizes every item into the shape
// the mirror package reconciles against Notion.
//
// The package includes:
// - Client, which lists every issue or pull request of a repository in all states
// - AuthManager for resolving and validating the GitHub token
// - Structured error types classifying GitHub API failures
package github
