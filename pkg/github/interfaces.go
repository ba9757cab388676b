package github

import "context"

// AccessValidator checks credentials and repository access before a sync
type AccessValidator interface {
	ValidateToken(ctx context.Context) (*TokenInfo, error)
	ValidateRepositoryAccess(ctx context.Context, owner, repo string) (*Repository, error)
}
