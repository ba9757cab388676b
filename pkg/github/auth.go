package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"ghnotion/pkg/config"
)

// AuthManager handles GitHub authentication
type AuthManager struct {
	client *github.Client
	token  string
}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// GetToken retrieves the GitHub token from environment variables or the config file
func (am *AuthManager) GetToken(cfg *config.Config) (string, error) {
	for _, key := range config.GitHubTokenEnvVars {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return token, nil
		}
	}

	if cfg != nil && strings.TrimSpace(cfg.GitHub.Token) != "" {
		return strings.TrimSpace(cfg.GitHub.Token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN environment variable or configure token in ~/.ghnotion/config.yaml")
}

// Authenticate sets up the GitHub client with the provided token
func (am *AuthManager) Authenticate(token string) error {
	if token == "" {
		return fmt.Errorf("GitHub token cannot be empty")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	am.client = github.NewClient(tc)
	am.token = token

	return nil
}

// ValidateToken resolves the user behind the token and the scopes it carries.
// Fine-grained tokens report no scopes.
func (am *AuthManager) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	if am.client == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	user, resp, err := am.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to validate GitHub token: %w", WrapGitHubError(err, "authenticated user"))
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	return &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}, nil
}

// ValidateRepositoryAccess confirms the repository can be read with the current token
func (am *AuthManager) ValidateRepositoryAccess(ctx context.Context, owner, repo string) (*Repository, error) {
	if am.client == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	r, resp, err := am.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, WrapGitHubError(err, fmt.Sprintf("repository %s/%s", owner, repo))
	}

	repository := &Repository{
		ID:        r.GetID(),
		FullName:  r.GetFullName(),
		Private:   r.GetPrivate(),
		HasIssues: r.GetHasIssues(),
		OpenItems: r.GetOpenIssuesCount(),
	}

	// Classic tokens list their scopes; private repositories need "repo"
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" && repository.Private {
		scopes := strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
		if err := am.validatePermissions(scopes); err != nil {
			return repository, err
		}
	}

	return repository, nil
}

// validatePermissions checks if the token has required permissions
func (am *AuthManager) validatePermissions(scopes []string) error {
	requiredScopes := []string{"repo"}
	scopeMap := make(map[string]bool)

	for _, scope := range scopes {
		scopeMap[scope] = true
	}

	var missingScopes []string
	for _, required := range requiredScopes {
		if !scopeMap[required] {
			missingScopes = append(missingScopes, required)
		}
	}

	if len(missingScopes) > 0 {
		return fmt.Errorf("GitHub token missing required permissions: %s. Please ensure your token has the following scopes: %s",
			strings.Join(missingScopes, ", "), strings.Join(requiredScopes, ", "))
	}

	return nil
}

// GetClient returns the authenticated GitHub client
func (am *AuthManager) GetClient() *github.Client {
	return am.client
}

// AuthenticateFromConfig resolves the token, authenticates and validates it
func (am *AuthManager) AuthenticateFromConfig(ctx context.Context, cfg *config.Config) (*TokenInfo, error) {
	token, err := am.GetToken(cfg)
	if err != nil {
		return nil, err
	}

	if err := am.Authenticate(token); err != nil {
		return nil, err
	}

	return am.ValidateToken(ctx)
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_personal_access_token"

2. Configuration File:
   Add the following to ~/.ghnotion/config.yaml:

   github:
     token: "your_personal_access_token"

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Create a fine-grained token with read access to Issues and Pull requests,
   or a classic token with the repo scope for private repositories
3. Copy the generated token and use it with one of the methods above`
}
