package github

// Repository is the subset of repository metadata reported by validation
type Repository struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Private   bool   `json:"private"`
	HasIssues bool   `json:"has_issues"`
	OpenItems int    `json:"open_issues_count"`
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}
