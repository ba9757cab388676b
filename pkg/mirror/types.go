package mirror

import (
	"fmt"
	"strings"
)

// Kind identifies which collection of repository items a table mirrors
type Kind string

const (
	KindIssues Kind = "issues"
	KindPulls  Kind = "pulls"
)

// Kinds lists every supported kind in the order they are synced
func Kinds() []Kind {
	return []Kind{KindIssues, KindPulls}
}

// ParseKind converts user input such as "issues" or "prs" into a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "issues", "issue":
		return KindIssues, nil
	case "pulls", "pull", "prs", "pr":
		return KindPulls, nil
	default:
		return "", fmt.Errorf("unknown item kind %q: expected issues or pulls", s)
	}
}

// Label is a name-only label as stored in the destination
type Label struct {
	Name string `json:"name"`
}

// RemoteItem is a normalized snapshot of one issue or pull request
type RemoteItem struct {
	SourceID int64   `json:"id"`
	Key      int     `json:"number"`
	Title    string  `json:"title"`
	State    string  `json:"state"`
	Labels   []Label `json:"labels"`
}

// Index maps an item key to the identifier of the destination record holding it
type Index map[int]string

// Schema names the destination fields written for each item
type Schema struct {
	StateField  string `yaml:"state,omitempty"`
	KeyField    string `yaml:"key,omitempty"`
	TitleField  string `yaml:"title,omitempty"`
	LabelsField string `yaml:"labels,omitempty"`
}

// IssuesSchema returns the field names of the issues table
func IssuesSchema() Schema {
	return Schema{
		StateField:  "State",
		KeyField:    "Issue Number",
		TitleField:  "Name",
		LabelsField: "Labels",
	}
}

// PullsSchema returns the field names of the pull requests table
func PullsSchema() Schema {
	return Schema{
		StateField:  "State",
		KeyField:    "Request Number",
		TitleField:  "Name",
		LabelsField: "Labels",
	}
}

// DefaultSchema returns the field names used for the given kind
func DefaultSchema(kind Kind) Schema {
	if kind == KindPulls {
		return PullsSchema()
	}
	return IssuesSchema()
}

// Merge returns s with every empty field taken from defaults
func (s Schema) Merge(defaults Schema) Schema {
	if s.StateField == "" {
		s.StateField = defaults.StateField
	}
	if s.KeyField == "" {
		s.KeyField = defaults.KeyField
	}
	if s.TitleField == "" {
		s.TitleField = defaults.TitleField
	}
	if s.LabelsField == "" {
		s.LabelsField = defaults.LabelsField
	}
	return s
}

// Table is one destination database and the schema its records follow
type Table struct {
	Kind       Kind
	DatabaseID string
	Schema     Schema
}

// Properties is the schema-shaped property set written for one item
type Properties struct {
	Schema Schema
	State  string
	Key    int
	Title  string
	Labels []Label
}

// Record is one destination record as seen by the index builder
type Record struct {
	ID     string
	Key    int
	HasKey bool
}

// RecordPage is a single page of a paginated destination query
type RecordPage struct {
	Records    []Record
	HasMore    bool
	NextCursor string
}

// ChangeType represents the type of write issued for an item
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeUpdate ChangeType = "update"
)

// Change is a single planned write against the destination
type Change struct {
	Type       ChangeType
	Key        int
	RecordID   string
	Properties Properties
}

// Plan holds every write needed to bring a table in line with the source
type Plan struct {
	Table   Table
	Changes []Change
}

// Count returns the number of changes of the given type
func (p *Plan) Count(changeType ChangeType) int {
	n := 0
	for _, c := range p.Changes {
		if c.Type == changeType {
			n++
		}
	}
	return n
}

// Result summarizes the writes performed by Apply
type Result struct {
	Created int
	Updated int
}
