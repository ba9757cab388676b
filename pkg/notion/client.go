package notion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"ghnotion/pkg/mirror"
)

// pageSize is the number of records requested per database query
const pageSize = 100

// Client implements mirror.RecordStore on top of the Notion API
type Client struct {
	api *notionapi.Client
}

// NewClient creates a Notion client authenticated with an integration token.
// A nil httpClient uses the library default.
func NewClient(token string, httpClient *http.Client) *Client {
	var opts []notionapi.ClientOption
	if httpClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(httpClient))
	}

	return &Client{
		api: notionapi.NewClient(notionapi.Token(token), opts...),
	}
}

// QueryRecords returns one page of a database query. An empty cursor starts from the first page.
func (c *Client) QueryRecords(ctx context.Context, databaseID, keyField, cursor string) (*mirror.RecordPage, error) {
	req := &notionapi.DatabaseQueryRequest{
		PageSize: pageSize,
	}
	if cursor != "" {
		req.StartCursor = notionapi.Cursor(cursor)
	}

	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, WrapNotionError(err, fmt.Sprintf("database %s", databaseID))
	}

	page := &mirror.RecordPage{
		Records:    make([]mirror.Record, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}

	for _, result := range resp.Results {
		record := mirror.Record{ID: string(result.ID)}
		if number, ok := numberValue(result.Properties[keyField]); ok && number > 0 {
			record.Key = int(number)
			record.HasKey = true
		}
		page.Records = append(page.Records, record)
	}

	return page, nil
}

// CreateRecord creates a page in the database holding the mapped properties
func (c *Client) CreateRecord(ctx context.Context, databaseID string, props mirror.Properties) (string, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: toNotionProperties(props),
	}

	page, err := c.api.Page.Create(ctx, req)
	if err != nil {
		return "", WrapNotionError(err, fmt.Sprintf("page for #%d in database %s", props.Key, databaseID))
	}

	return string(page.ID), nil
}

// UpdateRecord replaces the mapped properties of a page; other properties are left untouched
func (c *Client) UpdateRecord(ctx context.Context, recordID string, props mirror.Properties) error {
	req := &notionapi.PageUpdateRequest{
		Properties: toNotionProperties(props),
	}

	if _, err := c.api.Page.Update(ctx, notionapi.PageID(recordID), req); err != nil {
		return WrapNotionError(err, fmt.Sprintf("page %s", recordID))
	}

	return nil
}

// Database summarizes a destination database and how well it matches a schema
type Database struct {
	ID     string
	Title  string
	Issues []string
}

// DescribeDatabase fetches a database and reports schema fields that are missing or mistyped
func (c *Client) DescribeDatabase(ctx context.Context, databaseID string, schema mirror.Schema) (*Database, error) {
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return nil, WrapNotionError(err, fmt.Sprintf("database %s", databaseID))
	}

	result := &Database{ID: databaseID}
	for _, rt := range db.Title {
		result.Title += rt.PlainText
	}

	for _, field := range expectedFields(schema) {
		cfg, ok := db.Properties[field.name]
		if !ok {
			result.Issues = append(result.Issues, fmt.Sprintf("missing property %q (%s)", field.name, field.kind))
			continue
		}
		if got := string(cfg.GetType()); got != field.kind {
			result.Issues = append(result.Issues, fmt.Sprintf("property %q has type %s, expected %s", field.name, got, field.kind))
		}
	}

	return result, nil
}
