// Package notion stores mirrored items as pages of Notion databases.
//
// Client adapts the Notion API to mirror.RecordStore: it queries a database
// one page of results at a time, creates pages under a database and updates
// the mapped properties of existing pages.
package notion
