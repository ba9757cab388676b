// Package mirror reconciles GitHub issues and pull requests against the records
// already stored in a Notion database.
//
// A sync pass for one kind of item builds an index of the destination table,
// fetches every item from the source repository, maps each item onto the
// table's schema and then issues one create or update per item. Nothing is
// ever deleted from the destination.
package mirror
