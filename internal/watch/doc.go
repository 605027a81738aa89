// Package watch keeps the knowledge base in sync with a directory tree by
// re-ingesting files as they change on disk.
package watch
