// Package store provides persistence for ozymandias documents.
//
// It contains concrete implementations of domain.DocumentStore:
//   - MemoryStore keeps documents in a map; nothing survives the process
//   - DocumentFileStore serialises all documents to one JSON file on disk,
//     replacing it atomically on every write
//   - SQLiteStore keeps documents in a SQLite database (modernc.org/sqlite,
//     no cgo)
//
// All stores are safe for concurrent use and share the same semantics:
// unknown ids yield apperr NOT_FOUND errors, listings are sorted by title then
// id, and a document may not take over the source or digest of another.
// Open selects a backend by name.
package store
