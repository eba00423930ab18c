// Package sqlite provides the default VectorIndex implementation on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Every chunk is one row
// holding its text, its metadata and its embedding as a little-endian
// float32 BLOB.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. The index_meta table records the embedding
// dimension fixed by the first insert.
//
// # Search
//
// Search is exact. Candidate rows are restricted by doc_name in SQL, then
// Euclidean distances are computed in Go and the nearest top-k are kept in
// a bounded heap.
//
// # Data Location
//
// By default, the database is stored at ~/.ragdesk/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Inserts run in a single transaction and
// SQLite in WAL mode provides the locking.
package sqlite
