// Package sqlite persists the vector index as a single SQLite database file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Embeddings are stored as little-endian float32 BLOBs, one row per chunk,
// ordered by insertion position.
//
// # Data Location
//
// The database is written to <cache dir>/index.db. Save builds the file under a
// temporary name and renames it into place, so a reader never sees a
// half-written index.
package sqlite
