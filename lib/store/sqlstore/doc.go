// Package sqlstore implements store.ISuite on top of a SQLite database
// (modernc.org/sqlite, no cgo required).
//
// All suites of one database share the table entries(suite, key, value, kind,
// updated_at). Values are stored as native.Marshal blobs; the kind column only
// helps when inspecting the file with external tools. Writes are upserts, so a
// Set is atomic per key.
//
// The database runs in WAL mode with a single connection, which serializes
// writers without SQLITE_BUSY errors.
package sqlstore
