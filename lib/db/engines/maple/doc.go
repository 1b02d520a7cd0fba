// Package maple implements an in-memory key-value database (KVDB) that backs
// local preference suites. It provides a complete implementation of the
// db.KVDB interface with a focus on thread safety and cheap reads.
//
// The package focuses on:
//   - Concurrent access through sharding and xsync.MapOf
//   - Stale write detection through a caller-supplied write index
//   - Persistent storage with fuzzy snapshots and a compact binary encoding
//
// Key Components:
//
//   - mapleImpl: The central database structure implementing db.KVDB. It manages
//     shards and maintains a monotonically increasing write index. The write
//     index itself is generated by the caller (e.g. lstore), which allows
//     flexible integration with external ordering schemes.
//
//   - Shard: A partition of the database that manages a subset of the key space.
//     Keys are spread across shards with a seeded FNV-1a hash. The seed is
//     random per database and stored in snapshots.
//
//   - Entry: A stored value plus the write index of its last update. A write
//     is only applied if its index is greater than or equal to the entry's
//     index, so delayed writes never overwrite newer data.
//
// Persistence Format:
//
//	The snapshot uses the following structure (little endian):
//	1. Magic number "MAPLEDB\x00" to identify the file format
//	2. Version number (currently 4)
//	3. Database seed value
//	4. Number of entries
//	5. For each entry: key length, key, index, value length, value bytes
//
//	Save does not stop writers, so the snapshot is not a consistent cut of the
//	database. Load decodes the whole snapshot before swapping it in; a corrupt
//	snapshot leaves the database untouched.
//
// GetInfo reports the exact payload size, the current write index and how
// evenly entries are spread across shards.
package maple
