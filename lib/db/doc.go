// Package db provides a standardized interface for the byte-level key-value
// databases that back local preference suites.
//
// The package focuses on:
//   - A unified interface for key-value operations
//   - Feature discovery through capability flags
//   - Standardized persistence operations
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must satisfy.
//     It provides methods for basic operations (Set, Get, Has, Delete), iteration
//     (Range), metadata retrieval (GetInfo), and persistence operations (Save, Load).
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     can advertise through the SupportsFeature method. This allows clients to
//     discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different database backends (currently "maple").
//
//   - Database Information: The DatabaseInfo structure reports database state,
//     including an estimated size, the implementation type, and
//     implementation-specific metadata.
//
// Note on Write Indices:
//   - All write operations take a write-index that serves as a logical timestamp.
//     The caller (usually lstore) generates it. A write whose index is lower than
//     the index stored with the entry is ignored, so delayed writes never
//     overwrite newer data.
//   - The database's global write-index only increases. SetWriteIdx ignores
//     lower values.
//
// Related Packages:
//
// The engines/maple package (github.com/ValentinKolb/dPrefs/lib/db/engines/maple)
// provides a sharded in-memory implementation with binary snapshots.
//
// The testing package (github.com/ValentinKolb/dPrefs/lib/db/testing) provides
// standardized tests for database implementations that satisfy the db.KVDB interface.
package db
