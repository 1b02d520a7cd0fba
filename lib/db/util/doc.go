// Package util provides helpers shared by the db.KVDB implementations.
//
// The package contains:
//   - functions: seed generation, the seeded FNV-1a string hash and shard selection
//   - statistics: a summary of how entries are distributed across shards, reported by GetInfo
package util
