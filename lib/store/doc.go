// Package store defines the backing store of typed preferences: a suite is a
// named, flat namespace mapping string keys to native values.
//
// The package focuses on:
//   - A unified interface (ISuite) for get/set/delete by key across backends
//   - Unified error handling through typed return codes
//   - Sharing one suite instance per name through the Registry
//
// Key Components:
//
//   - ISuite Interface: The core abstraction. Writing native.Null deletes a key,
//     so the "no value" marker is never persisted at the top level. A suite
//     offers per-key atomicity only.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     (RetCode) and descriptive messages. Errors may wrap a cause, e.g.
//     native.ErrMalformed for corrupt stored bytes, which IsCode and errors.Is
//     both see through.
//
//   - Registry: Opens suites on first use through a SuiteFactory and hands out the
//     same instance for the same name afterwards. It is an explicit object that
//     the application owns, never a process-wide global.
//
//   - DBFactory: A function type that abstracts the creation of underlying db.KVDB
//     instances for byte-level backends.
//
// Implementations:
//
//	- Local Suite (lstore): A suite over any db.KVDB (e.g. the in-memory maple
//	  engine) with binary snapshots via Save and Load.
//	  Available in the "github.com/ValentinKolb/dPrefs/lib/store/lstore" package.
//
//	- SQLite Suite (sqlstore): Many suites in one SQLite file, persisted on
//	  every write.
//	  Available in the "github.com/ValentinKolb/dPrefs/lib/store/sqlstore" package.
//
// Encode and Decode translate between native values and the bytes stored by
// byte-level backends; both implementations use them.
package store
