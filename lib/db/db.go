package db

import "io"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Implementation names a KVDB engine
type Implementation string

const (
	ImplMaple Implementation = "maple"
)

// Feature is a bit flag for an optional KVDB operation
type Feature uint64

const (
	FeatureSet    Feature = 1 << iota // Support for Set operations
	FeatureGet                        // Support for Get operations
	FeatureDelete                     // Support for Delete operations
	FeatureHas                        // Support for Has operations
	FeatureRange                      // Support for Range operations
	FeatureSave                       // Support for Save operations
	FeatureLoad                       // Support for Load operations
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureHas:
		return "Has"
	case FeatureRange:
		return "Range"
	case FeatureSave:
		return "Save"
	case FeatureLoad:
		return "Load"
	default:
		return "Unknown"
	}
}

// DatabaseInfo describes the state of a database, see KVDB.GetInfo
type DatabaseInfo struct {
	SizeBytes         int            `json:"size_bytes" yaml:"size_bytes"`
	DbType            Implementation `json:"db_type" yaml:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features" yaml:"supported_features"`
	Metadata          interface{}    `json:"metadata" yaml:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB is a byte-level key-value engine. A local suite stores one encoded
// native value per key in it.
//
// Every mutation carries a write index chosen by the caller. The engine keeps
// the index of the last applied write per entry and drops mutations that
// arrive with a lower one. Optional operations are announced via SupportsFeature.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set stores value under key, replacing any previous value, unless the
	// entry already carries a higher write index. The engine keeps its own
	// copy of value.
	Set(key string, value []byte, writeIndex uint64)

	// Delete removes key under the same write index rule as Set.
	// Deleting a missing key is a no-op.
	Delete(key string, writeIndex uint64)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get returns a copy of the value stored under key and whether it exists.
	Get(key string) (value []byte, loaded bool)

	// Has reports whether key exists.
	Has(key string) (loaded bool)

	// Range calls fn for every entry until fn returns false.
	// The iteration order is unspecified. The value passed to fn must not be
	// retained after fn returns.
	Range(fn func(key string, value []byte) bool)

	// --------------------------------------------------------------------------
	// Persistence Operations
	// --------------------------------------------------------------------------

	// Save writes a snapshot of all entries to w.
	Save(w io.Writer) (err error)

	// Load replaces all entries with a snapshot read from r.
	// On error the database keeps its previous content.
	Load(r io.Reader) (err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature reports whether every feature in the given set is
	// implemented, e.g. SupportsFeature(FeatureSave | FeatureLoad).
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns size and implementation details of the database.
	GetInfo() (info DatabaseInfo)

	// --------------------------------------------------------------------------
	// Write Index Operations
	// --------------------------------------------------------------------------

	// SetWriteIdx raises the highest write index seen so far. Lower values are ignored.
	SetWriteIdx(index uint64)

	// WriteIdx returns the highest write index seen so far.
	WriteIdx() (index uint64)

	// Close releases the database.
	Close() (err error)
}
