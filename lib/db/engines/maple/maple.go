package maple

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dPrefs/lib/db"
	"github.com/ValentinKolb/dPrefs/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/dPrefs/lib/db/util"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for database behavior and structure
const (
	magicNum     = "MAPLEDB\x00" // File format identifier
	mapleVersion = 4             // Database version (4: string keys, no TTL)
)

// supportedFeatures lists every feature implemented by maple
var supportedFeatures = []db.Feature{
	db.FeatureSet, db.FeatureGet, db.FeatureDelete, db.FeatureHas,
	db.FeatureRange, db.FeatureSave, db.FeatureLoad,
}

// --------------------------------------------------------------------------
// Core Maple database structure
// --------------------------------------------------------------------------

// mapleImpl implements an in-memory database with sharded data
type mapleImpl struct {
	numShards int           // Number of shards
	currIndex atomic.Uint64 // Current logical timestamp

	// state is swapped as a whole by Load
	mu     sync.RWMutex
	seed   uint64            // Seed for hash function
	shards []*internal.Shard // Array of shards
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = auto)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(), // Auto-determine based on CPU count
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new MapleDB instance with the specified options (optional)
func NewMapleDB(opts *DBOptions) db.KVDB {

	// fall back to defaults
	if opts == nil {
		opts = DefaultOptions()
	}
	numShards := opts.NumShards
	if numShards <= 0 {
		numShards = runtime.NumCPU()
	}

	return &mapleImpl{
		numShards: numShards,
		seed:      util.GenerateSeed(),
		shards:    internal.NewShards(numShards),
	}
}

// shard returns the shard responsible for key
func (maple *mapleImpl) shard(key string) *internal.Shard {
	return internal.GetShard(key, maple.seed, maple.shards)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key, value, and writeIndex.
// If the key already exists, the old value is overwritten unless the stored
// entry carries a newer write index.
//
// Safe for concurrent use.
func (maple *mapleImpl) Set(key string, value []byte, writeIndex uint64) {
	maple.SetWriteIdx(writeIndex)

	// the caller may reuse value
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	maple.mu.RLock()
	defer maple.mu.RUnlock()

	maple.shard(key).Data.Compute(key, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		// stale writes are ignored
		if loaded && writeIndex < old.Index {
			return old, false
		}
		return internal.Entry{Value: valueCopy, Index: writeIndex}, false
	})
}

// Delete removes an entry with the specified key. This change is immediate.
// A delete with a write index lower than the stored entry's index is ignored.
//
// Safe for concurrent use.
func (maple *mapleImpl) Delete(key string, writeIndex uint64) {
	maple.SetWriteIdx(writeIndex)

	maple.mu.RLock()
	defer maple.mu.RUnlock()

	maple.shard(key).Data.Compute(key, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if !loaded {
			return old, true // set delete to true because else the value will be created
		}
		if writeIndex < old.Index {
			return old, false
		}
		return old, true
	})
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The returned value is a copy of the stored data and therefore safe to use and modify.
//
// Safe for concurrent use.
func (maple *mapleImpl) Get(key string) ([]byte, bool) {
	maple.mu.RLock()
	defer maple.mu.RUnlock()

	entry, ok := maple.shard(key).Data.Load(key)
	if !ok {
		return nil, false
	}
	data := make([]byte, len(entry.Value))
	copy(data, entry.Value)
	return data, true
}

// Has checks whether a key exists in the database.
//
// Safe for concurrent use.
func (maple *mapleImpl) Has(key string) bool {
	maple.mu.RLock()
	defer maple.mu.RUnlock()

	_, ok := maple.shard(key).Data.Load(key)
	return ok
}

// Range calls fn for every entry until fn returns false.
// Like xsync.MapOf.Range it is not a consistent snapshot: concurrent writes
// may or may not be observed. fn must not call back into the database.
//
// Safe for concurrent use.
func (maple *mapleImpl) Range(fn func(key string, value []byte) bool) {
	maple.mu.RLock()
	defer maple.mu.RUnlock()

	for _, shard := range maple.shards {
		proceed := true
		shard.Data.Range(func(key string, entry internal.Entry) bool {
			proceed = fn(key, entry.Value)
			return proceed
		})
		if !proceed {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes a snapshot of the database to w.
//
// Format (little endian):
//
//	magic (8 bytes) | version (uint8) | seed (uint64) | count (uint64) |
//	count * [ key length (uint32) | key | index (uint64) | value length (uint32) | value ]
//
// The snapshot is fuzzy: writes running concurrently to Save may or may not be included.
func (maple *mapleImpl) Save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	type entryToSave struct {
		key   string
		entry internal.Entry
	}

	var dataEntries []entryToSave

	maple.mu.RLock()
	seed := maple.seed
	for _, shard := range maple.shards {
		shard.Data.Range(func(key string, entry internal.Entry) bool {
			// stored values are never mutated in place, so no copy is needed
			dataEntries = append(dataEntries, entryToSave{key, entry})
			return true
		})
	}
	maple.mu.RUnlock()

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint8(mapleVersion)); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, seed); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint64(len(dataEntries))); err != nil {
		return err
	}

	for _, item := range dataEntries {
		if err := writeBytes(bw, []byte(item.key)); err != nil {
			return err
		}

		if err := binary.Write(bw, binary.LittleEndian, item.entry.Index); err != nil {
			return err
		}

		if err := writeBytes(bw, item.entry.Value); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load replaces the content of the database with a snapshot written by Save.
// The snapshot is fully decoded before it replaces the current state, so a
// corrupt snapshot leaves the database untouched.
func (maple *mapleImpl) Load(r io.Reader) error {
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return fmt.Errorf("read magic number: %w", err)
	}

	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}

	if int(version) != mapleVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, mapleVersion)
	}

	var seed uint64
	if err := binary.Read(br, binary.LittleEndian, &seed); err != nil {
		return err
	}

	var dataCount uint64
	if err := binary.Read(br, binary.LittleEndian, &dataCount); err != nil {
		return err
	}

	shards := internal.NewShards(maple.numShards)
	var maxIndex uint64

	for i := uint64(0); i < dataCount; i++ {
		key, err := readBytes(br)
		if err != nil {
			return fmt.Errorf("entry %d: read key: %w", i, err)
		}

		var index uint64
		if err := binary.Read(br, binary.LittleEndian, &index); err != nil {
			return fmt.Errorf("entry %d: read index: %w", i, err)
		}
		maxIndex = max(maxIndex, index)

		value, err := readBytes(br)
		if err != nil {
			return fmt.Errorf("entry %d: read value: %w", i, err)
		}

		internal.GetShard(string(key), seed, shards).Data.Store(string(key), internal.Entry{
			Value: value,
			Index: index,
		})
	}

	maple.mu.Lock()
	maple.seed = seed
	maple.shards = shards
	maple.mu.Unlock()

	maple.SetWriteIdx(maxIndex)

	return nil
}

// writeBytes writes a uint32 length prefix followed by data
func writeBytes(w io.Writer, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("data too large (%d bytes)", len(data))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readBytes reads data written by writeBytes
func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	data := make([]byte, 0, min(int(n), 64*1024))
	buf := make([]byte, 32*1024)
	remaining := int(n)
	// read in chunks so a corrupt length cannot force a huge allocation
	for remaining > 0 {
		chunk := buf[:min(remaining, len(buf))]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, err
		}
		data = append(data, chunk...)
		remaining -= len(chunk)
	}
	return data, nil
}

// --------------------------------------------------------------------------
// Info and Features
// --------------------------------------------------------------------------

// GetInfo returns statistics about the database.
// SizeBytes counts keys, values and the per-entry index.
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	maple.mu.RLock()
	defer maple.mu.RUnlock()

	sizeBytes := 0
	shardSizes := make([]int, len(maple.shards))
	for i, shard := range maple.shards {
		shard.Data.Range(func(key string, entry internal.Entry) bool {
			sizeBytes += len(key) + len(entry.Value) + 8
			return true
		})
		shardSizes[i] = shard.Data.Size()
	}

	// Metadata for this specific database implementation
	meta := &struct {
		CurrentWriteIndex uint64            `json:"current_write_index" yaml:"current_write_index"`
		ShardCount        int               `json:"shard_count" yaml:"shard_count"`
		ShardDistribution util.Distribution `json:"shard_distribution" yaml:"shard_distribution"`
	}{
		CurrentWriteIndex: maple.currIndex.Load(),
		ShardCount:        len(maple.shards),
		ShardDistribution: util.NewDistribution(shardSizes),
	}

	return db.DatabaseInfo{
		SizeBytes:         sizeBytes,
		DbType:            db.ImplMaple,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (maple *mapleImpl) SupportsFeature(feature db.Feature) bool {
	var all db.Feature
	for _, f := range supportedFeatures {
		all |= f
	}
	return all&feature == feature
}

// Close releases the database. Maple holds no external resources.
func (maple *mapleImpl) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Index and Timestamp Management
// --------------------------------------------------------------------------

// SetWriteIdx safely updates the current index
// It only updates if the new index is greater than the current one
//
// Safe for concurrent use.
// It uses atomic operations to ensure that the index only increases.
func (maple *mapleImpl) SetWriteIdx(newIdx uint64) {
	for {
		currIdx := maple.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if maple.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (maple *mapleImpl) WriteIdx() uint64 {
	return maple.currIndex.Load()
}
