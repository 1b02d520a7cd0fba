package lstore

import (
	"fmt"
	"github.com/ValentinKolb/dPrefs/lib/db"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/store"
	"io"
	"sort"
	"sync/atomic"
)

// LocalSuite is a suite backed by a local db.KVDB.
// In addition to store.ISuite it can write and restore snapshots.
type LocalSuite struct {
	name  string
	db    db.KVDB
	index atomic.Uint64
}

var _ store.ISuite = (*LocalSuite)(nil)

// NewLocalSuite creates a new local suite instance.
// This suite implementation is not distributed and only works on a single node.
// This works by using the maple engine from the db package directly.
func NewLocalSuite(name string, factory store.DBFactory) *LocalSuite {
	return &LocalSuite{
		name: name,
		db:   factory(),
	}
}

// incAndGetIndex increments the index and returns the new value.
// It is used to ensure that each write operation has a unique index.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *LocalSuite) incAndGetIndex() uint64 {
	return s.index.Add(1)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *LocalSuite) Name() string {
	return s.name
}

func (s *LocalSuite) Set(key string, value native.Value) error {
	if native.IsNull(value) {
		return s.Delete(key)
	}
	if !s.db.SupportsFeature(db.FeatureSet) {
		return store.NewError(store.RetCUnsupportedOperation, "Set operation is not supported")
	}

	data, err := store.Encode(value)
	if err != nil {
		return err
	}
	s.db.Set(key, data, s.incAndGetIndex())
	return nil
}

func (s *LocalSuite) Delete(key string) error {
	if !s.db.SupportsFeature(db.FeatureDelete) {
		return store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}
	s.db.Delete(key, s.incAndGetIndex())
	return nil
}

func (s *LocalSuite) Get(key string) (native.Value, bool, error) {
	if !s.db.SupportsFeature(db.FeatureGet) {
		return nil, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	data, ok := s.db.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, err := store.Decode(key, data)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *LocalSuite) Has(key string) (bool, error) {
	if !s.db.SupportsFeature(db.FeatureHas) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Has operation is not supported")
	}
	return s.db.Has(key), nil
}

func (s *LocalSuite) Keys() ([]string, error) {
	if !s.db.SupportsFeature(db.FeatureRange) {
		return nil, store.NewError(store.RetCUnsupportedOperation, "Range operation is not supported")
	}
	keys := []string{}
	s.db.Range(func(key string, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

func (s *LocalSuite) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// Save writes a snapshot of the suite to w.
func (s *LocalSuite) Save(w io.Writer) error {
	if !s.db.SupportsFeature(db.FeatureSave) {
		return store.NewError(store.RetCUnsupportedOperation, "Save operation is not supported")
	}
	if err := s.db.Save(w); err != nil {
		return store.WrapError(store.RetCInternalError, "save snapshot", err)
	}
	return nil
}

// Load replaces the content of the suite with a snapshot read from r.
// The write index continues after the highest index found in the snapshot.
func (s *LocalSuite) Load(r io.Reader) error {
	if !s.db.SupportsFeature(db.FeatureLoad) {
		return store.NewError(store.RetCUnsupportedOperation, "Load operation is not supported")
	}
	if err := s.db.Load(r); err != nil {
		return store.WrapError(store.RetCInternalError, fmt.Sprintf("load snapshot into suite %q", s.name), err)
	}

	// continue after the restored index so new writes are not treated as stale
	for {
		curr := s.index.Load()
		restored := s.db.WriteIdx()
		if restored <= curr || s.index.CompareAndSwap(curr, restored) {
			return nil
		}
	}
}

// GetDBInfo returns metadata about the database underlying the suite.
// It is not guaranteed that all fields are filled in or that the information is up-to-date!
func (s *LocalSuite) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}
