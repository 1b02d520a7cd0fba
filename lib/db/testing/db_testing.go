package testing

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/dPrefs/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("StaleWrites", func(t *testing.T) {
			testStaleWrites(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentWriters", func(t *testing.T) {
			testConcurrentWriters(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	database.Set(testKey, testValue1, 1)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	database.Set(testKey, testValue2, 2)

	result, exists = database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists = database.Get("nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// Get must return a copy
	retrievedValue, _ := database.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := database.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}

	// Set must copy its input
	input := []byte("input")
	database.Set("input-key", input, 3)
	input[0] = 'X'
	stored, _ := database.Get("input-key")
	if !bytes.Equal(stored, []byte("input")) {
		t.Errorf("Set should copy the value, got %s", stored)
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	database.Set("delete-key", []byte("value"), 1)
	database.Delete("delete-key", 2)

	if _, exists := database.Get("delete-key"); exists {
		t.Errorf("Key should not exist after Delete")
	}

	// deleting a missing key is a no-op
	database.Delete("missing-key", 3)
	if _, exists := database.Get("missing-key"); exists {
		t.Errorf("Delete must not create a key")
	}

	// the key can be set again after a delete
	database.Set("delete-key", []byte("again"), 4)
	if result, exists := database.Get("delete-key"); !exists || string(result) != "again" {
		t.Errorf("Expected key to be set again after Delete, got %s, %v", result, exists)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureDelete)

	if database.Has("has-key") {
		t.Errorf("Has should return false for a missing key")
	}

	database.Set("has-key", nil, 1)
	if !database.Has("has-key") {
		t.Errorf("Has should return true for a key with an empty value")
	}

	database.Delete("has-key", 2)
	if database.Has("has-key") {
		t.Errorf("Has should return false after Delete")
	}
}

func testStaleWrites(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	database.Set("stale-key", []byte("new"), 10)

	// older writes are ignored
	database.Set("stale-key", []byte("old"), 5)
	if result, _ := database.Get("stale-key"); string(result) != "new" {
		t.Errorf("Stale Set should be ignored, got %s", result)
	}

	database.Delete("stale-key", 5)
	if _, exists := database.Get("stale-key"); !exists {
		t.Errorf("Stale Delete should be ignored")
	}

	// equal index wins
	database.Set("stale-key", []byte("same"), 10)
	if result, _ := database.Get("stale-key"); string(result) != "same" {
		t.Errorf("Set with equal index should be applied, got %s", result)
	}

	if database.WriteIdx() != 10 {
		t.Errorf("Expected write index 10, got %d", database.WriteIdx())
	}
	database.SetWriteIdx(3)
	if database.WriteIdx() != 10 {
		t.Errorf("Write index must not decrease, got %d", database.WriteIdx())
	}
}

func testRange(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureRange|db.FeatureDelete)

	expected := map[string]string{}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("range-key-%d", i)
		expected[key] = fmt.Sprintf("value-%d", i)
		database.Set(key, []byte(expected[key]), uint64(i+1))
	}
	database.Delete("range-key-0", 200)
	delete(expected, "range-key-0")

	seen := map[string]string{}
	database.Range(func(key string, value []byte) bool {
		seen[key] = string(value)
		return true
	})

	if len(seen) != len(expected) {
		t.Errorf("Expected %d entries, got %d", len(expected), len(seen))
	}
	for key, value := range expected {
		if seen[key] != value {
			t.Errorf("Expected %s=%s, got %s", key, value, seen[key])
		}
	}

	// early stop
	count := 0
	database.Range(func(string, []byte) bool {
		count++
		return count < 5
	})
	if count != 5 {
		t.Errorf("Range should stop after fn returns false, visited %d", count)
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	database2 := factory()

	// close the databases after the test
	defer database.Close()
	defer database2.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureSave|db.FeatureLoad)

	numEntries := 1000
	originalKeys := make([]string, numEntries)
	originalValues := make([][]byte, numEntries)

	for i := 0; i < numEntries; i++ {
		key := fmt.Sprintf("save-load-test-key-%d", i)
		value := []byte(fmt.Sprintf("save-load-test-value-%d", i))
		originalKeys[i] = key
		originalValues[i] = value

		database.Set(key, value, uint64(i+1))
	}

	// content of the target is replaced
	database2.Set("only-in-target", []byte("x"), 1)

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}

	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	for i := 0; i < numEntries; i++ {
		key := originalKeys[i]
		expectedValue := originalValues[i]

		actualValue, exists := database2.Get(key)
		if !exists {
			t.Errorf("Key %s not found after Load", key)
			continue
		}

		if !bytes.Equal(actualValue, expectedValue) {
			t.Errorf("Value mismatch for key %s: expected %s, got %s", key, expectedValue, actualValue)
		}
	}

	if _, exists := database2.Get("only-in-target"); exists {
		t.Errorf("Load should replace the previous content")
	}

	if database2.WriteIdx() < uint64(numEntries) {
		t.Errorf("Load should restore the write index, got %d", database2.WriteIdx())
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	tests := []struct {
		name  string
		key   string
		value []byte
	}{
		{"empty key", "", []byte("value for empty key")},
		{"empty value", "empty-value-key", []byte{}},
		{"nil value", "nil-value-key", nil},
		{"binary key", "\x00\xff\x00", []byte{0}},
		{"unicode key", "ключ/🔑", []byte("unicode")},
		{"large key", string(make([]byte, 1000)), []byte("value for large key")},
		{"large value", "large-value-key", bytes.Repeat([]byte{1, 2, 3, 4}, 256*1024)},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			database.Set(tc.key, tc.value, uint64(i+1))

			result, exists := database.Get(tc.key)
			if !exists {
				t.Fatalf("Key not found after Set")
			}
			if !bytes.Equal(result, tc.value) {
				t.Errorf("Value mismatch: expected %d bytes, got %d bytes", len(tc.value), len(result))
			}
		})
	}
}

func testConcurrentWriters(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureRange)

	const writers = 8
	const keysPerWriter = 200

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < keysPerWriter; i++ {
				key := fmt.Sprintf("writer-%d-key-%d", w, i)
				database.Set(key, []byte(key), uint64(w*keysPerWriter+i+1))
				database.Get(key)
			}
		}(w)
	}
	wg.Wait()

	var keys []string
	database.Range(func(key string, value []byte) bool {
		if key != string(value) {
			t.Errorf("Value mismatch for key %s: %s", key, value)
		}
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)

	if len(keys) != writers*keysPerWriter {
		t.Errorf("Expected %d keys, got %d", writers*keysPerWriter, len(keys))
	}
}
