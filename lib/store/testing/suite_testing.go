package testing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/store"
)

// SuiteFactory creates a new, empty suite with the given name
type SuiteFactory func(name string) store.ISuite

// RunSuiteTests runs the conformance tests for a store.ISuite implementation.
func RunSuiteTests(t *testing.T, name string, factory SuiteFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Name", func(t *testing.T) {
			testName(t, factory)
		})

		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory("set-get"))
		})

		t.Run("NullDeletes", func(t *testing.T) {
			testNullDeletes(t, factory("null-deletes"))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory("delete"))
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory("keys"))
		})

		t.Run("InvalidValue", func(t *testing.T) {
			testInvalidValue(t, factory("invalid-value"))
		})

		t.Run("Concurrency", func(t *testing.T) {
			testConcurrency(t, factory("concurrency"))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// sampleValues returns one value of every kind, including nested containers
func sampleValues() map[string]native.Value {
	return map[string]native.Value{
		"bool":    native.Bool(true),
		"int":     native.Int(451),
		"float64": native.Float64(0.25),
		"float32": native.Float32(1.5),
		"string":  native.String("Hearts of Three"),
		"blob":    native.Blob{0, 1, 2, 255},
		"time":    native.Time(time.Date(2021, 1, 26, 12, 0, 0, 0, time.UTC)),
		"seq":     native.Seq{native.Seq{native.Int(1)}, native.Seq{native.Int(2), native.Int(3)}},
		"map": native.Map{
			"a": native.Seq{native.String("x")},
			"b": native.Map{"nested": native.Null{}},
		},
	}
}

func mustSet(t *testing.T, suite store.ISuite, key string, value native.Value) {
	t.Helper()
	if err := suite.Set(key, value); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testName(t *testing.T, factory SuiteFactory) {
	suite := factory("app.group.id")
	defer suite.Close()

	if suite.Name() != "app.group.id" {
		t.Errorf("Expected name app.group.id, got %s", suite.Name())
	}
}

func testSetGet(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	for key, value := range sampleValues() {
		mustSet(t, suite, key, value)
	}

	for key, expected := range sampleValues() {
		result, loaded, err := suite.Get(key)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
			continue
		}
		if !loaded {
			t.Errorf("Expected key %s to exist after Set", key)
			continue
		}
		if !native.Equal(expected, result) {
			t.Errorf("Value mismatch for %s: expected %s, got %s", key, native.Format(expected), native.Format(result))
		}
	}

	// overwrite with another kind
	mustSet(t, suite, "int", native.String("now a string"))
	result, _, _ := suite.Get("int")
	if !native.Equal(native.String("now a string"), result) {
		t.Errorf("Expected overwritten value, got %s", native.Format(result))
	}

	_, loaded, err := suite.Get("nonexistent-key")
	if err != nil || loaded {
		t.Errorf("Expected nonexistent key to return loaded=false, err=nil, got %v, %v", loaded, err)
	}
}

func testNullDeletes(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	for _, null := range []native.Value{native.Null{}, nil} {
		mustSet(t, suite, "note", native.String("hi"))
		mustSet(t, suite, "note", null)

		_, loaded, err := suite.Get("note")
		if err != nil || loaded {
			t.Errorf("Expected key to be deleted by %T, got loaded=%v, err=%v", null, loaded, err)
		}
		has, err := suite.Has("note")
		if err != nil || has {
			t.Errorf("Expected Has to return false after writing %T, got %v, %v", null, has, err)
		}
	}

	// writing null to a missing key is a no-op
	mustSet(t, suite, "never-set", native.Null{})
	if has, _ := suite.Has("never-set"); has {
		t.Errorf("Writing null must not create a key")
	}
}

func testDelete(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	mustSet(t, suite, "count", native.Int(7))

	has, err := suite.Has("count")
	if err != nil || !has {
		t.Errorf("Expected Has to return true, got %v, %v", has, err)
	}

	if err := suite.Delete("count"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if has, _ := suite.Has("count"); has {
		t.Errorf("Expected Has to return false after Delete")
	}

	if err := suite.Delete("count"); err != nil {
		t.Errorf("Deleting a missing key should not fail: %v", err)
	}
}

func testKeys(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	keys, err := suite.Keys()
	if err != nil || len(keys) != 0 {
		t.Errorf("Expected no keys in a new suite, got %v, %v", keys, err)
	}

	for _, key := range []string{"c", "a", "b", "aa"} {
		mustSet(t, suite, key, native.Bool(true))
	}
	if err := suite.Delete("b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	keys, err = suite.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	expected := []string{"a", "aa", "c"}
	if fmt.Sprint(keys) != fmt.Sprint(expected) {
		t.Errorf("Expected keys %v, got %v", expected, keys)
	}
}

func testInvalidValue(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	mustSet(t, suite, "list", native.Seq{native.Int(1)})

	// a nil element cannot be stored
	err := suite.Set("list", native.Seq{native.Int(1), nil})
	if !store.IsCode(err, store.RetCInvalidOperation) {
		t.Errorf("Expected RetCInvalidOperation, got %v", err)
	}

	result, _, _ := suite.Get("list")
	if !native.Equal(native.Seq{native.Int(1)}, result) {
		t.Errorf("Failed Set must not change the stored value, got %s", native.Format(result))
	}
}

func testConcurrency(t *testing.T, suite store.ISuite) {
	defer suite.Close()

	const workers = 8
	const keysPerWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < keysPerWorker; i++ {
				key := fmt.Sprintf("worker-%d-%d", w, i)
				if err := suite.Set(key, native.Int(int64(i))); err != nil {
					t.Errorf("Set(%q) failed: %v", key, err)
					return
				}
				if _, _, err := suite.Get(key); err != nil {
					t.Errorf("Get(%q) failed: %v", key, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	keys, err := suite.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != workers*keysPerWorker {
		t.Errorf("Expected %d keys, got %d", workers*keysPerWorker, len(keys))
	}
}
