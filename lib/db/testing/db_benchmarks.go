package testing

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dPrefs/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementations
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Has(not)", func(b *testing.B) {
			benchmarkHasNot(b, factory())
		})

		b.Run("Range", func(b *testing.B) {
			benchmarkRange(b, factory())
		})

		b.Run("Save", func(b *testing.B) {
			benchmarkSave(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// fill writes n small entries and returns their keys
func fill(database db.KVDB, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("bench-key-%d", i)
		database.Set(keys[i], []byte("bench-value"), uint64(i+1))
	}
	return keys
}

func benchmarkSet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() { database.Close() })
	requireFeature(b, database, db.FeatureSet)

	var index atomic.Uint64
	value := []byte("bench-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := index.Add(1)
			database.Set(fmt.Sprintf("bench-key-%d", i%10_000), value, i)
		}
	})
}

func benchmarkGet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() { database.Close() })
	requireFeature(b, database, db.FeatureSet|db.FeatureGet)

	keys := fill(database, 10_000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			database.Get(keys[i%len(keys)])
			i++
		}
	})
}

func benchmarkHasNot(b *testing.B, database db.KVDB) {
	b.Cleanup(func() { database.Close() })
	requireFeature(b, database, db.FeatureHas)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Has("missing-key")
	}
}

func benchmarkRange(b *testing.B, database db.KVDB) {
	b.Cleanup(func() { database.Close() })
	requireFeature(b, database, db.FeatureSet|db.FeatureRange)

	fill(database, 1_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Range(func(string, []byte) bool { return true })
	}
}

func benchmarkSave(b *testing.B, database db.KVDB) {
	b.Cleanup(func() { database.Close() })
	requireFeature(b, database, db.FeatureSet|db.FeatureSave)

	fill(database, 10_000)

	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := database.Save(&buf); err != nil {
			b.Fatal(err)
		}
	}
}
