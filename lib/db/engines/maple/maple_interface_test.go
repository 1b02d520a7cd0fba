package maple

import (
	"bytes"
	"encoding/binary"
	"github.com/ValentinKolb/dPrefs/lib/db"
	dbtesting "github.com/ValentinKolb/dPrefs/lib/db/testing"
	"testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MapleDB", func() db.KVDB {
		return NewMapleDB(nil)
	})
}

func TestSingleShard(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MapleDB(1 shard)", func() db.KVDB {
		return NewMapleDB(&DBOptions{NumShards: 1})
	})
}

func TestLoadRejectsCorruptSnapshots(t *testing.T) {
	source := NewMapleDB(nil)
	source.Set("count", []byte{1, 2, 3}, 1)
	source.Set("note", []byte("hi"), 2)

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snapshot := buf.Bytes()

	wrongVersion := bytes.Clone(snapshot)
	wrongVersion[len(magicNum)] = 3

	hugeCount := bytes.Clone(snapshot)
	binary.LittleEndian.PutUint64(hugeCount[len(magicNum)+1+8:], 1<<40)

	tests := map[string][]byte{
		"empty":         {},
		"bad magic":     append([]byte("NOTMAPLE"), snapshot[len(magicNum):]...),
		"wrong version": wrongVersion,
		"truncated":     snapshot[:len(snapshot)-1],
		"huge count":    hugeCount,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			target := NewMapleDB(nil)
			target.Set("keep", []byte("me"), 1)

			if err := target.Load(bytes.NewReader(data)); err == nil {
				t.Fatalf("expected error loading %s snapshot", name)
			}

			// the previous content is still there
			if v, ok := target.Get("keep"); !ok || string(v) != "me" {
				t.Errorf("expected previous content to survive, got %q, %v", v, ok)
			}
			if target.Has("count") {
				t.Errorf("expected partial snapshot not to be visible")
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	database := NewMapleDB(&DBOptions{NumShards: 4})
	database.Set("a", []byte("12345"), 1)
	database.Set("bb", nil, 2)

	info := database.GetInfo()
	if info.DbType != db.ImplMaple {
		t.Errorf("expected db type %s, got %s", db.ImplMaple, info.DbType)
	}
	// (1 + 5 + 8) + (2 + 0 + 8)
	if info.SizeBytes != 24 {
		t.Errorf("expected size 24, got %d", info.SizeBytes)
	}
	if len(info.SupportedFeatures) != len(supportedFeatures) {
		t.Errorf("expected %d features, got %d", len(supportedFeatures), len(info.SupportedFeatures))
	}
	if database.WriteIdx() != 2 {
		t.Errorf("expected write index 2, got %d", database.WriteIdx())
	}
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "MapleDB", func() db.KVDB {
		return NewMapleDB(nil)
	})
}
