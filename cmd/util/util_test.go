package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/dPrefs/lib/common"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestSQLiteSession(t *testing.T) {
	conf := &common.Config{
		Engine:   common.EngineSQLite,
		DBPath:   filepath.Join(t.TempDir(), "prefs.db"),
		Suite:    "app.group.id",
		LogLevel: "warn",
	}

	s, err := OpenSession(conf)
	require.NoError(t, err)
	require.NoError(t, s.Suite.Set("count", native.Int(7)))
	require.NoError(t, s.Persist())

	suites, err := s.Suites()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.group.id"}, suites)
	require.NoError(t, s.Close())

	s, err = OpenSession(conf)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Suite.Get("count")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, native.Int(7), v)
}

func TestMapleSessionSnapshot(t *testing.T) {
	dir := t.TempDir()
	conf := &common.Config{
		Engine:       common.EngineMaple,
		SnapshotPath: filepath.Join(dir, "prefs.snap"),
		Suite:        common.DefaultSuite,
		LogLevel:     "warn",
	}

	// a missing snapshot starts an empty suite
	s, err := OpenSession(conf)
	require.NoError(t, err)
	keys, err := s.Suite.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, s.Suite.Set("note", native.String("hi")))
	require.NoError(t, s.Persist())
	require.NoError(t, s.Close())

	// no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prefs.snap", entries[0].Name())

	s, err = OpenSession(conf)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Suite.Get("note")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, native.String("hi"), v)

	suites, err := s.Suites()
	require.NoError(t, err)
	assert.Equal(t, []string{common.DefaultSuite}, suites)
}

func TestMapleSessionCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.snap")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := OpenSession(&common.Config{
		Engine:       common.EngineMaple,
		SnapshotPath: path,
		Suite:        common.DefaultSuite,
		LogLevel:     "warn",
	})
	assert.Error(t, err)
}

func TestMapleSessionWithoutSnapshot(t *testing.T) {
	s, err := OpenSession(&common.Config{Engine: common.EngineMaple, Suite: "tmp", LogLevel: "warn"})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Suite.Set("k", native.Bool(true)))
	assert.NoError(t, s.Persist())
}
