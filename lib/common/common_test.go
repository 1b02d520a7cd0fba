package common

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warn", logger.WARNING},
		{"warning", logger.WARNING},
		{"error", logger.ERROR},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)
		})
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := &dPrefsLogger{name: "prop", level: logger.WARNING, logger: log.New(&buf, "", 0)}

	l.Infof("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warningf("shown %d", 2)
	assert.Equal(t, "WARN  | prop       | shown 2\n", buf.String())

	l.SetLevel(logger.DEBUG)
	buf.Reset()
	l.Debugf("now visible")
	assert.True(t, strings.HasPrefix(buf.String(), "DEBUG | prop"))

	assert.Panics(t, func() { l.Panicf("boom") })
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("SQLite")
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, e)

	e, err = ParseEngine("maple")
	require.NoError(t, err)
	assert.Equal(t, EngineMaple, e)

	_, err = ParseEngine("redis")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Engine: EngineSQLite, DBPath: "prefs.db", Suite: DefaultSuite, LogLevel: "info"}
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"bad engine":     func(c *Config) { c.Engine = "redis" },
		"bad log level":  func(c *Config) { c.LogLevel = "loud" },
		"empty suite":    func(c *Config) { c.Suite = "" },
		"sqlite no path": func(c *Config) { c.DBPath = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	maple := Config{Engine: EngineMaple, Suite: "app.group.id", LogLevel: "warn"}
	assert.NoError(t, maple.Validate())
}

func TestConfigString(t *testing.T) {
	c := Config{Engine: EngineMaple, Suite: "standard", LogLevel: "info"}
	s := c.String()
	assert.Contains(t, s, "STORE\n")
	assert.Contains(t, s, "  Engine                : maple\n")
	assert.Contains(t, s, "(none, in-memory only)")

	c.SnapshotPath = "/tmp/prefs.snap"
	assert.Contains(t, c.String(), "/tmp/prefs.snap")
}
