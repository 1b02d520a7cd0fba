package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine names the backing store a suite is opened on
type Engine string

const (
	EngineSQLite Engine = "sqlite" // persistent, one sqlite file holds all suites
	EngineMaple  Engine = "maple"  // in-memory, optionally restored from a snapshot file
)

// ParseEngine converts a string to an Engine
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(s)) {
	case EngineSQLite:
		return EngineSQLite, nil
	case EngineMaple:
		return EngineMaple, nil
	default:
		return "", fmt.Errorf("invalid engine: %s. must be one of sqlite, maple", s)
	}
}

// --------------------------------------------------------------------------
// CLI configuration struct
// --------------------------------------------------------------------------

// DefaultSuite is the suite name used when none is configured
const DefaultSuite = "standard"

// Config holds everything needed to open a suite from the command line
type Config struct {
	Engine       Engine
	DBPath       string // sqlite database file (EngineSQLite)
	SnapshotPath string // snapshot file, loaded if present and saved after writes (EngineMaple)
	Suite        string
	LogLevel     string
}

// Validate checks that the configuration can be used to open a suite
func (c *Config) Validate() error {
	if _, err := ParseEngine(string(c.Engine)); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Suite == "" {
		return fmt.Errorf("suite name must not be empty")
	}
	if c.Engine == EngineSQLite && c.DBPath == "" {
		return fmt.Errorf("engine sqlite requires a database path")
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Store")
	addField("Engine", string(c.Engine))
	addField("Suite", c.Suite)

	addSection("Storage")
	switch c.Engine {
	case EngineSQLite:
		addField("Database", c.DBPath)
	case EngineMaple:
		if c.SnapshotPath == "" {
			addField("Snapshot", "(none, in-memory only)")
		} else {
			addField("Snapshot", c.SnapshotPath)
		}
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
