package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/dPrefs/lib/common"
	"github.com/ValentinKolb/dPrefs/lib/db"
	"github.com/ValentinKolb/dPrefs/lib/db/engines/maple"
	"github.com/ValentinKolb/dPrefs/lib/store"
	"github.com/ValentinKolb/dPrefs/lib/store/lstore"
	"github.com/ValentinKolb/dPrefs/lib/store/sqlstore"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cliLogger = logger.GetLogger("cli")

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Flags and configuration
// --------------------------------------------------------------------------

// SetupSuiteFlags adds the flags needed to open a suite to a command
func SetupSuiteFlags(cmd *cobra.Command) {
	key := "engine"
	cmd.PersistentFlags().String(key, string(common.EngineSQLite), WrapString("The storage engine to use (sqlite, maple). maple keeps the suite in memory and persists it via --snapshot"))

	key = "db"
	cmd.PersistentFlags().String(key, "dprefs.db", WrapString("Path of the sqlite database (engine sqlite)"))

	key = "snapshot"
	cmd.PersistentFlags().String(key, "", WrapString("Path of the snapshot file (engine maple). The snapshot is loaded if it exists and written after every change"))

	key = "suite"
	cmd.PersistentFlags().String(key, common.DefaultSuite, WrapString("Name of the suite to operate on (e.g. app.group.id)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dprefs")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the suite configuration from viper
func GetConfig() (*common.Config, error) {
	engine, err := common.ParseEngine(viper.GetString("engine"))
	if err != nil {
		return nil, err
	}
	conf := &common.Config{
		Engine:       engine,
		DBPath:       viper.GetString("db"),
		SnapshotPath: viper.GetString("snapshot"),
		Suite:        viper.GetString("suite"),
		LogLevel:     viper.GetString("log-level"),
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

// Session is a suite opened from a Config, together with the resources
// backing it.
type Session struct {
	Config *common.Config
	Suite  store.ISuite

	local *lstore.LocalSuite // engine maple
	sqlDB *sqlstore.DB       // engine sqlite
}

// OpenSession opens the suite described by conf
func OpenSession(conf *common.Config) (*Session, error) {
	s := &Session{Config: conf}

	switch conf.Engine {
	case common.EngineSQLite:
		sqlDB, err := sqlstore.Open(conf.DBPath)
		if err != nil {
			return nil, err
		}
		suite, err := sqlDB.Suite(conf.Suite)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		s.sqlDB, s.Suite = sqlDB, suite

	case common.EngineMaple:
		local := lstore.NewLocalSuite(conf.Suite, func() db.KVDB {
			return maple.NewMapleDB(nil)
		})
		if err := loadSnapshot(local, conf.SnapshotPath); err != nil {
			_ = local.Close()
			return nil, err
		}
		s.local, s.Suite = local, local

	default:
		return nil, fmt.Errorf("invalid engine %s", conf.Engine)
	}

	cliLogger.Debugf("opened suite %q (engine %s)", conf.Suite, conf.Engine)
	return s, nil
}

// loadSnapshot restores the suite from path. A missing file is not an error.
func loadSnapshot(suite *lstore.LocalSuite, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cliLogger.Debugf("snapshot %s does not exist yet", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return suite.Load(f)
}

// Persist makes the changes of the session durable. The sqlite engine writes
// through on every call, so only a maple snapshot has to be written.
func (s *Session) Persist() error {
	if s.local == nil || s.Config.SnapshotPath == "" {
		return nil
	}

	// write to a temporary file first, so a failed write keeps the old snapshot
	path := s.Config.SnapshotPath
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.local.Save(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	cliLogger.Debugf("wrote snapshot %s", path)
	return nil
}

// Suites returns the names of all suites known to the engine
func (s *Session) Suites() ([]string, error) {
	if s.sqlDB != nil {
		return s.sqlDB.Suites()
	}
	return []string{s.Suite.Name()}, nil
}

// Close closes the suite and the database behind it
func (s *Session) Close() error {
	err := s.Suite.Close()
	if s.sqlDB != nil {
		err = errors.Join(err, s.sqlDB.Close())
	}
	return err
}
