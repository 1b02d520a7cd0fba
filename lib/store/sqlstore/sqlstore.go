package sqlstore

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

var sqlLogger = logger.GetLogger("sqlstore")

// DB is a SQLite database holding any number of suites.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	sqlLogger.Debugf("opened %s", path)
	return &DB{db: db, path: path}, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the schema version.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Path returns the path the database was opened with.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database connection. Suites obtained from d must not be
// used afterwards.
func (d *DB) Close() error {
	return d.db.Close()
}

// Suite returns the suite with the given name. Suites are cheap views on the
// shared connection; closing one does not close the database.
func (d *DB) Suite(name string) (store.ISuite, error) {
	if name == "" {
		return nil, store.NewError(store.RetCInvalidOperation, "suite name must not be empty")
	}
	return &suiteImpl{db: d.db, name: name}, nil
}

// Suites returns the names of all suites that hold at least one entry, in ascending order.
func (d *DB) Suites() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT suite FROM entries ORDER BY suite`)
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, "list suites", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, store.WrapError(store.RetCInternalError, "list suites", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, store.WrapError(store.RetCInternalError, "list suites", err)
	}
	return names, nil
}

// --------------------------------------------------------------------------
// Suite
// --------------------------------------------------------------------------

type suiteImpl struct {
	db   *sql.DB
	name string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *suiteImpl) Name() string {
	return s.name
}

func (s *suiteImpl) Get(key string) (native.Value, bool, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT value FROM entries WHERE suite = ? AND key = ?`,
		s.name, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.WrapError(store.RetCInternalError, fmt.Sprintf("get %q", key), err)
	}

	value, err := store.Decode(key, data)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *suiteImpl) Has(key string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM entries WHERE suite = ? AND key = ?)`,
		s.name, key,
	).Scan(&exists)
	if err != nil {
		return false, store.WrapError(store.RetCInternalError, fmt.Sprintf("has %q", key), err)
	}
	return exists, nil
}

func (s *suiteImpl) Set(key string, value native.Value) error {
	if native.IsNull(value) {
		return s.Delete(key)
	}

	data, err := store.Encode(value)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO entries (suite, key, value, kind, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (suite, key) DO UPDATE SET
		   value = excluded.value,
		   kind = excluded.kind,
		   updated_at = excluded.updated_at`,
		s.name, key, data, value.Kind().String(), time.Now().UnixMilli(),
	)
	if err != nil {
		return store.WrapError(store.RetCInternalError, fmt.Sprintf("set %q", key), err)
	}
	return nil
}

func (s *suiteImpl) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE suite = ? AND key = ?`, s.name, key)
	if err != nil {
		return store.WrapError(store.RetCInternalError, fmt.Sprintf("delete %q", key), err)
	}
	return nil
}

func (s *suiteImpl) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM entries WHERE suite = ? ORDER BY key`, s.name)
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, "list keys", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, store.WrapError(store.RetCInternalError, "list keys", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, store.WrapError(store.RetCInternalError, "list keys", err)
	}
	return keys, nil
}

// Close is a no-op; the connection belongs to the DB.
func (s *suiteImpl) Close() error {
	return nil
}
