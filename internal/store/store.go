package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragma is a connection setting and the value SQLite reports once it holds.
type pragma struct {
	name  string
	value string
	want  string
}

// pragmas apply to the single pooled connection. In-memory databases report
// journal_mode "memory"; verification is left to tests on file databases.
var pragmas = []pragma{
	{name: "journal_mode", value: "WAL", want: "wal"},
	{name: "synchronous", value: "NORMAL", want: "1"},
	{name: "busy_timeout", value: "5000", want: "5000"},
}

// migration upgrades a database from user_version-1 to user_version.
type migration struct {
	name string
	stmt string
}

// migrations run in order after schema.sql. A database at user_version N has
// had the first N applied. Append only.
var migrations = []migration{
	{
		name: "recent listing index",
		stmt: `CREATE INDEX IF NOT EXISTS idx_recommendations_recent
			ON recommendations(submitted_at DESC, id DESC)`,
	},
}

// schemaVersion is the user_version of a fully migrated database.
var schemaVersion = len(migrations)

// Store holds the recommendation pool and the visit counter in one SQLite
// file. Safe for concurrent use; the SQL statements carry the concurrency
// control, so Store keeps no locks of its own.
type Store struct {
	db *sql.DB
}

// Open opens the recommendation database at path, creating it when missing.
// ":memory:" gives a private database that lives as long as the Store.
//
// Tables, the visit counter row and pending migrations are applied on every
// open, so opening an existing file never changes its data.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func prepare(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("failed to set %s: %w", p.name, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return migrate(db)
}

// migrate applies each pending migration together with its user_version bump.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	for v := version; v < schemaVersion; v++ {
		m := migrations[v]
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", v+1, m.name, err)
		}
		if _, err := tx.Exec(m.stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", v+1, m.name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): set version: %w", v+1, m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d (%s): %w", v+1, m.name, err)
		}
	}
	return nil
}

// newWithDB wraps a handle whose schema the caller manages (sqlmock in tests).
func newWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// verifyPragma compares a pragma's reported value with expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
