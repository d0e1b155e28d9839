package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database connection and hands out repositories.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
}

// Open connects to dsn and migrates the schema. A postgres:// or
// postgresql:// DSN selects Postgres; anything else is a SQLite path or
// file: URI.
func Open(dsn string) (*Store, error) {
	if isPostgres(dsn) {
		return openPostgres(dsn)
	}
	return openSQLite(dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer. Transactions and plain queries share this connection.
	db.SetMaxOpenConns(1)
	return finishOpen(db, dialect.SQLite)
}

func openPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return finishOpen(db, dialect.Postgres)
}

func finishOpen(db *sql.DB, name string) (*Store, error) {
	s := &Store{
		db:      db,
		drv:     entsql.OpenDB(name, db),
		dialect: name,
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv, schema.WithForeignKeys(true))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// pragmas configure SQLite for single-user local use. They travel in the
// DSN so every pooled connection gets them.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// sqliteDSN appends the pragmas to dsn unless the caller already set its
// own.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Repos returns repositories that run each statement on its own.
func (s *Store) Repos() *Repos {
	return newRepos(conn{ExecQuerier: s.drv, dialect: s.dialect})
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise. fn must only use the Repos it is
// given; calling the store directly from inside fn blocks on SQLite.
func (s *Store) WithTx(ctx context.Context, fn func(*Repos) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(newRepos(conn{ExecQuerier: tx, dialect: s.dialect})); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PATHWISE_DB environment variable
// 2. $XDG_DATA_HOME/pathwise/pathwise.db
// 3. ~/.local/share/pathwise/pathwise.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PATHWISE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "pathwise", "pathwise.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
// Postgres DSNs are left alone.
func EnsureDir(path string) error {
	if isPostgres(path) || strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
