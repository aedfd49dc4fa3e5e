package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Dialect identifies the SQL flavour spoken by the underlying driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps a *sql.DB with the dialect it was opened with.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// InitDB opens the configured database and applies pending migrations.
// A PostgreSQL URL takes precedence over a Turso primary, which takes
// precedence over the local SQLite file.
func InitDB(cfg config.DatabaseConfig) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch {
	case cfg.DatabaseURL != "":
		log.Info("Initializing PostgreSQL database")
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		dialect = DialectPostgres
	case cfg.Turso.PrimaryURL != "":
		log.Info("Initializing Turso database", "url", cfg.Turso.PrimaryURL)
		db, err = sql.Open("libsql", cfg.Turso.PrimaryURL+"?authToken="+cfg.Turso.AuthToken)
		dialect = DialectSQLite
	default:
		log.Info("Initializing local-only SQLite database", "path", cfg.Name)
		db, err = sql.Open("sqlite3", sqliteDSN(cfg.Name))
		dialect = DialectSQLite
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.DatabaseURL == "" && cfg.Turso.PrimaryURL == "" {
		// An in-memory database only lives as long as its connection, and
		// SQLite allows a single writer anyway.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	wrapped := &DB{DB: db, Dialect: dialect}
	if err = wrapped.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database initialized successfully", "dialect", dialect)
	return wrapped, nil
}

func sqliteDSN(name string) string {
	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return name + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (db *DB) migrate() error {
	if db.Dialect == DialectSQLite {
		// Foreign key support is not enabled by default in SQLite
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			log.Error("Error enabling foreign keys:", "error", err)
			return err
		}
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(log.Default())
	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return err
	}
	return goose.Up(db.DB, db.migrationsDir())
}

func (db *DB) gooseDialect() string {
	if db.Dialect == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (db *DB) migrationsDir() string {
	if db.Dialect == DialectPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// Rebind rewrites '?' placeholders into the numbered form PostgreSQL expects.
// Queries must not contain literal question marks.
func (db *DB) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ResetSequences advances PostgreSQL id sequences past rows inserted with
// explicit ids. SQLite tracks AUTOINCREMENT values on its own.
func (db *DB) ResetSequences(ctx context.Context, ex Execer, tables ...string) error {
	if db.Dialect != DialectPostgres {
		return nil
	}
	for _, table := range tables {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table,
		)
		if _, err := ex.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
