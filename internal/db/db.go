package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Dialect names the SQL backend and doubles as the database/sql driver name.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB is the persistence layer. Queries are written with ? placeholders and
// rebound for PostgreSQL.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Connect opens a PostgreSQL database.
func Connect(dsn string) (*DB, error) {
	return open(Postgres, dsn)
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*DB, error) {
	d, err := open(SQLite, "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// one writer at a time
	d.conn.SetMaxOpenConns(1)
	return d, nil
}

func open(dialect Dialect, dsn string) (*DB, error) {
	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	log.Info().Str("driver", string(dialect)).Msg("database connected")
	return &DB{conn: conn, dialect: dialect}, nil
}

func (d *DB) Dialect() Dialect { return d.dialect }

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.conn.QueryRowContext(ctx, d.rebind(query), args...)
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.conn.QueryContext(ctx, d.rebind(query), args...)
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.conn.ExecContext(ctx, d.rebind(query), args...)
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (d *DB) rebind(query string) string {
	if d.dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Migrate applies every embedded migration for the dialect. Migrations are
// idempotent and run on each start.
func (d *DB) Migrate() error {
	dir := "migrations/" + string(d.dialect)
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	for _, entry := range entries {
		content, err := migrationsFS.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := d.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
		}
		log.Debug().Str("migration", entry.Name()).Msg("applied migration")
	}
	return nil
}
