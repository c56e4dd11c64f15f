// Package sqlitestore is an embedded SQLite implementation of the repositories used by the
// reservation, scheduling and catalog services. It suits single-node deployments and local
// development; the seat binding uses the same compare-and-set contract as the Postgres store.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS venues (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	seat_rows INTEGER NOT NULL CHECK (seat_rows > 0),
	seat_columns INTEGER NOT NULL CHECK (seat_columns > 0)
);

CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS officials (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	home_team_id TEXT NOT NULL REFERENCES teams (id),
	away_team_id TEXT NOT NULL REFERENCES teams (id),
	venue_id TEXT NOT NULL REFERENCES venues (id),
	match_date TEXT NOT NULL,
	match_time TEXT NOT NULL,
	starts_at INTEGER NOT NULL,
	main_referee_id TEXT REFERENCES officials (id),
	first_linesman_id TEXT REFERENCES officials (id),
	second_linesman_id TEXT REFERENCES officials (id),
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS events_starts_at_idx ON events (starts_at);

CREATE TABLE IF NOT EXISTS seats (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL REFERENCES events (id) ON DELETE CASCADE,
	seat_row INTEGER NOT NULL CHECK (seat_row > 0),
	seat_column INTEGER NOT NULL CHECK (seat_column > 0),
	reservation_id TEXT,
	UNIQUE (event_id, seat_row, seat_column)
);

CREATE TABLE IF NOT EXISTS tickets (
	id TEXT PRIMARY KEY,
	reservation_id TEXT NOT NULL UNIQUE,
	seat_id TEXT NOT NULL REFERENCES seats (id),
	event_id TEXT NOT NULL REFERENCES events (id),
	user_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	cancelled_at INTEGER,
	cancelled_by TEXT
);

CREATE INDEX IF NOT EXISTS tickets_active_user_idx ON tickets (user_id) WHERE cancelled_at IS NULL;
`

// Config holds the parameters for opening a Store.
type Config struct {
	// Path is the database file. It is created if missing.
	Path string
	// PoolSize defaults to max(runtime.NumCPU(), 4).
	PoolSize int
	Logger   *slog.Logger
}

// Store implements every repository interface over one SQLite connection pool.
type Store struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open opens the database, applies connection pragmas and creates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlitestore: path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", cfg.Path, err)
	}

	s := &Store{pool: pool, logger: logger, path: cfg.Path}
	if err := s.migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	logger.Info("sqlite store opened", "path", cfg.Path, "pool_size", poolSize)
	return s, nil
}

func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("sqlitestore: close %s: %w", s.path, err)
	}
	return nil
}

// Ping checks that a pooled connection answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT 1;", nil)
	})
}

func (s *Store) migrate(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlitestore: take: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return nil
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlitestore: %s: %w", pragma, err)
		}
	}
	return nil
}

type connKey struct{}

// WithTx runs fn inside an IMMEDIATE transaction whose connection travels in the context.
// Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if connFromContext(ctx) != nil {
		return fn(ctx)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlitestore: take: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	return fn(context.WithValue(ctx, connKey{}, conn))
}

func connFromContext(ctx context.Context) *sqlite.Conn {
	conn, _ := ctx.Value(connKey{}).(*sqlite.Conn)
	return conn
}

// withConn hands fn the context transaction's connection, or a pooled one.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	if conn := connFromContext(ctx); conn != nil {
		return fn(conn)
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlitestore: take: %w", err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}

func isUniqueViolation(err error) bool {
	code := sqlite.ErrCode(err)
	return code == sqlite.ResultConstraintUnique || code == sqlite.ResultConstraintPrimaryKey
}

func isForeignKeyViolation(err error) bool {
	return sqlite.ErrCode(err) == sqlite.ResultConstraintForeignKey
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func columnTime(stmt *sqlite.Stmt, col int) time.Time {
	return time.Unix(0, stmt.ColumnInt64(col)).UTC()
}

func columnOptionalTime(stmt *sqlite.Stmt, col int) *time.Time {
	if stmt.ColumnType(col) == sqlite.TypeNull {
		return nil
	}
	t := columnTime(stmt, col)
	return &t
}
