package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/okian/pokeapi/internal/domain/model"
)

const (
	driverSQLite = "sqlite"

	// MemoryPath opens an ephemeral database living as long as the store.
	MemoryPath = ":memory:"

	dirPermissions  = 0750
	msPerSecond     = 1000
	pingTimeout     = 5 * time.Second
	defaultBusyWait = 5
)

// bootstrapSchema creates the pokemons table for local runs and tests.
//
//go:embed schema.sql
var bootstrapSchema string

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file, or MemoryPath.
	Path string
	// BusyTimeout is the lock wait in seconds.
	BusyTimeout int
	// Bootstrap creates the pokemons table when it does not exist.
	Bootstrap bool
}

// SQLiteStore implements Store on database/sql with a single shared
// connection, which SQLite requires for a consistent in-memory database.
type SQLiteStore struct {
	db  *sql.DB
	sql dialect
}

// NewSQLiteStore opens the database and verifies the connection.
func NewSQLiteStore(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: empty sqlite path", ErrOpenStore)
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = defaultBusyWait
	}
	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %w", ErrOpenStore, err)
		}
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, cfg.BusyTimeout*msPerSecond)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}

	s := &SQLiteStore{db: db, sql: sqliteDialect}
	if cfg.Bootstrap {
		if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
			db.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, fmt.Errorf("%w: bootstrap schema: %w", ErrOpenStore, err)
		}
	}
	return s, nil
}

// withConn runs fn on a checked-out connection and always returns it to the pool.
func (s *SQLiteStore) withConn(ctx context.Context, op string, fn func(*sql.Conn) error) error {
	start := time.Now()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return observe(driverSQLite, op, start, err)
	}
	defer conn.Close() //nolint:errcheck // Close returns the connection to the pool
	return observe(driverSQLite, op, start, fn(conn))
}

func (s *SQLiteStore) query(ctx context.Context, op, q string, args ...any) ([]model.Record, error) {
	out := []model.Record{}
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close() //nolint:errcheck // read-only cursor

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			rec := make(model.Record, len(cols))
			for i, c := range cols {
				if b, ok := values[i].([]byte); ok {
					rec[c] = string(b)
					continue
				}
				rec[c] = values[i]
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Record, error) {
	return s.query(ctx, OpList, s.sql.selectAll())
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id int64) ([]model.Record, error) {
	return s.query(ctx, OpGet, s.sql.selectByID(), id)
}

// Create implements Store.
func (s *SQLiteStore) Create(ctx context.Context, fields model.Fields) (model.Result, error) {
	q, args := s.sql.insert(fields)
	return s.exec(ctx, OpCreate, q, args...)
}

// Update implements Store.
func (s *SQLiteStore) Update(ctx context.Context, id int64, fields model.Fields) (model.Result, error) {
	if len(fields) == 0 {
		return model.Result{}, model.ErrEmptyBody
	}
	q, args := s.sql.update(id, fields)
	return s.exec(ctx, OpUpdate, q, args...)
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (model.Result, error) {
	return s.exec(ctx, OpDelete, s.sql.deleteByID(), id)
}

func (s *SQLiteStore) exec(ctx context.Context, op, q string, args ...any) (model.Result, error) {
	var res model.Result
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		r, err := conn.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		if res.AffectedRows, err = r.RowsAffected(); err != nil {
			return err
		}
		if op == OpCreate {
			res.InsertID, err = r.LastInsertId()
		}
		return err
	})
	return res, err
}

// Columns implements Store.
func (s *SQLiteStore) Columns(ctx context.Context) ([]string, error) {
	var cols []string
	err := s.withConn(ctx, OpColumns, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", model.Table)
		if err != nil {
			return err
		}
		defer rows.Close() //nolint:errcheck // read-only cursor
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			cols = append(cols, name)
		}
		return rows.Err()
	})
	return cols, err
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	start := time.Now()
	return observe(driverSQLite, OpPing, start, s.db.PingContext(ctx))
}

// Stats implements Store.
func (s *SQLiteStore) Stats() PoolStats {
	st := s.db.Stats()
	return PoolStats{Total: st.OpenConnections, Idle: st.Idle, InUse: st.InUse}
}

// Driver implements Store.
func (s *SQLiteStore) Driver() string { return driverSQLite }

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
