package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/pokeapi/internal/domain/model"
)

const driverPostgres = "postgres"

// PostgresConfig addresses a PostgreSQL server.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// MaxConns caps the pool; zero keeps the pgxpool default.
	MaxConns int32
}

// ConnString renders the config as a postgres:// URL.
func (c PostgresConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}
	return u.String()
}

// PostgresStore implements Store on a pgx connection pool. The pool is
// opened once per process; each statement checks a connection out and
// returns it before the call ends.
type PostgresStore struct {
	pool *pgxpool.Pool
	sql  dialect
}

// NewPostgresStore builds the pool. Connections are dialed lazily.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	return &PostgresStore{pool: pool, sql: postgresDialect}, nil
}

// withConn runs fn on a checked-out connection and always releases it.
func (s *PostgresStore) withConn(ctx context.Context, op string, fn func(*pgxpool.Conn) error) error {
	start := time.Now()
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return observe(driverPostgres, op, start, err)
	}
	defer conn.Release()
	return observe(driverPostgres, op, start, fn(conn))
}

func (s *PostgresStore) query(ctx context.Context, op, q string, args ...any) ([]model.Record, error) {
	var out []model.Record
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		maps, err := pgx.CollectRows(rows, pgx.RowToMap)
		if err != nil {
			return err
		}
		out = make([]model.Record, len(maps))
		for i, m := range maps {
			out[i] = model.Record(m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]model.Record, error) {
	return s.query(ctx, OpList, s.sql.selectAll())
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id int64) ([]model.Record, error) {
	return s.query(ctx, OpGet, s.sql.selectByID(), id)
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, fields model.Fields) (model.Result, error) {
	q, args := s.sql.insert(fields)
	var res model.Result
	err := s.withConn(ctx, OpCreate, func(conn *pgxpool.Conn) error {
		if err := conn.QueryRow(ctx, q, args...).Scan(&res.InsertID); err != nil {
			return err
		}
		res.AffectedRows = 1
		return nil
	})
	return res, err
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, id int64, fields model.Fields) (model.Result, error) {
	if len(fields) == 0 {
		return model.Result{}, model.ErrEmptyBody
	}
	q, args := s.sql.update(id, fields)
	return s.exec(ctx, OpUpdate, q, args...)
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id int64) (model.Result, error) {
	return s.exec(ctx, OpDelete, s.sql.deleteByID(), id)
}

func (s *PostgresStore) exec(ctx context.Context, op, q string, args ...any) (model.Result, error) {
	var res model.Result
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, q, args...)
		if err != nil {
			return err
		}
		res.AffectedRows = tag.RowsAffected()
		return nil
	})
	return res, err
}

const postgresColumnsQuery = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`

// Columns implements Store.
func (s *PostgresStore) Columns(ctx context.Context) ([]string, error) {
	var cols []string
	err := s.withConn(ctx, OpColumns, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, postgresColumnsQuery, model.Table)
		if err != nil {
			return err
		}
		cols, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	return cols, err
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	start := time.Now()
	return observe(driverPostgres, OpPing, start, s.pool.Ping(ctx))
}

// Stats implements Store.
func (s *PostgresStore) Stats() PoolStats {
	st := s.pool.Stat()
	return PoolStats{
		Total: int(st.TotalConns()),
		Idle:  int(st.IdleConns()),
		InUse: int(st.AcquiredConns()),
	}
}

// Driver implements Store.
func (s *PostgresStore) Driver() string { return driverPostgres }

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
