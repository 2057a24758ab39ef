// Package repository executes the pokemons statements against a relational store.
package repository

import (
	"context"
	"time"

	"github.com/okian/pokeapi/internal/domain/model"
	"github.com/okian/pokeapi/pkg/metrics"
)

// Operation names used for errors, logs and metrics.
const (
	OpList    = "list"
	OpGet     = "get"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpColumns = "columns"
	OpPing    = "ping"
)

// Store provides the single-statement operations over the pokemons table.
// Every failure is a *model.StoreError.
type Store interface {
	// List returns every row.
	List(ctx context.Context) ([]model.Record, error)
	// Get returns the rows whose id equals id; an empty slice when none match.
	Get(ctx context.Context, id int64) ([]model.Record, error)
	// Create inserts one row from fields.
	Create(ctx context.Context, fields model.Fields) (model.Result, error)
	// Update sets fields on the row matching id. Matching nothing is not an error.
	Update(ctx context.Context, id int64, fields model.Fields) (model.Result, error)
	// Delete removes the row matching id. Matching nothing is not an error.
	Delete(ctx context.Context, id int64) (model.Result, error)

	// Columns reads the table's column names in schema order.
	Columns(ctx context.Context) ([]string, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	// Stats reports the connection pool state.
	Stats() PoolStats
	// Driver names the implementation, e.g. "postgres".
	Driver() string
	Close() error
}

// PoolStats is a snapshot of the connection pool.
type PoolStats struct {
	Total int
	Idle  int
	InUse int
}

// observe records latency and failure for one statement and wraps err.
func observe(driver, op string, start time.Time, err error) error {
	metrics.RecordStoreQuery(driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(driver, op)
		return model.NewStoreError(op, err)
	}
	return nil
}
