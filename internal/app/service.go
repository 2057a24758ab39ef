// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/pokeapi/internal/adapters/repository"
	"github.com/okian/pokeapi/internal/domain/model"
	"github.com/okian/pokeapi/pkg/logger"
)

// Sentinel kinds for service lifecycle errors.
var (
	ErrNoStore    = errors.New("service has no store")
	ErrNotStarted = errors.New("service not started")
)

// Service implements the pokemon operations on top of a repository.Store.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	columns []string
	allow   model.Columns

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the store the service delegates to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithColumns fixes the writable column allowlist instead of reading it
// from the table schema.
func WithColumns(columns []string) Option {
	return func(s *Service) {
		if len(columns) > 0 {
			s.columns = columns
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start verifies the store and resolves the column allowlist.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.logger.Info(ctx, "starting pokemons service...", logger.String("driver", s.store.Driver()))

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}

	names := s.columns
	source := "config"
	if len(names) == 0 {
		cols, err := s.store.Columns(ctx)
		if err != nil {
			return fmt.Errorf("reading table columns: %w", err)
		}
		names, source = cols, "schema"
	}
	s.allow = model.NewColumns(names...)
	if s.allow.Len() == 0 {
		return fmt.Errorf("%s %w", model.Table, repository.ErrNoColumns)
	}

	s.started = true
	s.logger.Info(ctx, "pokemons service started",
		logger.String("columnsFrom", source),
		logger.Any("columns", s.allow.Names()),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "pokemons service stopped")
}

// Columns returns the writable column allowlist.
func (s *Service) Columns() model.Columns {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allow
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// List returns every pokemon.
func (s *Service) List(ctx context.Context) ([]model.Record, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	rows, err := store.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list pokemons failed", logger.Error(err))
		return nil, err
	}
	return rows, nil
}

// Get returns the rows matching id, or model.ErrNotFound when none do.
func (s *Service) Get(ctx context.Context, id int64) ([]model.Record, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	rows, err := store.Get(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "get pokemon failed", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrNotFound
	}
	return rows, nil
}

// Create inserts a pokemon from fields.
func (s *Service) Create(ctx context.Context, fields model.Fields) (model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	res, err := store.Create(ctx, fields)
	if err != nil {
		s.logger.Error(ctx, "create pokemon failed", logger.Error(err))
		return model.Result{}, err
	}
	s.logger.Debug(ctx, "pokemon created", logger.Int64("id", res.InsertID))
	return res, nil
}

// Update sets fields on the pokemon matching id. A missing id is not an error.
func (s *Service) Update(ctx context.Context, id int64, fields model.Fields) (model.Result, error) {
	if len(fields) == 0 {
		return model.Result{}, model.ErrEmptyBody
	}
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	res, err := store.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error(ctx, "update pokemon failed", logger.Int64("id", id), logger.Error(err))
		return model.Result{}, err
	}
	return res, nil
}

// Delete removes the pokemon matching id. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) (model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	res, err := store.Delete(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "delete pokemon failed", logger.Int64("id", id), logger.Error(err))
		return model.Result{}, err
	}
	return res, nil
}

// Ping reports store health.
func (s *Service) Ping(ctx context.Context) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"columns": s.allow.Names(),
	}
	if s.store != nil {
		st := s.store.Stats()
		stats["driver"] = s.store.Driver()
		stats["connsTotal"] = st.Total
		stats["connsIdle"] = st.Idle
		stats["connsInUse"] = st.InUse
	}
	return stats
}
