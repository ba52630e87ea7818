// Package engine orchestrates metric view generation: it walks the
// artifact graph, resolves metadata, generates definition bodies, and
// submits DDL statements through the warehouse adapter.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/mvgen/internal/adapter"
	"github.com/leapstack-labs/mvgen/internal/dag"
	"github.com/leapstack-labs/mvgen/internal/loader"
	"github.com/leapstack-labs/mvgen/internal/state"
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// Engine orchestrates metric view operations over the artifact graph.
type Engine struct {
	// Warehouse adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	// Structured logger
	logger *slog.Logger

	store       core.Store
	modelsDir   string
	environment string
	target      *core.TargetConfig
	graph       *dag.Graph
}

// Config holds engine configuration.
type Config struct {
	// ModelsDir is the path to the models directory
	ModelsDir string
	// StatePath is the path to the SQLite state database
	StatePath string
	// Environment is the current environment (dev, staging, prod)
	Environment string
	// Target contains warehouse target configuration
	Target *core.TargetConfig
	// AdapterConfig overrides the adapter configuration derived from Target
	AdapterConfig *adapter.Config
	// Adapter injects an already-connected adapter, bypassing the
	// registry and lazy connection (used by tests)
	Adapter adapter.Adapter
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine with a lazy warehouse connection.
// The adapter is only connected when an operation needs to execute
// statements.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("initializing engine", "models_dir", cfg.ModelsDir, "environment", cfg.Environment)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	env := cfg.Environment
	if env == "" {
		env = "dev"
	}

	target := cfg.Target
	if target == nil {
		target = &core.TargetConfig{Type: "duckdb"}
	}

	var dbConfig adapter.Config
	if cfg.AdapterConfig != nil {
		dbConfig = *cfg.AdapterConfig
	} else {
		dbConfig = adapter.Config{
			Type:     target.Type,
			Path:     target.Path,
			Host:     target.Host,
			Port:     target.Port,
			HTTPPath: target.HTTPPath,
			Token:    target.Token,
			Catalog:  target.Catalog,
			Schema:   target.Schema,
			Options:  target.Options,
		}
	}
	if dbConfig.Type == "" {
		dbConfig.Type = "duckdb"
	}

	e := &Engine{
		dbConfig:    dbConfig,
		logger:      logger,
		store:       store,
		modelsDir:   cfg.ModelsDir,
		environment: env,
		target:      target,
	}

	if cfg.Adapter != nil {
		e.db = cfg.Adapter
		e.dbConnected = true
	}

	return e, nil
}

// Discover loads the artifact graph from the models directory.
func (e *Engine) Discover() error {
	graph, err := loader.New(e.modelsDir, e.target, e.logger).Load()
	if err != nil {
		return fmt.Errorf("failed to load artifact graph: %w", err)
	}

	e.graph = graph
	e.logger.Debug("artifact graph loaded", "nodes", graph.NodeCount(), "edges", graph.EdgeCount())
	return nil
}

// ensureDiscovered loads the graph if Discover has not been called yet.
func (e *Engine) ensureDiscovered() error {
	if e.graph != nil {
		return nil
	}
	return e.Discover()
}

// ensureDBConnected lazily connects to the warehouse.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to warehouse", "adapter_type", e.dbConfig.Type)

	db, err := adapter.NewAdapter(e.dbConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create warehouse adapter: %w", err)
	}

	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	e.db = db
	e.dbConnected = true

	return nil
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %v", errs)
	}
	return nil
}

// GetGraph returns the dependency graph (nil before Discover).
func (e *Engine) GetGraph() *dag.Graph {
	return e.graph
}

// GetStateStore returns the run history store.
func (e *Engine) GetStateStore() core.Store {
	return e.store
}
