// Package adapter provides warehouse adapter interfaces and
// implementations for submitting mvgen's generated DDL statements.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a warehouse.
type Config struct {
	// Type specifies the warehouse type (e.g., "databricks", "duckdb")
	Type string

	// Path is the file path for file-based databases (DuckDB).
	// Use ":memory:" for an in-memory database.
	Path string

	// Host is the workspace hostname for network warehouses
	Host string

	// Port is the port number (defaults to 443 for Databricks)
	Port int

	// HTTPPath is the SQL warehouse HTTP path (Databricks)
	HTTPPath string

	// Token is the access token for authentication (Databricks)
	Token string

	// Catalog is the default catalog to use
	Catalog string

	// Schema is the default schema to use
	Schema string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all warehouse adapters must
// implement. The engine submits one statement at a time through Exec and
// treats each call as a blocking round-trip; timeout and retry policy, if
// any, belong to the driver configuration.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows (DDL).
	Exec(ctx context.Context, sql string) error

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// DialectName returns the SQL dialect name for this adapter.
	DialectName() string
}
