package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/databricks/databricks-sql-go" // databricks driver
)

func init() {
	Register("databricks", func(logger *slog.Logger) Adapter {
		return NewDatabricksAdapter(logger)
	})
}

// DatabricksAdapter implements the Adapter interface for Databricks SQL
// warehouses. Metric views are a Databricks-native object, so this is the
// primary production adapter.
type DatabricksAdapter struct {
	BaseSQLAdapter
}

// NewDatabricksAdapter creates a new Databricks adapter instance.
func NewDatabricksAdapter(logger *slog.Logger) *DatabricksAdapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DatabricksAdapter{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
}

// buildDatabricksDSN builds a DSN in the form expected by the driver:
// token:<token>@<host>:<port><http_path>
func buildDatabricksDSN(cfg Config) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("databricks target requires a host")
	}
	if cfg.HTTPPath == "" {
		return "", fmt.Errorf("databricks target requires an http_path")
	}
	if cfg.Token == "" {
		return "", fmt.Errorf("databricks target requires a token")
	}

	port := cfg.Port
	if port == 0 {
		port = 443
	}

	return fmt.Sprintf("token:%s@%s:%d%s", cfg.Token, cfg.Host, port, cfg.HTTPPath), nil
}

// Connect establishes a connection to the Databricks SQL warehouse.
func (a *DatabricksAdapter) Connect(ctx context.Context, cfg Config) error {
	dsn, err := buildDatabricksDSN(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return fmt.Errorf("failed to open databricks connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping databricks warehouse: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger.Debug("connected to databricks", "host", cfg.Host, "http_path", cfg.HTTPPath)

	return nil
}

// DialectName returns the SQL dialect name for this adapter.
func (a *DatabricksAdapter) DialectName() string {
	return "databricks"
}

// Ensure DatabricksAdapter implements Adapter interface
var _ Adapter = (*DatabricksAdapter)(nil)
