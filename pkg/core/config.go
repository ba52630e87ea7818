package core

// TargetConfig holds warehouse target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // databricks, duckdb

	// Catalog and Schema qualify generated relations and views
	Catalog string `koanf:"catalog"`
	Schema  string `koanf:"schema"`

	// Databricks connection settings
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	HTTPPath string `koanf:"http_path"`
	Token    string `koanf:"token"`

	// Path is the database file for file-based targets (DuckDB).
	// Use ":memory:" for an in-memory database.
	Path string `koanf:"path"`

	// Options contains additional driver-specific options
	Options map[string]string `koanf:"options"`
}
