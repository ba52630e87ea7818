package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDatabricksDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
		errMsg   string
	}{
		{
			name: "basic connection",
			config: Config{
				Host:     "adb-123.4.azuredatabricks.net",
				HTTPPath: "/sql/1.0/warehouses/abc123",
				Token:    "dapi-secret",
			},
			expected: "token:dapi-secret@adb-123.4.azuredatabricks.net:443/sql/1.0/warehouses/abc123",
		},
		{
			name: "custom port",
			config: Config{
				Host:     "workspace.cloud.databricks.com",
				Port:     8443,
				HTTPPath: "/sql/1.0/warehouses/xyz",
				Token:    "dapi-secret",
			},
			expected: "token:dapi-secret@workspace.cloud.databricks.com:8443/sql/1.0/warehouses/xyz",
		},
		{
			name:   "missing host",
			config: Config{HTTPPath: "/sql/1.0/warehouses/abc", Token: "t"},
			errMsg: "requires a host",
		},
		{
			name:   "missing http_path",
			config: Config{Host: "h", Token: "t"},
			errMsg: "requires an http_path",
		},
		{
			name:   "missing token",
			config: Config{Host: "h", HTTPPath: "/sql/1.0/warehouses/abc"},
			errMsg: "requires a token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildDatabricksDSN(tt.config)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestDatabricksAdapter_DialectName(t *testing.T) {
	a := NewDatabricksAdapter(nil)
	assert.Equal(t, "databricks", a.DialectName())
}
