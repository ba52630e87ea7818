package metricview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedViewName(t *testing.T) {
	tests := []struct {
		name     string
		catalog  string
		schema   string
		view     string
		expected string
	}{
		{name: "three level", catalog: "main", schema: "sales", view: "mv_orders", expected: "main.sales.mv_orders"},
		{name: "no catalog", schema: "sales", view: "mv_orders", expected: "sales.mv_orders"},
		{name: "bare name", view: "mv_orders", expected: "mv_orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QualifiedViewName(tt.catalog, tt.schema, tt.view))
		})
	}
}

func TestBuildCreateStatement(t *testing.T) {
	body := "version: 0.1\nsource: main.sales.orders\n"
	stmt := BuildCreateStatement("main", "sales", "mv_orders", "Order metrics", body)

	want := `CREATE OR REPLACE VIEW main.sales.mv_orders
WITH METRICS
LANGUAGE YAML
COMMENT 'Order metrics'
AS $$
version: 0.1
source: main.sales.orders
$$`
	assert.Equal(t, want, stmt)
}

func TestBuildCreateStatement_NoDescription(t *testing.T) {
	stmt := BuildCreateStatement("main", "sales", "mv_orders", "", "version: 0.1\n")
	assert.NotContains(t, stmt, "COMMENT")
}

func TestBuildCreateStatement_EscapesQuotes(t *testing.T) {
	stmt := BuildCreateStatement("main", "sales", "mv_orders", "driver's seat", "version: 0.1\n")
	assert.Contains(t, stmt, "COMMENT 'driver''s seat'")
}

func TestBuildCreateStatement_TerminatesBody(t *testing.T) {
	// A body without a trailing newline still gets the closing delimiter
	// on its own line.
	stmt := BuildCreateStatement("main", "sales", "mv_orders", "", "version: 0.1")
	assert.Contains(t, stmt, "version: 0.1\n$$")
}

func TestBuildDropStatement(t *testing.T) {
	stmt := BuildDropStatement("main", "sales", "mv_orders")
	assert.Equal(t, "DROP VIEW IF EXISTS main.sales.mv_orders", stmt)
}
