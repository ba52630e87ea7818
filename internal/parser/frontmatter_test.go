package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFrontmatter_NoFrontmatter(t *testing.T) {
	content := "SELECT * FROM orders"

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)

	assert.False(t, result.HasYAML)
	assert.Equal(t, content, result.SQL)
	assert.Empty(t, result.Config.Name)
}

func TestExtractFrontmatter_Basic(t *testing.T) {
	content := `/*---
name: orders
description: Order fact table
tags: [finance, core]
depends_on:
  - staging.stg_orders
---*/
SELECT * FROM stg_orders`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)

	assert.True(t, result.HasYAML)
	assert.Equal(t, "orders", result.Config.Name)
	assert.Equal(t, "Order fact table", result.Config.Description)
	assert.Equal(t, []string{"finance", "core"}, result.Config.Tags)
	assert.Equal(t, []string{"staging.stg_orders"}, result.Config.DependsOn)
	assert.Equal(t, "SELECT * FROM stg_orders", result.SQL)
}

func TestExtractFrontmatter_MetricView(t *testing.T) {
	content := `/*---
name: orders
metric_view:
  enabled: true
  name: orders_metrics
  dimensions:
    - name: region
    - name: order_month
      expr: date_trunc('month', order_date)
  measures:
    - name: total_revenue
      expr: SUM(amount)
---*/
SELECT 1`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)

	mv := result.Config.MetricView
	require.NotNil(t, mv)
	assert.True(t, mv.Enabled)
	assert.Equal(t, "orders_metrics", mv.Name)
	require.Len(t, mv.Dimensions, 2)
	assert.Equal(t, "region", mv.Dimensions[0].Name)
	assert.Empty(t, mv.Dimensions[0].Expr)
	assert.Equal(t, "date_trunc('month', order_date)", mv.Dimensions[1].Expr)
	require.Len(t, mv.Measures, 1)
	assert.Equal(t, "SUM(amount)", mv.Measures[0].Expr)
}

func TestExtractFrontmatter_RawYAML(t *testing.T) {
	content := `/*---
metric_view:
  enabled: true
  name: orders_metrics
  raw_yaml: |
    version: 0.1
    source: __SOURCE__
    measures:
      - name: order_count
        expr: COUNT(1)
---*/
SELECT 1`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)

	mv := result.Config.MetricView
	require.NotNil(t, mv)
	assert.Contains(t, mv.RawYAML, "source: __SOURCE__")
	assert.Contains(t, mv.RawYAML, "expr: COUNT(1)")
}

func TestExtractFrontmatter_UnknownField(t *testing.T) {
	content := `/*---
name: orders
materialization: table
---*/
SELECT 1`

	_, err := ExtractFrontmatter(content)
	require.Error(t, err)

	var unknownErr *UnknownFieldError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "materialization", unknownErr.Field)
	assert.Contains(t, err.Error(), "meta")
}

func TestExtractFrontmatter_MetaFieldAllowed(t *testing.T) {
	content := `/*---
name: orders
meta:
  owner: analytics-team
---*/
SELECT 1`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)
	assert.Equal(t, "analytics-team", result.Config.Meta["owner"])
}

func TestExtractFrontmatter_InvalidYAML(t *testing.T) {
	content := `/*---
name: [unclosed
---*/
SELECT 1`

	_, err := ExtractFrontmatter(content)
	require.Error(t, err)

	var parseErr *FrontmatterParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "invalid YAML")
}

func TestExtractFrontmatter_LeadingWhitespace(t *testing.T) {
	content := `

/*---
name: orders
---*/
SELECT 1`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)
	assert.True(t, result.HasYAML)
	assert.Equal(t, "orders", result.Config.Name)
}

func TestExtractFrontmatter_NotAtTop(t *testing.T) {
	// A frontmatter-shaped block after SQL content is just a comment
	content := `SELECT 1;
/*---
name: orders
---*/`

	result, err := ExtractFrontmatter(content)
	require.NoError(t, err)
	assert.False(t, result.HasYAML)
}

func TestApplyDefaults(t *testing.T) {
	t.Run("name from filename", func(t *testing.T) {
		cfg := &FrontmatterConfig{}
		cfg.ApplyDefaults("orders.sql")
		assert.Equal(t, "orders", cfg.Name)
	})

	t.Run("explicit name preserved", func(t *testing.T) {
		cfg := &FrontmatterConfig{Name: "fct_orders"}
		cfg.ApplyDefaults("orders.sql")
		assert.Equal(t, "fct_orders", cfg.Name)
	})
}

func TestFrontmatterParseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  FrontmatterParseError
		want string
	}{
		{"message only", FrontmatterParseError{Message: "bad yaml"}, "bad yaml"},
		{"with file", FrontmatterParseError{File: "orders.sql", Message: "bad yaml"}, "orders.sql: bad yaml"},
		{"with file and line", FrontmatterParseError{File: "orders.sql", Line: 3, Message: "bad yaml"}, "orders.sql:3: bad yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
