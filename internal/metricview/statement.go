package metricview

import (
	"fmt"
	"strings"
)

// bodyDelimiter wraps the inline YAML block in create statements.
const bodyDelimiter = "$$"

// QualifiedViewName joins catalog, schema, and view name with dots,
// omitting empty identity parts.
func QualifiedViewName(catalog, schema, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{catalog, schema, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// BuildCreateStatement wraps a generated definition body into a complete
// CREATE OR REPLACE VIEW statement with the metric view language clause.
// The comment clause is attached only when description is non-empty.
// Create-or-replace keeps the view's identity stable so warehouse-side
// materialized state survives regenerations.
func BuildCreateStatement(catalog, schema, name, description, body string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CREATE OR REPLACE VIEW %s\n", QualifiedViewName(catalog, schema, name))
	b.WriteString("WITH METRICS\nLANGUAGE YAML\n")

	if description != "" {
		fmt.Fprintf(&b, "COMMENT %s\n", quoteLiteral(description))
	}

	b.WriteString("AS " + bodyDelimiter + "\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(bodyDelimiter)

	return b.String()
}

// BuildDropStatement produces a conditional drop for the named view.
// IF EXISTS makes the drop idempotent: a missing view is a success.
func BuildDropStatement(catalog, schema, name string) string {
	return fmt.Sprintf("DROP VIEW IF EXISTS %s", QualifiedViewName(catalog, schema, name))
}

// quoteLiteral returns s as a single-quoted SQL string literal with
// embedded quotes doubled.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
