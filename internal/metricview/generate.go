package metricview

import (
	"strings"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

// PlaceholderToken is the literal recognized inside raw definition text
// and replaced with the dot-qualified source table reference. Occurrences
// outside raw mode are never substituted.
const PlaceholderToken = "__SOURCE__"

// DefinitionSource is the authoring mode of a metric view definition:
// either verbatim user-supplied text or structured fields assembled into
// text. Exactly one variant applies per spec.
type DefinitionSource interface {
	isDefinitionSource()
}

// RawSource is the verbatim-template authoring mode.
type RawSource struct {
	Text string
}

// StructuredSource is the field-by-field authoring mode.
type StructuredSource struct {
	Version    string
	Filter     string
	Dimensions []core.Dimension
	Measures   []core.Measure
}

func (RawSource) isDefinitionSource()        {}
func (StructuredSource) isDefinitionSource() {}

// SourceFor selects the authoring mode for a spec: raw when RawYAML is
// non-empty, structured otherwise. Structured fields are ignored entirely
// in raw mode.
func SourceFor(spec *core.MetricViewSpec) DefinitionSource {
	if spec.RawYAML != "" {
		return RawSource{Text: spec.RawYAML}
	}
	return StructuredSource{
		Version:    spec.Version,
		Filter:     spec.Filter,
		Dimensions: spec.Dimensions,
		Measures:   spec.Measures,
	}
}

// Generate produces the metric view definition body for a resolved spec
// and the artifact's dot-qualified source reference. The output is
// deterministic: identical inputs yield byte-identical bodies.
func Generate(spec *core.MetricViewSpec, sourceRef string) (string, error) {
	switch src := SourceFor(spec).(type) {
	case RawSource:
		return generateRaw(src, sourceRef), nil
	case StructuredSource:
		return generateStructured(src, sourceRef, spec.Name)
	default:
		// Unreachable: SourceFor returns one of the two variants.
		return "", &ConfigError{Subject: spec.Name, Message: "unknown definition source"}
	}
}

// generateRaw substitutes every placeholder occurrence and passes the
// text through otherwise verbatim, indentation and comments included.
func generateRaw(src RawSource, sourceRef string) string {
	return strings.ReplaceAll(src.Text, PlaceholderToken, sourceRef)
}

// generateStructured assembles the definition body in canonical field
// order: version, source, filter, dimensions, measures. Empty groups are
// omitted entirely.
func generateStructured(src StructuredSource, sourceRef, name string) (string, error) {
	var b strings.Builder

	version := src.Version
	if version == "" {
		version = core.DefaultMetricViewVersion
	}
	b.WriteString("version: ")
	b.WriteString(version)
	b.WriteString("\n")

	b.WriteString("source: ")
	b.WriteString(sourceRef)
	b.WriteString("\n")

	if src.Filter != "" {
		b.WriteString("filter: ")
		b.WriteString(src.Filter)
		b.WriteString("\n")
	}

	if len(src.Dimensions) > 0 {
		b.WriteString("dimensions:\n")
		for _, d := range src.Dimensions {
			expr := d.Expr
			if expr == "" {
				expr = d.Name
			}
			b.WriteString("  - name: ")
			b.WriteString(d.Name)
			b.WriteString("\n    expr: ")
			b.WriteString(expr)
			b.WriteString("\n")
		}
	}

	if len(src.Measures) > 0 {
		b.WriteString("measures:\n")
		for _, m := range src.Measures {
			if m.Expr == "" {
				return "", &ConfigError{
					Subject: name,
					Field:   "expr",
					Message: "measure " + m.Name + " has no expression",
				}
			}
			b.WriteString("  - name: ")
			b.WriteString(m.Name)
			b.WriteString("\n    expr: ")
			b.WriteString(m.Expr)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
