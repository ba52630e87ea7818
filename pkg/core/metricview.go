package core

// DefaultMetricViewVersion is the metric view YAML version emitted when a
// spec does not declare one. It is passed through to the warehouse without
// validation.
const DefaultMetricViewVersion = "0.1"

// MetricViewSpec is the metric view configuration attached to an artifact,
// either inline in model frontmatter or in an external properties document.
// The same struct is used for both sources; resolution picks one whole
// object, never a field-by-field merge.
type MetricViewSpec struct {
	// Enabled opts the artifact into metric view generation
	Enabled bool `yaml:"enabled"`
	// Name is the view identifier; required when Enabled is true
	Name string `yaml:"name"`
	// Description becomes the view's COMMENT clause when set
	Description string `yaml:"description"`
	// Version is the metric view language version (default "0.1")
	Version string `yaml:"version"`
	// Filter is an optional row filter expression
	Filter string `yaml:"filter"`
	// Dimensions are the grouping columns, in declared order
	Dimensions []Dimension `yaml:"dimensions"`
	// Measures are the aggregations, in declared order
	Measures []Measure `yaml:"measures"`
	// RawYAML is a verbatim definition body. When set it takes precedence
	// over Version/Filter/Dimensions/Measures; only the source placeholder
	// is substituted.
	RawYAML string `yaml:"raw_yaml"`
}

// Dimension is one grouping column of a metric view.
type Dimension struct {
	Name string `yaml:"name"`
	// Expr defaults to Name when empty
	Expr string `yaml:"expr"`
}

// Measure is one aggregation of a metric view. Unlike dimensions,
// measures have no default expression.
type Measure struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}
