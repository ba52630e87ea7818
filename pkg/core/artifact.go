package core

import "strings"

// ResourceKind describes what a build-graph node represents.
type ResourceKind string

// Resource kind constants.
const (
	// ResourceKindModel is a SQL model materialized by the project.
	// Only models can carry metric view metadata.
	ResourceKindModel ResourceKind = "model"
	// ResourceKindSource is an external table declared in a properties
	// document. Sources participate in the graph as upstream nodes only.
	ResourceKindSource ResourceKind = "source"
)

// Artifact is a build-graph node representing one materialized relation
// and its attached metadata. Artifacts are created by the loader before
// any engine operation runs and are treated as immutable afterwards.
type Artifact struct {
	// Path is the graph identifier (e.g., "marts.orders")
	Path string
	// Name is the relation name (filename without extension)
	Name string
	// Alias overrides Name as the physical table name when set
	Alias string
	// Kind is the resource kind; only "model" participates in generation
	Kind ResourceKind
	// Catalog is the catalog (database) holding the relation
	Catalog string
	// Schema is the schema holding the relation
	Schema string
	// Description is a human-readable description of the artifact
	Description string
	// Tags are metadata labels for filtering/organizing artifacts
	Tags []string
	// DependsOn lists upstream artifact paths
	DependsOn []string
	// FilePath is the absolute path to the defining file, if any
	FilePath string
	// InlineMeta is the metric view config declared in the model's own
	// frontmatter, if any
	InlineMeta *MetricViewSpec
	// ExternalMeta is the metric view config declared for this model in a
	// separate properties document, if any
	ExternalMeta *MetricViewSpec
}

// TableName returns the physical table name: Alias when declared,
// otherwise Name.
func (a *Artifact) TableName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Name
}

// SourceRef returns the dot-qualified reference to the artifact's
// relation (catalog.schema.table). Empty identity parts are omitted so a
// two-level target (schema.table) still renders a usable reference.
func (a *Artifact) SourceRef() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Catalog, a.Schema, a.TableName()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}
