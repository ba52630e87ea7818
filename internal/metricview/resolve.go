package metricview

import (
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// Resolve determines whether an artifact opts into metric view generation
// and returns the single effective spec. Inline frontmatter metadata wins
// whole-object when it is present and enabled; otherwise the external
// properties document is consulted. The two sources are never merged
// field-by-field.
//
// A disabled artifact returns (nil, false, nil); that is not an error.
// An enabled spec without a view name is a ConfigError.
func Resolve(a *core.Artifact) (*core.MetricViewSpec, bool, error) {
	spec := effectiveSpec(a)
	if spec == nil {
		return nil, false, nil
	}

	if spec.Name == "" {
		return nil, false, &ConfigError{
			Subject: a.Path,
			Field:   "name",
			Message: "metric view is enabled but has no name",
		}
	}

	return spec, true, nil
}

// effectiveSpec applies the whole-object precedence rule: inline over
// external, enabled objects only.
func effectiveSpec(a *core.Artifact) *core.MetricViewSpec {
	if a.InlineMeta != nil && a.InlineMeta.Enabled {
		return a.InlineMeta
	}
	if a.ExternalMeta != nil && a.ExternalMeta.Enabled {
		return a.ExternalMeta
	}
	return nil
}
