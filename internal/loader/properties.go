package loader

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/mvgen/internal/dag"
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// propertiesDoc is a YAML document declaring metadata for models and
// external sources, separate from the model files themselves.
type propertiesDoc struct {
	Models  []modelProperties  `yaml:"models"`
	Sources []sourceProperties `yaml:"sources"`
}

// modelProperties carries externally-declared metadata for one model,
// matched by model name.
type modelProperties struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Tags        []string             `yaml:"tags"`
	MetricView  *core.MetricViewSpec `yaml:"metric_view"`
}

// sourceProperties declares an external table that participates in the
// graph as an upstream node only.
type sourceProperties struct {
	Name    string `yaml:"name"`
	Catalog string `yaml:"catalog"`
	Schema  string `yaml:"schema"`
}

// applyPropertiesDoc parses one properties document and applies it to the
// graph: external metric view metadata is attached to the named models,
// and declared sources become source-kind artifacts.
func (l *Loader) applyPropertiesDoc(path string, graph *dag.Graph, byName map[string]*core.Artifact) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read properties doc %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc propertiesDoc
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%s: invalid properties doc: %w", path, err)
	}

	for _, mp := range doc.Models {
		if mp.Name == "" {
			return fmt.Errorf("%s: model entry without a name", path)
		}
		artifact, ok := byName[mp.Name]
		if !ok {
			// A properties entry for a model that doesn't exist is a
			// warning, not an error: docs are often shared across targets.
			l.logger.Warn("properties doc references unknown model", "doc", path, "model", mp.Name)
			continue
		}

		if mp.Description != "" && artifact.Description == "" {
			artifact.Description = mp.Description
		}
		if len(mp.Tags) > 0 && len(artifact.Tags) == 0 {
			artifact.Tags = mp.Tags
		}
		if mp.MetricView != nil {
			if artifact.ExternalMeta != nil {
				return fmt.Errorf("%s: duplicate external metric view metadata for model %q", path, mp.Name)
			}
			artifact.ExternalMeta = mp.MetricView
		}
	}

	for _, sp := range doc.Sources {
		if sp.Name == "" {
			return fmt.Errorf("%s: source entry without a name", path)
		}
		artifact := &core.Artifact{
			Path:     "source." + sp.Name,
			Name:     sp.Name,
			Kind:     core.ResourceKindSource,
			Catalog:  firstNonEmpty(sp.Catalog, l.target.Catalog),
			Schema:   firstNonEmpty(sp.Schema, l.target.Schema),
			FilePath: path,
		}
		graph.AddNode(artifact.Path, artifact)
	}

	return nil
}
