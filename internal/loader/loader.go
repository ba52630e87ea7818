// Package loader discovers project files and materializes the artifact
// graph. It reads SQL models with YAML frontmatter (inline metadata) and
// separate YAML properties documents (external metadata), then wires
// dependency edges between artifacts.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/mvgen/internal/dag"
	"github.com/leapstack-labs/mvgen/internal/parser"
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// Loader builds the artifact graph from a models directory.
type Loader struct {
	modelsDir string
	target    *core.TargetConfig
	logger    *slog.Logger
}

// New creates a loader for the given models directory. The target config
// supplies default catalog and schema for artifacts that don't declare
// their own.
func New(modelsDir string, target *core.TargetConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if target == nil {
		target = &core.TargetConfig{}
	}
	return &Loader{
		modelsDir: modelsDir,
		target:    target,
		logger:    logger,
	}
}

// Load walks the models directory and returns the materialized graph.
// The graph is immutable from the caller's point of view: engine
// operations only read it.
func (l *Loader) Load() (*dag.Graph, error) {
	graph := dag.NewGraph()

	var sqlFiles, propFiles []string
	err := filepath.WalkDir(l.modelsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".sql":
			sqlFiles = append(sqlFiles, path)
		case ".yml", ".yaml":
			propFiles = append(propFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk models directory: %w", err)
	}

	l.logger.Debug("discovered project files", "models", len(sqlFiles), "properties_docs", len(propFiles))

	artifactsByName := make(map[string]*core.Artifact)
	for _, path := range sqlFiles {
		artifact, err := l.loadModel(path)
		if err != nil {
			return nil, err
		}
		if existing, ok := artifactsByName[artifact.Name]; ok {
			return nil, fmt.Errorf("duplicate model name %q (%s and %s)", artifact.Name, existing.FilePath, artifact.FilePath)
		}
		artifactsByName[artifact.Name] = artifact
		graph.AddNode(artifact.Path, artifact)
	}

	for _, path := range propFiles {
		if err := l.applyPropertiesDoc(path, graph, artifactsByName); err != nil {
			return nil, err
		}
	}

	if err := l.wireEdges(graph, artifactsByName); err != nil {
		return nil, err
	}

	if hasCycle, cyclePath := graph.HasCycle(); hasCycle {
		return nil, fmt.Errorf("dependency cycle detected: %v", cyclePath)
	}

	return graph, nil
}

// loadModel parses one SQL model file into an artifact.
func (l *Loader) loadModel(path string) (*core.Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	result, err := parser.ExtractFrontmatter(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := result.Config
	cfg.ApplyDefaults(filepath.Base(path))

	rel, err := filepath.Rel(l.modelsDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	artifact := &core.Artifact{
		Path:        modelPath(rel, cfg.Name),
		Name:        cfg.Name,
		Alias:       cfg.Alias,
		Kind:        core.ResourceKindModel,
		Catalog:     firstNonEmpty(cfg.Catalog, l.target.Catalog),
		Schema:      firstNonEmpty(cfg.Schema, l.target.Schema, dirSchema(rel)),
		Description: cfg.Description,
		Tags:        cfg.Tags,
		DependsOn:   cfg.DependsOn,
		FilePath:    path,
		InlineMeta:  cfg.MetricView,
	}

	return artifact, nil
}

// wireEdges connects every artifact to its declared dependencies.
// Dependencies are referenced by artifact path or by bare model name.
func (l *Loader) wireEdges(graph *dag.Graph, byName map[string]*core.Artifact) error {
	for _, node := range graph.GetAllNodes() {
		for _, dep := range node.Artifact.DependsOn {
			parentID := dep
			if _, ok := graph.GetNode(parentID); !ok {
				if parent, ok := byName[dep]; ok {
					parentID = parent.Path
				} else {
					return fmt.Errorf("%s depends on unknown artifact %q", node.ID, dep)
				}
			}
			if err := graph.AddEdge(parentID, node.ID); err != nil {
				return fmt.Errorf("failed to add dependency edge: %w", err)
			}
		}
	}
	return nil
}

// modelPath derives the graph identifier from the file's relative path
// and model name, e.g. "marts/orders.sql" -> "marts.orders".
func modelPath(rel, name string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return name
	}
	parts := strings.Split(filepath.ToSlash(dir), "/")
	return strings.Join(append(parts, name), ".")
}

// dirSchema derives a fallback schema from the model's top-level
// directory, e.g. "marts/orders.sql" -> "marts".
func dirSchema(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return ""
	}
	return strings.Split(filepath.ToSlash(dir), "/")[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
