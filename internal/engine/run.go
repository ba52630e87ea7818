package engine

// run.go - Orchestration of generate-all and drop-all over the graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/mvgen/internal/metricview"
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// GenerateAll resolves every artifact in the graph and issues a
// create-or-replace statement for each enabled metric view. Artifacts are
// independent: a failure on one never prevents attempting the others. The
// returned error joins all per-artifact failures; the run record reflects
// the aggregate status.
func (e *Engine) GenerateAll(ctx context.Context) (*core.Run, error) {
	return e.processAll(ctx, core.OperationGenerate)
}

// DropAll resolves every artifact in the graph and issues a conditional
// drop for each enabled metric view. Dropping a view that does not exist
// is a success, so repeated invocations are idempotent.
func (e *Engine) DropAll(ctx context.Context) (*core.Run, error) {
	return e.processAll(ctx, core.OperationDrop)
}

func (e *Engine) processAll(ctx context.Context, operation string) (*core.Run, error) {
	if err := e.ensureDiscovered(); err != nil {
		return nil, err
	}
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}

	run, err := e.store.CreateRun(operation, e.environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	e.logger.Info("starting run", "run_id", run.ID, "operation", operation, "environment", e.environment)

	var failures []error
	var processed, skipped int

	for _, node := range e.graph.GetAllNodes() {
		a := node.Artifact
		if a.Kind != core.ResourceKindModel {
			continue
		}

		outcome := e.processArtifact(ctx, operation, a)
		outcome.RunID = run.ID
		if err := e.store.RecordArtifactRun(outcome); err != nil {
			e.logger.Error("failed to record artifact outcome", "artifact", a.Path, "error", err)
		}

		switch outcome.Status {
		case core.ArtifactRunStatusSkipped:
			skipped++
		case core.ArtifactRunStatusFailed:
			failures = append(failures, fmt.Errorf("%s: %s", a.Path, outcome.Error))
		case core.ArtifactRunStatusSuccess:
			processed++
		}
	}

	if len(failures) > 0 {
		errMsg := fmt.Sprintf("%d artifact(s) failed", len(failures))
		_ = e.store.CompleteRun(run.ID, core.RunStatusFailed, errMsg)
		run.Status = core.RunStatusFailed
		run.Error = errMsg

		e.logger.Error("run failed", "run_id", run.ID, "failed", len(failures), "succeeded", processed, "skipped", skipped)
		return run, errors.Join(failures...)
	}

	_ = e.store.CompleteRun(run.ID, core.RunStatusCompleted, "")
	run.Status = core.RunStatusCompleted

	e.logger.Info("run completed", "run_id", run.ID, "succeeded", processed, "skipped", skipped)
	return run, nil
}

// processArtifact takes one artifact through resolve -> generate -> emit
// and returns its outcome. Generation fully completes or fails before any
// execution call; no partial statement is ever submitted.
func (e *Engine) processArtifact(ctx context.Context, operation string, a *core.Artifact) *core.ArtifactRun {
	outcome := &core.ArtifactRun{ArtifactPath: a.Path}

	spec, enabled, err := metricview.Resolve(a)
	if err != nil {
		outcome.Status = core.ArtifactRunStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	if !enabled {
		e.logger.Debug("artifact has no metric view", "artifact", a.Path)
		outcome.Status = core.ArtifactRunStatusSkipped
		return outcome
	}

	outcome.ViewName = metricview.QualifiedViewName(a.Catalog, a.Schema, spec.Name)

	var stmt string
	switch operation {
	case core.OperationGenerate:
		body, err := metricview.Generate(spec, a.SourceRef())
		if err != nil {
			outcome.Status = core.ArtifactRunStatusFailed
			outcome.Error = err.Error()
			return outcome
		}
		stmt = metricview.BuildCreateStatement(a.Catalog, a.Schema, spec.Name, spec.Description, body)
	case core.OperationDrop:
		stmt = metricview.BuildDropStatement(a.Catalog, a.Schema, spec.Name)
	default:
		outcome.Status = core.ArtifactRunStatusFailed
		outcome.Error = fmt.Sprintf("unknown operation: %s", operation)
		return outcome
	}

	start := time.Now()
	execErr := e.db.Exec(ctx, stmt)
	outcome.ExecutionMS = time.Since(start).Milliseconds()

	if execErr != nil {
		e.logger.Debug("statement execution failed", "view", outcome.ViewName, "error", execErr)
		outcome.Status = core.ArtifactRunStatusFailed
		outcome.Error = fmt.Sprintf("view %s: %v", outcome.ViewName, execErr)
		return outcome
	}

	e.logger.Debug("statement executed", "view", outcome.ViewName, "operation", operation, "exec_ms", outcome.ExecutionMS)
	outcome.Status = core.ArtifactRunStatusSuccess
	return outcome
}

// Statement is one rendered DDL statement, produced without execution.
type Statement struct {
	ArtifactPath string
	ViewName     string
	SQL          string
}

// Render produces the statements an operation would execute, without
// connecting to the warehouse. Used by the render command for dry runs.
func (e *Engine) Render(operation string) ([]Statement, error) {
	if err := e.ensureDiscovered(); err != nil {
		return nil, err
	}

	var stmts []Statement
	var failures []error

	for _, node := range e.graph.GetAllNodes() {
		a := node.Artifact
		if a.Kind != core.ResourceKindModel {
			continue
		}

		spec, enabled, err := metricview.Resolve(a)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if !enabled {
			continue
		}

		var sql string
		switch operation {
		case core.OperationGenerate:
			body, err := metricview.Generate(spec, a.SourceRef())
			if err != nil {
				failures = append(failures, err)
				continue
			}
			sql = metricview.BuildCreateStatement(a.Catalog, a.Schema, spec.Name, spec.Description, body)
		case core.OperationDrop:
			sql = metricview.BuildDropStatement(a.Catalog, a.Schema, spec.Name)
		default:
			return nil, fmt.Errorf("unknown operation: %s", operation)
		}

		stmts = append(stmts, Statement{
			ArtifactPath: a.Path,
			ViewName:     metricview.QualifiedViewName(a.Catalog, a.Schema, spec.Name),
			SQL:          sql,
		})
	}

	if len(failures) > 0 {
		return stmts, errors.Join(failures...)
	}
	return stmts, nil
}
