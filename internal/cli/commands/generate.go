package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate metric views for all enabled models",
		Long: `Resolve metric view metadata for every model and submit a
CREATE OR REPLACE VIEW statement for each enabled metric view.

Models without metric view metadata (or with enabled: false) are skipped.
Artifacts are independent: a failure on one model never prevents the
others from being attempted. The command exits non-zero if any artifact
failed.`,
		Example: `  # Generate all metric views
  mvgen generate

  # Generate against the prod environment
  mvgen generate -e prod`,
		Aliases: []string{"gen"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, core.OperationGenerate)
		},
	}

	return cmd
}

// NewDropCommand creates the drop command.
func NewDropCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop metric views for all enabled models",
		Long: `Submit a DROP VIEW IF EXISTS statement for every enabled metric
view. Dropping a view that does not exist succeeds, so repeated
invocations are idempotent.`,
		Example: `  # Drop all metric views
  mvgen drop`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOperation(cmd, core.OperationDrop)
		},
	}

	return cmd
}

func runOperation(cmd *cobra.Command, operation string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	out := cmd.OutOrStdout()
	startTime := time.Now()

	if err := eng.Discover(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d artifacts\n", eng.GetGraph().NodeCount())

	var run *core.Run
	var runErr error
	switch operation {
	case core.OperationGenerate:
		run, runErr = eng.GenerateAll(cmd.Context())
	case core.OperationDrop:
		run, runErr = eng.DropAll(cmd.Context())
	}
	if run == nil {
		return runErr
	}

	printRunSummary(cmd, cmdCtx, run)
	fmt.Fprintf(out, "Completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return runErr
}

// printRunSummary prints per-artifact outcomes followed by the run status.
func printRunSummary(cmd *cobra.Command, cmdCtx *CommandContext, run *core.Run) {
	out := cmd.OutOrStdout()

	outcomes, err := cmdCtx.Engine.GetStateStore().GetArtifactRunsForRun(run.ID)
	if err != nil {
		cmdCtx.Logger.Error("failed to load artifact outcomes", "run_id", run.ID, "error", err)
	}

	var succeeded, skipped, failed int
	for _, o := range outcomes {
		switch o.Status {
		case core.ArtifactRunStatusSuccess:
			succeeded++
			fmt.Fprintf(out, "  ok      %-35s %s (%dms)\n", o.ArtifactPath, o.ViewName, o.ExecutionMS)
		case core.ArtifactRunStatusSkipped:
			skipped++
			if cmdCtx.Cfg.Verbose {
				fmt.Fprintf(out, "  skip    %s\n", o.ArtifactPath)
			}
		case core.ArtifactRunStatusFailed:
			failed++
			fmt.Fprintf(out, "  FAILED  %-35s %s\n", o.ArtifactPath, o.Error)
		}
	}

	fmt.Fprintf(out, "Run %s: %s (%d succeeded, %d skipped, %d failed)\n",
		run.ID, run.Status, succeeded, skipped, failed)
}
