package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show run history",
		Long: `Show recent generate/drop runs from the state database. Pass a
run ID to show the per-artifact outcomes of that run.`,
		Example: `  # Show the last 20 runs
  mvgen runs

  # Show the last 5 runs
  mvgen runs --limit 5

  # Show artifact outcomes for one run
  mvgen runs 4f7a2c1e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(cmd, args[0])
			}
			return runListRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func runListRuns(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := cmdCtx.Engine.GetStateStore().GetRecentRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Operation", "Environment", "Status", "Started", "Duration"})

	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			r.ID,
			r.Operation,
			r.Environment,
			string(r.Status),
			r.StartedAt.Format(time.RFC3339),
			duration,
		})
	}

	t.Render()
	return nil
}

func runShowRun(cmd *cobra.Command, runID string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.GetStateStore()
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %s %s (%s)\n", run.ID, run.Operation, run.Environment, run.Status)
	if run.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", run.Error)
	}

	outcomes, err := store.GetArtifactRunsForRun(runID)
	if err != nil {
		return fmt.Errorf("failed to load artifact outcomes: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Artifact", "View", "Status", "Exec (ms)", "Error"})

	for _, o := range outcomes {
		t.AppendRow(table.Row{o.ArtifactPath, o.ViewName, string(o.Status), o.ExecutionMS, o.Error})
	}

	t.Render()
	return nil
}
