package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var dropFlag bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the DDL statements without executing them",
		Long: `Render the CREATE OR REPLACE VIEW statements (or DROP statements
with --drop) that generate/drop would execute, without connecting to the
warehouse. Useful for review and CI diffs.`,
		Example: `  # Show the create statements
  mvgen render

  # Show the drop statements
  mvgen render --drop`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			operation := core.OperationGenerate
			if dropFlag {
				operation = core.OperationDrop
			}
			return runRender(cmd, operation)
		},
	}

	cmd.Flags().BoolVar(&dropFlag, "drop", false, "Render drop statements instead of create statements")

	return cmd
}

func runRender(cmd *cobra.Command, operation string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stmts, renderErr := cmdCtx.Engine.Render(operation)

	out := cmd.OutOrStdout()
	for i, stmt := range stmts {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "-- %s (%s)\n", stmt.ViewName, stmt.ArtifactPath)
		fmt.Fprintf(out, "%s;\n", stmt.SQL)
	}

	if renderErr != nil {
		return fmt.Errorf("render finished with errors: %w", renderErr)
	}
	if len(stmts) == 0 {
		fmt.Fprintln(out, "No enabled metric views found")
	}
	return nil
}
