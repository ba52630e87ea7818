package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Show the dependency graph",
		Long: `Display the dependency graph of all artifacts in topological
order, with each artifact's dependencies and dependents.`,
		Example: `  # Show the DAG
  mvgen dag`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDAG(cmd)
		},
	}

	return cmd
}

func runDAG(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	if err := eng.Discover(); err != nil {
		return err
	}

	graph := eng.GetGraph()
	sorted, err := graph.TopologicalSort()
	if err != nil {
		return fmt.Errorf("failed to sort graph: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Dependency Graph:")
	fmt.Fprintln(out)

	for _, node := range sorted {
		fmt.Fprintf(out, "  %s\n", node.ID)
		if deps := graph.GetParents(node.ID); len(deps) > 0 {
			fmt.Fprintf(out, "    depends on: %s\n", strings.Join(deps, ", "))
		}
		if children := graph.GetChildren(node.ID); len(children) > 0 {
			fmt.Fprintf(out, "    used by: %s\n", strings.Join(children, ", "))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d artifacts, %d dependencies\n", graph.NodeCount(), graph.EdgeCount())

	return nil
}
