package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mvgen/internal/metricview"
	"github.com/leapstack-labs/mvgen/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all artifacts and their metric view status",
		Long: `List every discovered artifact with its relation identity and
resolved metric view metadata. The metadata column shows where the
winning metric view config came from (inline frontmatter or an external
properties document).`,
		Example: `  # List all artifacts
  mvgen list`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	if err := eng.Discover(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Artifact", "Kind", "Relation", "Metric View", "Metadata"})

	var views int
	for _, node := range eng.GetGraph().GetAllNodes() {
		a := node.Artifact

		viewName := "-"
		metaSource := "-"
		if a.Kind == core.ResourceKindModel {
			spec, enabled, err := metricview.Resolve(a)
			switch {
			case err != nil:
				viewName = "(invalid)"
				metaSource = err.Error()
			case enabled:
				views++
				viewName = metricview.QualifiedViewName(a.Catalog, a.Schema, spec.Name)
				if a.InlineMeta != nil && a.InlineMeta.Enabled {
					metaSource = "inline"
				} else {
					metaSource = "external"
				}
			}
		}

		t.AppendRow(table.Row{a.Path, string(a.Kind), a.SourceRef(), viewName, metaSource})
	}

	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d artifacts, %d enabled metric views\n",
		eng.GetGraph().NodeCount(), views)

	return nil
}
