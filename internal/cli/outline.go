package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackreport/pkg/report"
)

// maxSummary caps the summary column width in runes.
const maxSummary = 48

// outlineEntry is one report node in depth-first order.
type outlineEntry struct {
	Depth   int
	Path    string // same form as render error paths, e.g. root/children[1]
	Kind    string
	Summary string
	Node    report.Node
}

// flattenOutline lists n and its descendants in render order.
func flattenOutline(n report.Node) []outlineEntry {
	var out []outlineEntry
	var walk func(n report.Node, path string, depth int)
	walk = func(n report.Node, path string, depth int) {
		kind, summary := describe(n)
		out = append(out, outlineEntry{Depth: depth, Path: path, Kind: kind, Summary: summary, Node: n})
		switch v := n.(type) {
		case *report.Branch:
			for i, c := range v.Children {
				walk(c, fmt.Sprintf("%s/children[%d]", path, i), depth+1)
			}
		case *report.Table:
			for i, row := range v.Rows {
				for j, c := range row {
					walk(c, fmt.Sprintf("%s/rows[%d][%d]", path, i, j), depth+1)
				}
			}
		}
	}
	if n != nil {
		walk(n, "root", 0)
	}
	return out
}

// describe returns a node's kind and a one-line summary.
func describe(n report.Node) (string, string) {
	switch v := n.(type) {
	case *report.Line:
		return "line", truncate(v.Value.String())
	case *report.Multiline:
		return "multiline", truncate(strings.Join(report.Strings(v.Values), " "))
	case *report.Branch:
		return "branch", truncate(strings.Join(report.Strings(v.Label), " "))
	case *report.Table:
		return "table", fmt.Sprintf("%d rows · %s", len(v.Rows), truncate(strings.Join(report.Strings(v.Headings), ", ")))
	case *report.Plot:
		return "plot", fmt.Sprintf("%d points · %s", len(v.Points), truncate(strings.Join(report.Strings(v.Heading), ", ")))
	case *report.Graph:
		return "graph", fmt.Sprintf("%d nodes · %d edges · %d clusters", len(v.Nodes), len(v.Edges), len(v.Subgraphs))
	default:
		return fmt.Sprintf("%T", n), ""
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxSummary {
		return s
	}
	return string(r[:maxSummary-1]) + "…"
}

// outlineCommand creates the outline command.
func (c *CLI) outlineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <document.json|->",
		Short: "Print the node tree of a document",
		Long: `Print every node of a document with its path, kind and a summary.

Paths match the ones reported in render errors, so a failing node can be
located quickly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outlineTable(flattenOutline(doc.Root)))
			return nil
		},
	}
}

// outlineTable renders entries as an indented table.
func outlineTable(entries []outlineEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strings.Repeat("  ", e.Depth) + e.Kind, e.Summary, e.Path}
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("NODE", "SUMMARY", "PATH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return StyleTitle
			case col == 2:
				return StyleDim
			default:
				return StyleValue
			}
		}).
		Render()
}
