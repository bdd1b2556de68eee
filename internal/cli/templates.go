package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackreport/pkg/render/templates"
)

// templatesCommand creates the templates command.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect or export the page templates",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesDumpCommand())

	return cmd
}

// loadTemplates returns the store selected by --templates or the config.
func (c *CLI) loadTemplates(cmd *cobra.Command, dir string) (*templates.Store, error) {
	if !cmd.Flags().Changed("templates") {
		dir = c.cfg.Render.TemplateDir
	}
	if dir == "" {
		return templates.Default()
	}
	return templates.Load(dir)
}

// templatesListCommand creates the "templates list" subcommand.
func (c *CLI) templatesListCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the six templates and where they come from",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadTemplates(cmd, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), templatesTable(store))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "templates", "", "directory with override templates")
	return cmd
}

func templatesTable(store *templates.Store) string {
	rows := make([][]string, len(templates.All))
	for i, id := range templates.All {
		src := store.Source(id)
		rows[i] = []string{id.String(), id.FileName(), strconv.Itoa(strings.Count(src, "\n")), strconv.Itoa(len(src))}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Template", "File", "Lines", "Bytes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleValue
		})

	return t.Render() + "\n" + StyleDim.Render("origin: "+store.Origin())
}

// templatesDumpCommand creates the "templates dump" subcommand.
func (c *CLI) templatesDumpCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "dump <dir>",
		Short: "Write the templates to a directory for editing",
		Long: `Write the six templates into dir. The directory can then be passed to
render --templates (or set as render.template_dir) after editing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadTemplates(cmd, dir)
			if err != nil {
				return err
			}
			if err := store.Dump(args[0]); err != nil {
				return err
			}
			printSuccess("Wrote %d templates from %s", len(templates.All), store.Origin())
			for _, id := range templates.All {
				printFile(id.FileName())
			}
			printNextStep("Render with them", "stackreport render --templates "+args[0]+" report.json")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "templates", "", "directory with override templates")
	return cmd
}
