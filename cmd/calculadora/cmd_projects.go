package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var tableCellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List OpenProject projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := newSource(cfg, log)
		if err != nil {
			return err
		}
		projects, err := source.ListProjects(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable("ID", "Identifier", "Name")
		for _, p := range projects {
			t.Row(p.ID, p.Identifier, p.Name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		fmt.Fprintf(cmd.OutOrStdout(), "%d project(s)\n", len(projects))
		return nil
	},
}
