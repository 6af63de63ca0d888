package cli

import (
	"strings"

	"github.com/Veraticus/dcb-calc/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderResults draws a calculation as a bordered table followed by the
// mode line and a boxed totals summary. Interest explanations are listed
// under the table for rows that carry overdue amounts.
func RenderResults(tbl render.Table, totals render.Totals) string {
	if tbl.Empty() {
		return SubtleStyle.Render("No rows returned.")
	}

	rows := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rows[i] = row.Texts()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(tbl.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if tbl.Rows[row].Cells[col].Highlight {
				return TableHighlightStyle
			}
			return TableCellStyle
		})

	var notes []string
	for _, row := range tbl.Rows {
		tip := row.Tooltip()
		if tip == render.NoInterestTooltip {
			continue
		}
		label := row.Cells[render.ColMonth].Text + " " + row.Cells[render.ColYear].Text
		notes = append(notes, SubtleStyle.Render("  "+label+": "+tip))
	}

	sections := []string{
		BoldStyle.Render("Mode: " + tbl.Mode.Label()),
		t.Render(),
	}
	if len(notes) > 0 {
		sections = append(sections, strings.Join(notes, "\n"))
	}
	sections = append(sections, RenderBox("Totals", lipgloss.JoinVertical(lipgloss.Left,
		BoldStyle.Render("Total WC Closing Balance: "+totals.ClosingBalance),
		BoldStyle.Render("Total Interest Closing Balance: "+totals.Interest),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
