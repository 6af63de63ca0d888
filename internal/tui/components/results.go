package components

import (
	"github.com/Veraticus/dcb-calc/internal/render"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ResultsModel shows a calculation with a row cursor. The interest tooltip
// of the cursor row is shown beneath the table.
type ResultsModel struct {
	theme  themes.Theme
	table  render.Table
	totals render.Totals
	cursor int
	offset int
	width  int
	height int
}

// NewResultsModel creates an empty results view.
func NewResultsModel(theme themes.Theme) ResultsModel {
	return ResultsModel{theme: theme}
}

// SetData replaces the displayed calculation and moves the cursor to the top.
func (m *ResultsModel) SetData(tbl render.Table, totals render.Totals) {
	m.table = tbl
	m.totals = totals
	m.cursor = 0
	m.offset = 0
}

// Clear removes the displayed calculation.
func (m *ResultsModel) Clear() {
	m.SetData(render.Table{}, render.Totals{})
}

// Empty reports whether there is a table to show.
func (m ResultsModel) Empty() bool {
	return m.table.Empty()
}

// Cursor returns the index of the selected row.
func (m ResultsModel) Cursor() int {
	return m.cursor
}

// Tooltip returns the interest explanation for the selected row.
func (m ResultsModel) Tooltip() string {
	if m.table.Empty() {
		return ""
	}
	return m.table.Rows[m.cursor].Tooltip()
}

// Resize sets the available space.
func (m *ResultsModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToCursor()
}

// Update handles cursor movement.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	if m.table.Empty() {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		last := len(m.table.Rows) - 1
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, last)
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = last
		case "pgup":
			m.cursor = max(m.cursor-m.visibleRows(), 0)
		case "pgdown":
			m.cursor = min(m.cursor+m.visibleRows(), last)
		}
		m.scrollToCursor()
	}

	return m, nil
}

// View renders the mode label, the table, the tooltip line and the totals.
func (m ResultsModel) View() string {
	if m.table.Empty() {
		return ""
	}

	modeLine := m.theme.Bold.Render("Mode: " + m.table.Mode.Label())

	tooltip := m.theme.Tooltip.Render("ⓘ " + m.Tooltip())

	totals := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Total WC Closing Balance: "+m.totals.ClosingBalance),
		m.theme.Bold.Render("Total Interest Closing Balance: "+m.totals.Interest),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		modeLine,
		m.renderTable(),
		tooltip,
		"",
		totals,
	)
}

func (m ResultsModel) renderTable() string {
	end := min(m.offset+m.visibleRows(), len(m.table.Rows))
	window := m.table.Rows[m.offset:end]

	rows := make([][]string, len(window))
	for i, row := range window {
		rows[i] = row.Texts()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers(m.table.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.theme.Header
			}
			index := m.offset + row
			cell := m.table.Rows[index].Cells[col]
			switch {
			case cell.Highlight:
				return m.theme.Highlighted
			case index == m.cursor:
				return m.theme.Selected
			default:
				return m.theme.Cell
			}
		})

	if m.width > 0 {
		t = t.Width(m.width)
	}

	return t.Render()
}

// visibleRows is the number of table rows that fit in the view.
func (m ResultsModel) visibleRows() int {
	// mode line, header and borders, tooltip, blank line, two totals
	const chrome = 9
	if m.height <= chrome {
		return max(len(m.table.Rows), 1)
	}
	return m.height - chrome
}

func (m *ResultsModel) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
