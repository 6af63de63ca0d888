package tui

import (
	"github.com/Veraticus/dcb-calc/internal/calculator"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const appTitle = "DCB Opening Balance and Interest Calculator"

// renderLogin renders the sign-in screen centered in the terminal.
func (m Model) renderLogin() string {
	form := m.login.View()
	if m.login.Pending() {
		form = lipgloss.JoinVertical(lipgloss.Left, form, m.spinner.View()+" Signing in...")
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		form,
	)
}

// renderCalculator renders the upload and results screen.
func (m Model) renderCalculator() string {
	sections := []string{
		m.theme.Title.Render(appTitle),
		m.renderModeSwitch(),
		m.renderFileLine(),
	}

	switch m.calc.State() {
	case calculator.StateLoading:
		sections = append(sections, m.spinner.View()+" "+m.theme.Faint.Render("Calculating..."))
	case calculator.StateError:
		sections = append(sections, m.theme.StatusError.Render(m.calc.Error()))
	case calculator.StateDisplaying:
		sections = append(sections, m.results.View())
	case calculator.StateIdle:
		sections = append(sections, m.theme.Faint.Render("Press o to open an .xlsx or .xls spreadsheet."))
	}

	if m.downloading {
		sections = append(sections, m.spinner.View()+" "+m.theme.Faint.Render("Downloading..."))
	}
	if m.alert != "" {
		sections = append(sections, m.theme.StatusError.Render(m.alert))
	}
	if m.status != "" {
		sections = append(sections, m.theme.StatusSuccess.Render(m.status))
	}

	sections = append(sections, "", m.help.View(m.keymap))

	return m.theme.BorderedBox.
		Width(max(m.width-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderModeSwitch renders "Local Body [switch] Private" with the active side emphasised.
func (m Model) renderModeSwitch() string {
	local := m.theme.ModeInactive.Render(model.ModeLocalBody.Label())
	private := m.theme.ModeInactive.Render(model.ModePrivate.Label())
	knob := "(●  )"

	if m.calc.Mode() == model.ModePrivate {
		private = m.theme.ModeActive.Render(model.ModePrivate.Label())
		knob = "(  ●)"
	} else {
		local = m.theme.ModeActive.Render(model.ModeLocalBody.Label())
	}

	return local + " " + m.theme.Faint.Render(knob) + " " + private
}

// renderFileLine shows the path input while editing, otherwise the held file.
func (m Model) renderFileLine() string {
	if m.editingPath {
		return m.pathInput.View()
	}
	if file, ok := m.calc.File(); ok {
		return m.theme.Normal.Render("File: " + file.Name)
	}
	return m.theme.Faint.Render("File: none")
}
