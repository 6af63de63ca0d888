package components

import (
	"strings"

	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
)

// MsgMissingCredentials is shown when the form is submitted incomplete.
const MsgMissingCredentials = "Username and password are required"

const (
	fieldUsername = iota
	fieldPassword
)

// LoginModel is the sign-in form.
type LoginModel struct {
	theme    themes.Theme
	validate *validator.Validate
	inputs   []textinput.Model
	err      string
	focus    int
	width    int
	pending  bool
}

// NewLoginModel creates the sign-in form with the username field focused.
func NewLoginModel(theme themes.Theme) LoginModel {
	username := textinput.New()
	username.Placeholder = "Enter username"
	username.Prompt = "Username  "
	username.CharLimit = 128
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Enter password"
	password.Prompt = "Password  "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		theme:    theme,
		validate: validator.New(),
		inputs:   []textinput.Model{username, password},
		focus:    fieldUsername,
	}
}

// Update handles messages.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			return m, m.setFocus(1 - m.focus)
		case "enter":
			if m.focus == fieldUsername {
				return m, m.setFocus(fieldPassword)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the form.
func (m LoginModel) View() string {
	sections := []string{
		m.theme.Title.Render("Sign in"),
		m.theme.Subtitle.Render("Access your interest calculator"),
		"",
	}

	if m.err != "" {
		sections = append(sections, m.theme.StatusError.Render(m.err), "")
	}

	for _, input := range m.inputs {
		sections = append(sections, input.View())
	}

	button := "Login"
	if m.pending {
		button = "Signing in..."
	}
	sections = append(sections,
		"",
		m.theme.Button.Render(button),
		"",
		m.theme.Faint.Render("Forgot your password? Contact admin"),
	)

	box := m.theme.RoundedBox
	if m.width > 0 {
		box = box.Width(min(m.width-4, 60))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Credentials returns the entered values.
func (m LoginModel) Credentials() model.Credentials {
	return model.Credentials{
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
}

// SetPending marks a login request as in flight.
func (m *LoginModel) SetPending(pending bool) {
	m.pending = pending
	if pending {
		m.err = ""
	}
}

// SetError shows a login failure and clears the pending state.
func (m *LoginModel) SetError(msg string) {
	m.err = msg
	m.pending = false
}

// Error returns the displayed error text.
func (m LoginModel) Error() string {
	return m.err
}

// Pending reports whether a login request is in flight.
func (m LoginModel) Pending() bool {
	return m.pending
}

// Reset clears the form for a new sign-in.
func (m *LoginModel) Reset() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.err = ""
	m.pending = false
	return m.setFocus(fieldUsername)
}

// Resize sets the available width.
func (m *LoginModel) Resize(width int) {
	m.width = width
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}

	creds := m.Credentials()
	if err := m.validate.Struct(creds); err != nil {
		m.err = MsgMissingCredentials
		return m, nil
	}

	m.pending = true
	m.err = ""
	return m, func() tea.Msg {
		return LoginSubmitMsg{Credentials: creds}
	}
}

func (m *LoginModel) setFocus(field int) tea.Cmd {
	m.focus = field
	for i := range m.inputs {
		if i != field {
			m.inputs[i].Blur()
		}
	}
	return m.inputs[field].Focus()
}
