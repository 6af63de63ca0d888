// Package tui implements the interactive terminal interface of the calculator.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/dcb-calc/internal/calculator"
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/gateway"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/render"
	"github.com/Veraticus/dcb-calc/internal/tui/components"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/labstack/gommon/bytes"
)

// ErrNoBackend is returned when the TUI is created without a backend.
var ErrNoBackend = errors.New("backend is required")

// Screen is the page currently shown.
type Screen int

const (
	// ScreenLogin is the sign-in form.
	ScreenLogin Screen = iota
	// ScreenCalculator is the upload and results page.
	ScreenCalculator
)

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	calc        *calculator.Controller
	config      Config
	keymap      KeyMap
	help        help.Model
	spinner     spinner.Model
	pathInput   textinput.Model
	login       components.LoginModel
	results     components.ResultsModel
	status      string
	alert       string
	auth        model.AuthState
	screen      Screen
	width       int
	height      int
	editingPath bool
	downloading bool
	quitting    bool
}

// New creates the TUI model.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Backend == nil {
		return Model{}, ErrNoBackend
	}

	return newModel(cfg), nil
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spin.Style.Foreground(cfg.Theme.Primary)

	path := textinput.New()
	path.Placeholder = "path/to/ledger.xlsx"
	path.Prompt = "File: "
	path.CharLimit = 4096

	m := Model{
		theme:     cfg.Theme,
		calc:      calculator.New(cfg.Mode),
		config:    cfg,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		spinner:   spin,
		pathInput: path,
		login:     components.NewLoginModel(cfg.Theme),
		results:   components.NewResultsModel(cfg.Theme),
		auth:      model.Anonymous,
		screen:    ScreenLogin,
		width:     cfg.Width,
		height:    cfg.Height,
	}

	if !cfg.RequireLogin {
		m.screen = ScreenCalculator
	}

	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if m.screen == ScreenCalculator && m.config.InitialFile != "" {
		cmds = append(cmds, readFile(m.config.InitialFile))
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.screen == ScreenLogin {
			return m.updateLogin(msg)
		}
		return m.handleCalculatorKeys(msg)

	case components.LoginSubmitMsg:
		return m, tea.Batch(m.signIn(msg.Credentials), m.spinner.Tick)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case fileReadMsg:
		return m.handleFileRead(msg)

	case debounceMsg:
		if req, ok := m.calc.DebounceElapsed(msg.tag); ok {
			return m, m.compute(req)
		}
		return m, nil

	case computeResultMsg:
		m.handleComputeResult(msg)
		return m, nil

	case downloadResultMsg:
		m.handleDownloadResult(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.calc.Loading() && !m.login.Pending() && !m.downloading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.screen == ScreenLogin {
		return m.updateLogin(msg)
	}
	if m.editingPath {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.screen == ScreenLogin {
		return m.renderLogin()
	}
	return m.renderCalculator()
}

// Auth returns whether the user has signed in.
func (m Model) Auth() model.AuthState {
	return m.auth
}

// Screen returns the page currently shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Calculator exposes the view state for inspection.
func (m Model) Calculator() *calculator.Controller {
	return m.calc
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.auth = model.Anonymous
		m.login.SetError(common.UserMessage(msg.err))
		return m, nil
	}

	m.auth = model.Authenticated
	m.login.SetPending(false)
	m.screen = ScreenCalculator

	if m.config.InitialFile != "" {
		if _, held := m.calc.File(); !held {
			return m, readFile(m.config.InitialFile)
		}
	}
	return m, nil
}

func (m Model) handleCalculatorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingPath {
		return m.handlePathKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Open):
		m.editingPath = true
		m.alert = ""
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keymap.ToggleMode):
		m.status = ""
		tag, ok := m.calc.ToggleMode()
		if !ok {
			return m, nil
		}
		m.results.Clear()
		return m, tea.Batch(m.spinner.Tick, m.debounce(tag))

	case key.Matches(msg, m.keymap.Download):
		return m.startDownload()

	case key.Matches(msg, m.keymap.Logout):
		return m.logout()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m Model) handlePathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editingPath = false
		m.pathInput.Blur()
		return m, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		if !model.IsSpreadsheet(path) {
			m.alert = fmt.Sprintf("Only %s files are accepted", strings.Join(model.SpreadsheetExtensions, "/"))
			return m, nil
		}
		m.editingPath = false
		m.pathInput.Blur()
		return m, readFile(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleFileRead(msg fileReadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.alert = msg.err.Error()
		return m, nil
	}

	m.alert = ""
	m.status = ""
	m.results.Clear()
	req := m.calc.SelectFile(msg.file)
	return m, tea.Batch(m.spinner.Tick, m.compute(req))
}

func (m *Model) handleComputeResult(msg computeResultMsg) {
	if !m.calc.Complete(msg.seq, msg.resp, msg.err) {
		return
	}

	resp, _, ok := m.calc.Result()
	if !ok {
		m.results.Clear()
		return
	}
	m.results.SetData(m.calc.Table(), render.Summarize(*resp))
	m.handleResize()
}

func (m Model) startDownload() (tea.Model, tea.Cmd) {
	if m.downloading {
		return m, nil
	}

	payload, ok := m.calc.DownloadPayload()
	if !ok {
		return m, nil
	}

	m.downloading = true
	m.alert = ""
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.download(payload))
}

func (m *Model) handleDownloadResult(msg downloadResultMsg) {
	m.downloading = false

	if msg.err != nil {
		m.alert = common.UserMessage(msg.err)
		return
	}
	m.status = fmt.Sprintf("Saved %s (%s)", msg.path, bytes.Format(int64(msg.size)))
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if !m.config.RequireLogin {
		return m, nil
	}

	if session, ok := m.config.Backend.(gateway.SessionResetter); ok {
		session.ResetSession()
	}

	m.auth = model.Anonymous
	m.screen = ScreenLogin
	m.calc.Reset()
	m.results.Clear()
	m.alert = ""
	m.status = ""
	return m, m.login.Reset()
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	m.login.Resize(m.width)
	m.help.Width = m.width
	m.pathInput.Width = max(m.width-12, 20)

	// title, mode switch, file line, message line, help and borders
	const reserved = 10
	m.results.Resize(m.width-4, max(m.height-reserved, 0))
}
