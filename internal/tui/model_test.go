package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/dcb-calc/internal/calculator"
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/render"
	"github.com/Veraticus/dcb-calc/internal/tui/components"
	tuitest "github.com/Veraticus/dcb-calc/internal/tui/testing"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type computeCall struct {
	file string
	mode model.Mode
}

// fakeBackend answers with one fixed entry per file; the closing balance
// encodes the file so tests can tell results apart.
type fakeBackend struct {
	computeErr    error
	downloadErr   error
	users         map[string]string
	closing       map[string]float64
	downloadData  []byte
	computeCalls  []computeCall
	downloadCalls int
	sessionResets int
	mu            sync.Mutex
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:        map[string]string{"clerk": "secret"},
		closing:      map[string]float64{"jan.xlsx": 1500, "feb.xlsx": 2500},
		downloadData: []byte("PK\x03\x04regenerated"),
	}
}

func (f *fakeBackend) Login(_ context.Context, username, password string) error {
	if want, ok := f.users[username]; !ok || want != password {
		return common.NewUserError("Invalid credentials", common.ErrAuth)
	}
	return nil
}

func (f *fakeBackend) Compute(_ context.Context, file model.SourceFile, mode model.Mode) (*model.UploadResponse, error) {
	f.mu.Lock()
	f.computeCalls = append(f.computeCalls, computeCall{file: file.Name, mode: mode})
	f.mu.Unlock()

	if f.computeErr != nil {
		return nil, f.computeErr
	}

	closing := f.closing[file.Name]
	return &model.UploadResponse{
		Results: []model.ResultEntry{{
			Month: 1, Year: 2024, Demand: 1000, OpeningBalance: 500,
			ClosingBalance: closing, OverdueAmount: 0, Interest: 0,
		}},
		TotalClosingBalance: closing,
		TotalInterest:       0,
	}, nil
}

func (f *fakeBackend) Download(_ context.Context, _ *model.UploadResponse) ([]byte, error) {
	f.mu.Lock()
	f.downloadCalls++
	f.mu.Unlock()

	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.downloadData, nil
}

func (f *fakeBackend) ResetSession() {
	f.mu.Lock()
	f.sessionResets++
	f.mu.Unlock()
}

func (f *fakeBackend) calls() []computeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]computeCall(nil), f.computeCalls...)
}

func newTestModel(t *testing.T, backend *fakeBackend, opts ...Option) Model {
	t.Helper()

	base := []Option{
		WithBackend(backend),
		WithDebounce(5 * time.Millisecond),
		WithDownload(t.TempDir(), "interest_calculation.xlsx"),
		WithSize(240, 60),
	}

	m, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// pump runs cmd and feeds every resulting message back into the model
// until no work is left. Spinner frames are dropped.
func pump(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := tuitest.Collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}

		var next tea.Cmd
		m, next = update(m, msg)
		queue = append(queue, tuitest.Collect(next)...)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, msg := range tuitest.TypeText(text) {
		m, _ = update(m, msg)
	}
	return m
}

func writeSpreadsheet(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04"+name), 0o600))
	return path
}

// openFile drives the path input the way a user would.
func openFile(t *testing.T, m Model, path string) Model {
	t.Helper()

	m, _ = update(m, tuitest.KeyPress("o"))
	require.True(t, m.editingPath)
	m = typeText(m, path)

	m, cmd := update(m, tuitest.KeyEnter())
	return pump(t, m, cmd)
}

func view(m Model) string {
	return tuitest.StripANSI(m.View())
}

func TestNew_RequiresBackend(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestLogin_Success(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Equal(t, model.Anonymous, m.Auth())
	assert.Contains(t, view(m), "Sign in")

	m = typeText(m, "clerk")
	m, _ = update(m, tuitest.KeyTab())
	m = typeText(m, "secret")

	m, cmd := update(m, tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.True(t, m.login.Pending())
	assert.Contains(t, view(m), "Signing in...")

	m = pump(t, m, cmd)
	assert.Equal(t, ScreenCalculator, m.Screen())
	assert.Equal(t, model.Authenticated, m.Auth())
	assert.Contains(t, view(m), appTitle)
}

func TestLogin_WrongCredentials(t *testing.T) {
	m := newTestModel(t, newFakeBackend())

	m = typeText(m, "clerk")
	m, _ = update(m, tuitest.KeyTab())
	m = typeText(m, "guess")

	m, cmd := update(m, tuitest.KeyEnter())
	m = pump(t, m, cmd)

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Equal(t, model.Anonymous, m.Auth())
	assert.Equal(t, "Invalid credentials", m.login.Error())
	assert.False(t, m.login.Pending())
	assert.Contains(t, view(m), "Invalid credentials")
}

func TestLogin_MissingFields(t *testing.T) {
	m := newTestModel(t, newFakeBackend())

	m = typeText(m, "clerk")
	m, _ = update(m, tuitest.KeyTab())

	m, cmd := update(m, tuitest.KeyEnter())
	assert.Nil(t, cmd, "no login request without a password")
	assert.Equal(t, components.MsgMissingCredentials, m.login.Error())
}

func TestCalculator_UploadScenario(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	m = openFile(t, m, writeSpreadsheet(t, "jan.xlsx"))

	require.Equal(t, calculator.StateDisplaying, m.Calculator().State())
	assert.Equal(t, []computeCall{{file: "jan.xlsx", mode: model.ModeLocalBody}}, backend.calls())

	out := view(m)
	assert.Contains(t, out, "Mode: Local Body")
	assert.Contains(t, out, "January")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, render.NoInterestTooltip)
	assert.True(t, tuitest.ContainsInOrder(out,
		"Total WC Closing Balance: Rs 1,500/-",
		"Total Interest Closing Balance: Rs 0/-",
	))
	assert.Equal(t, render.NoInterestTooltip, m.results.Tooltip())
}

func TestCalculator_RejectsNonSpreadsheet(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	m, _ = update(m, tuitest.KeyPress("o"))
	m = typeText(m, "notes.csv")
	m, cmd := update(m, tuitest.KeyEnter())

	assert.Nil(t, cmd)
	assert.Contains(t, view(m), "Only .xlsx/.xls files are accepted")
	assert.Empty(t, backend.calls())
}

func TestCalculator_EscapeLeavesPathInput(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	m, _ = update(m, tuitest.KeyPress("o"))
	require.True(t, m.editingPath)
	m = typeText(m, "jan.xlsx")

	m, cmd := update(m, tuitest.KeyEsc())
	assert.Nil(t, cmd)
	assert.False(t, m.editingPath)
	assert.Equal(t, calculator.StateIdle, m.Calculator().State())
	assert.Empty(t, backend.calls())
}

func TestCalculator_ModeToggleDebounce(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))
	m = openFile(t, m, writeSpreadsheet(t, "jan.xlsx"))
	require.Len(t, backend.calls(), 1)

	var cmds []tea.Cmd
	for i := 0; i < 3; i++ {
		var cmd tea.Cmd
		m, cmd = update(m, tuitest.KeyPress("m"))
		cmds = append(cmds, cmd)
	}
	assert.True(t, m.Calculator().Loading())
	assert.Contains(t, view(m), "Calculating...")

	for _, cmd := range cmds {
		m = pump(t, m, cmd)
	}

	calls := backend.calls()
	require.Len(t, calls, 2, "one upload plus exactly one recompute")
	assert.Equal(t, computeCall{file: "jan.xlsx", mode: model.ModePrivate}, calls[1])
	assert.Contains(t, view(m), "Mode: Private")
}

func TestCalculator_ToggleWithoutFile(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	m, cmd := update(m, tuitest.KeyPress("m"))
	assert.Nil(t, cmd)
	assert.Equal(t, model.ModePrivate, m.Calculator().Mode())
	assert.Empty(t, backend.calls())
}

func TestCalculator_StaleResponseDiscarded(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	jan := model.SourceFile{Name: "jan.xlsx", Content: []byte("jan")}
	feb := model.SourceFile{Name: "feb.xlsx", Content: []byte("feb")}

	m, slow := update(m, fileReadMsg{file: jan})
	m, fast := update(m, fileReadMsg{file: feb})

	m = pump(t, m, fast)
	m = pump(t, m, slow)

	out := view(m)
	assert.Contains(t, out, "Rs 2,500/-")
	assert.NotContains(t, out, "Rs 1,500/-")

	closing, _, ok := m.Calculator().Totals()
	require.True(t, ok)
	assert.Equal(t, 2500.0, closing)
}

func TestCalculator_ComputeError(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))
	m = openFile(t, m, writeSpreadsheet(t, "jan.xlsx"))
	require.Contains(t, view(m), "January")

	backend.computeErr = common.NewUserError("Failed to process file", fmt.Errorf("%w: status 500", common.ErrUpload))
	m = openFile(t, m, writeSpreadsheet(t, "feb.xlsx"))

	out := view(m)
	assert.Equal(t, calculator.StateError, m.Calculator().State())
	assert.Contains(t, out, "Failed to process file")
	assert.NotContains(t, out, "January", "no stale table after a failure")
}

func TestCalculator_MissingFile(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), WithRequireLogin(false))

	m = openFile(t, m, filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Contains(t, view(m), "failed to read")
	assert.Equal(t, calculator.StateIdle, m.Calculator().State())
}

func TestDownload_NoResultIsNoop(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithRequireLogin(false))

	m, cmd := update(m, tuitest.KeyPress("d"))
	assert.Nil(t, cmd)
	assert.False(t, m.downloading)
	assert.Equal(t, 0, backend.downloadCalls)
}

func TestDownload_Success(t *testing.T) {
	backend := newFakeBackend()
	dir := t.TempDir()
	m := newTestModel(t, backend, WithRequireLogin(false), WithDownload(dir, "interest_calculation.xlsx"))
	m = openFile(t, m, writeSpreadsheet(t, "jan.xlsx"))

	m, cmd := update(m, tuitest.KeyPress("d"))
	require.NotNil(t, cmd)
	m = pump(t, m, cmd)

	assert.Equal(t, 1, backend.downloadCalls)
	data, err := os.ReadFile(filepath.Join(dir, "interest_calculation.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, backend.downloadData, data)
	assert.Contains(t, view(m), "Saved")
}

func TestDownload_FailureKeepsTable(t *testing.T) {
	backend := newFakeBackend()
	backend.downloadErr = common.NewUserError("Failed to download file", common.ErrDownload)
	m := newTestModel(t, backend, WithRequireLogin(false))
	m = openFile(t, m, writeSpreadsheet(t, "jan.xlsx"))

	m, cmd := update(m, tuitest.KeyPress("d"))
	m = pump(t, m, cmd)

	out := view(m)
	assert.Contains(t, out, "Failed to download file")
	assert.Contains(t, out, "January")
	assert.Equal(t, calculator.StateDisplaying, m.Calculator().State())
}

func TestLogout(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend)
	m, _ = update(m, loginResultMsg{})
	require.Equal(t, model.Authenticated, m.Auth())

	m, _ = update(m, tuitest.KeyPress("L"))
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Equal(t, model.Anonymous, m.Auth())
	assert.Equal(t, 1, backend.sessionResets, "logout discards the backend session")
}

func TestResize(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), WithRequireLogin(false))

	m, cmd := update(m, tuitest.WindowSize(80, 20))
	assert.Nil(t, cmd)
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 20, m.height)
	assert.Equal(t, 68, m.pathInput.Width)

	out := tuitest.NormalizeWhitespace(view(m))
	assert.Contains(t, out, "Local Body (● ) Private")
	assert.Contains(t, out, "Press o to open an .xlsx or .xls spreadsheet.")

	m, _ = update(m, tuitest.WindowSize(10, 5))
	assert.Equal(t, 20, m.pathInput.Width, "path input keeps a usable width")
}

func TestInitialFileAfterLogin(t *testing.T) {
	backend := newFakeBackend()
	m := newTestModel(t, backend, WithInitialFile(writeSpreadsheet(t, "jan.xlsx")))

	m, cmd := update(m, loginResultMsg{})
	m = pump(t, m, cmd)

	assert.Equal(t, calculator.StateDisplaying, m.Calculator().State())
	assert.Len(t, backend.calls(), 1)
}

func TestForceQuit(t *testing.T) {
	m := newTestModel(t, newFakeBackend())

	m, cmd := update(m, tuitest.KeyCtrlC())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
