package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/dcb-calc/internal/calculator"
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// signIn posts creds to the backend.
func (m Model) signIn(creds model.Credentials) tea.Cmd {
	backend, timeout := m.config.Backend, m.config.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := backend.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			slog.Debug("Login rejected", "username", creds.Username, "error", err)
		}
		return loginResultMsg{err: err}
	}
}

// readFile loads the spreadsheet at path.
func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := model.ReadSourceFile(path)
		return fileReadMsg{file: file, err: err}
	}
}

// compute runs req against the backend. The sequence number travels with
// the result so stale completions can be recognised.
func (m Model) compute(req calculator.Request) tea.Cmd {
	backend, timeout := m.config.Backend, m.config.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := backend.Compute(ctx, req.File, req.Mode)
		if err != nil {
			common.LogError(err, "Calculation failed", common.Fields{
				"file": req.File.Name,
				"mode": req.Mode.String(),
				"seq":  req.Seq,
			})
		}
		return computeResultMsg{seq: req.Seq, resp: resp, err: err}
	}
}

// debounce fires after the configured delay carrying tag.
func (m Model) debounce(tag uint64) tea.Cmd {
	return tea.Tick(m.config.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{tag: tag}
	})
}

// download fetches the regenerated spreadsheet and writes it to disk.
func (m Model) download(payload *model.UploadResponse) tea.Cmd {
	backend, timeout := m.config.Backend, m.config.RequestTimeout
	path := filepath.Join(m.config.DownloadDir, m.config.DownloadName)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := backend.Download(ctx, payload)
		if err != nil {
			return downloadResultMsg{err: err}
		}

		if err := writeDownload(path, data); err != nil {
			return downloadResultMsg{err: err}
		}
		return downloadResultMsg{path: path, size: len(data)}
	}
}

func writeDownload(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}
