package tui

import (
	"time"

	"github.com/Veraticus/dcb-calc/internal/gateway"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Backend        gateway.Backend
	Mode           model.Mode
	DownloadDir    string
	DownloadName   string
	InitialFile    string
	Debounce       time.Duration
	RequestTimeout time.Duration
	Width          int
	Height         int
	RequireLogin   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Mode:           model.DefaultMode,
		DownloadDir:    ".",
		DownloadName:   "interest_calculation.xlsx",
		Debounce:       time.Second,
		RequestTimeout: 2 * time.Minute,
		Width:          100,
		Height:         30,
		RequireLogin:   true,
	}
}

// WithBackend sets the calculation backend.
func WithBackend(backend gateway.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMode sets the starting calculation mode.
func WithMode(mode model.Mode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithDebounce sets how long mode changes settle before recomputing.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithDownload sets where downloaded spreadsheets are written.
func WithDownload(dir, filename string) Option {
	return func(c *Config) {
		c.DownloadDir = dir
		c.DownloadName = filename
	}
}

// WithRequireLogin controls whether the login screen is shown first.
func WithRequireLogin(required bool) Option {
	return func(c *Config) {
		c.RequireLogin = required
	}
}

// WithInitialFile uploads path as soon as the calculator opens.
func WithInitialFile(path string) Option {
	return func(c *Config) {
		c.InitialFile = path
	}
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}
