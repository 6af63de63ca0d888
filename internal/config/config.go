// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Environment is the build/run signal that selects the backend address.
type Environment string

const (
	// Development talks to a backend running next to the client.
	Development Environment = "development"
	// Production talks to the backend on the configured origin.
	Production Environment = "production"
)

const (
	// DevelopmentBaseURL is the backend root used in development.
	DevelopmentBaseURL = "http://localhost:8080/intCalc/"
	// DefaultOrigin is the production origin when none is configured.
	DefaultOrigin = "http://localhost:8080"
	// ServicePath is the path the backend is mounted under.
	ServicePath = "/intCalc/"
	// DefaultDownloadName is the filename offered for regenerated spreadsheets.
	DefaultDownloadName = "interest_calculation.xlsx"
)

// Config is the resolved application configuration.
type Config struct {
	Environment Environment      `yaml:"environment" validate:"oneof=development production"`
	Backend     BackendConfig    `yaml:"backend"`
	Auth        AuthConfig       `yaml:"auth"`
	Calculator  CalculatorConfig `yaml:"calculator"`
	Download    DownloadConfig   `yaml:"download"`
	TUI         TUIConfig        `yaml:"tui"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// BackendConfig locates the calculation service.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Origin  string        `yaml:"origin"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// AuthConfig holds login settings.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"-"`
	Required bool   `yaml:"required"`
}

// CalculatorConfig holds view-state settings.
type CalculatorConfig struct {
	Mode     model.Mode    `yaml:"mode" validate:"oneof=localbody private"`
	Debounce time.Duration `yaml:"debounce" validate:"gt=0"`
}

// DownloadConfig controls where regenerated spreadsheets are written.
type DownloadConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Filename string `yaml:"filename" validate:"required"`
}

// TUIConfig holds interactive UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
	File   string `yaml:"file"`
}

// SetDefaults registers default values on v.
// env is the environment baked in at build time.
func SetDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("environment", string(env))
	v.SetDefault("backend.origin", DefaultOrigin)
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("auth.required", true)
	v.SetDefault("calculator.mode", string(model.DefaultMode))
	v.SetDefault("calculator.debounce", time.Second)
	v.SetDefault("download.dir", ".")
	v.SetDefault("download.filename", DefaultDownloadName)
	v.SetDefault("tui.theme", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	env := Environment(strings.ToLower(v.GetString("environment")))

	mode, err := model.ParseMode(v.GetString("calculator.mode"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	baseURL, err := ResolveBaseURL(env, v.GetString("backend.origin"), v.GetString("backend.base_url"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: env,
		Backend: BackendConfig{
			BaseURL: baseURL,
			Origin:  v.GetString("backend.origin"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Auth: AuthConfig{
			Username: v.GetString("auth.username"),
			Password: v.GetString("auth.password"),
			Required: v.GetBool("auth.required"),
		},
		Calculator: CalculatorConfig{
			Mode:     mode,
			Debounce: v.GetDuration("calculator.debounce"),
		},
		Download: DownloadConfig{
			Dir:      ExpandPath(v.GetString("download.dir")),
			Filename: v.GetString("download.filename"),
		},
		TUI: TUIConfig{
			Theme: v.GetString("tui.theme"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// IsProduction returns true when the client targets the production backend.
func (c *Config) IsProduction() bool {
	return c != nil && c.Environment == Production
}

// ResolveBaseURL returns the backend root for env.
// An explicit override wins over the environment. The result always ends in a slash.
func ResolveBaseURL(env Environment, origin, override string) (string, error) {
	var raw string

	switch {
	case override != "":
		raw = override
	case env == Development:
		raw = DevelopmentBaseURL
	case env == Production:
		if origin == "" {
			origin = DefaultOrigin
		}
		raw = strings.TrimRight(origin, "/") + ServicePath
	default:
		return "", fmt.Errorf("%w: environment %q (expected %q or %q)", common.ErrInvalidConfig, env, Development, Production)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: backend url %q: %v", common.ErrInvalidConfig, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return "", fmt.Errorf("%w: backend url %q must be an absolute http(s) url", common.ErrInvalidConfig, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return u.String(), nil
}
