package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Veraticus/dcb-calc/internal/cli"
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// tuiAnnotation marks commands that own the terminal; their logs go to a file.
	tuiAnnotation = "tui"
	// interruptAnnotation marks commands that install their own interrupt handler.
	interruptAnnotation = "interrupts"
)

var (
	cfgFile     string
	stopSignals = func() {}
	version     = "dev"
	// environment is set at build time with -ldflags "-X main.environment=production".
	environment = string(config.Development)
	rootCmd     = &cobra.Command{
		Use:   "dcb",
		Short: "📒 DCB opening balance and interest calculator",
		Long: `dcb uploads a demand/collection/balance spreadsheet to the calculation
service, shows the month-by-month opening balance and interest, and saves
the regenerated spreadsheet.

Run "dcb ui" for the interactive calculator.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/dcb/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("base-url", "", "calculation service base URL (overrides the environment default)")
	rootCmd.PersistentFlags().String("env", "", "backend environment (development, production)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("backend.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("env"))

	// Add commands
	rootCmd.AddCommand(uiCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(computeCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(stubCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	stopSignals()

	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints the user-facing part of err.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, cli.FormatError(common.UserMessage(err)))
}

// watchSignals cancels cmd's context on SIGINT or SIGTERM, unless cmd
// handles interrupts itself. The returned func releases the signal handler.
func watchSignals(cmd *cobra.Command) func() {
	if cmd.Annotations[interruptAnnotation] == "true" {
		return func() {}
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)
	return stop
}

func initConfig(cmd *cobra.Command, _ []string) error {
	stopSignals = watchSignals(cmd)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(filepath.Join(home, ".config", "dcb"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: DCB_BACKEND_BASE_URL, DCB_AUTH_PASSWORD, ...
	viper.SetEnvPrefix("DCB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper(), config.Environment(environment))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(cmd); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(cmd *cobra.Command) error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if cmd.Annotations[tuiAnnotation] == "true" {
		w = io.Discard
		if path := config.ExpandPath(viper.GetString("logging.file")); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from user config
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			w = f
		}
	}

	return common.SetupLogger(w, level, strings.ToLower(viper.GetString("logging.format")))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dcb %s (%s)\n", version, environment)
		},
	}
}
