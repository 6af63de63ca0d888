package main

import (
	"github.com/Veraticus/dcb-calc/internal/tui"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
	"github.com/spf13/cobra"
)

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui [FILE]",
		Short: "Open the interactive calculator",
		Long: `Open the interactive calculator. Sign in, open a spreadsheet with "o",
switch between Local Body and Private with "m" and save the regenerated
spreadsheet with "d".

Logs are written to logging.file while the calculator is open.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			backend, err := newBackend(cfg)
			if err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithBackend(backend),
				tui.WithTheme(themes.GetTheme(cfg.TUI.Theme)),
				tui.WithMode(cfg.Calculator.Mode),
				tui.WithDebounce(cfg.Calculator.Debounce),
				tui.WithDownload(cfg.Download.Dir, cfg.Download.Filename),
				tui.WithRequireLogin(cfg.Auth.Required),
				tui.WithRequestTimeout(cfg.Backend.Timeout),
			}
			if len(args) == 1 {
				opts = append(opts, tui.WithInitialFile(args[0]))
			}

			return tui.Run(cmd.Context(), opts...)
		},
	}

	return cmd
}
