package main

import (
	"github.com/Veraticus/dcb-calc/internal/cli"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the calculation service",
		Long: `Sign in to the calculation service and report whether the credentials
were accepted. Values missing from the configuration (auth.username,
auth.password or DCB_AUTH_USERNAME / DCB_AUTH_PASSWORD) are prompted for.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			backend, err := newBackend(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			creds, err := promptCredentials(cmd.Context(), cli.NewNonBlockingReader(cmd.InOrStdin()), out, cfg.Auth)
			if err != nil {
				return err
			}

			return signIn(cmd.Context(), backend, out, creds)
		},
	}

	return cmd
}
