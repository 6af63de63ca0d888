package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/dcb-calc/internal/cli"
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/config"
	"github.com/Veraticus/dcb-calc/internal/gateway"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/spf13/viper"
)

// loadConfig resolves the configuration from flags, environment and file.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// newBackend creates a gateway client for cfg.
func newBackend(cfg *config.Config) (*gateway.Client, error) {
	client, err := gateway.New(gateway.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	common.LogDebug("Using calculation service", common.Fields{
		"base_url":    client.BaseURL(),
		"environment": cfg.Environment,
		"production":  cfg.IsProduction(),
	})
	if cfg.IsProduction() && strings.HasPrefix(client.BaseURL(), "http://") {
		slog.Warn("Production calculation service is not using HTTPS", "base_url", client.BaseURL())
	}
	return client, nil
}

// promptCredentials fills in whatever the configuration leaves empty by asking on in/out.
func promptCredentials(ctx context.Context, in *cli.NonBlockingReader, out io.Writer, auth config.AuthConfig) (model.Credentials, error) {
	creds := model.Credentials{Username: auth.Username, Password: auth.Password}

	if creds.Username == "" {
		fmt.Fprint(out, cli.FormatPrompt("Username"))
		username, err := in.ReadLine(ctx)
		if err != nil {
			return creds, readCredentialError("username", err)
		}
		creds.Username = username
	}

	if creds.Password == "" {
		fmt.Fprint(out, cli.FormatPrompt("Password"))
		password, err := in.ReadPassword(ctx)
		fmt.Fprintln(out)
		if err != nil {
			return creds, readCredentialError("password", err)
		}
		creds.Password = password
	}

	return creds, nil
}

// readCredentialError reports input that ended before a value was given as
// missing configuration, naming the setting that would supply it.
func readCredentialError(field string, err error) error {
	if errors.Is(err, io.EOF) {
		return common.NewUserError(
			fmt.Sprintf("No %s given; set auth.%s or DCB_AUTH_%s", field, field, strings.ToUpper(field)),
			fmt.Errorf("%w: auth.%s", common.ErrMissingConfig, field),
		)
	}
	return fmt.Errorf("failed to read %s: %w", field, err)
}

// signIn logs in with creds and reports the outcome on out.
func signIn(ctx context.Context, backend gateway.Backend, out io.Writer, creds model.Credentials) error {
	if err := backend.Login(ctx, creds.Username, creds.Password); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess("Signed in as "+creds.Username))
	return nil
}
