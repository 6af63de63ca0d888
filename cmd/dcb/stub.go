package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/dcb-calc/internal/cli"
	"github.com/Veraticus/dcb-calc/internal/stub"
	"github.com/spf13/cobra"
)

func stubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in for the calculation service",
		Long: `Serve the login, upload and download endpoints with canned results so
the calculator can be tried without the real service. No calculation
is performed; every upload returns the same fixture for its mode.`,
		RunE: runStub,
	}

	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringSlice("user", nil, "accepted credentials as username:password (repeatable; default accepts any)")
	cmd.Flags().Bool("require-session", false, "reject uploads and downloads without a login session")
	cmd.Flags().Int("rate-limit", 0, "maximum requests per client per minute (0 disables)")

	return cmd
}

func runStub(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	pairs, _ := cmd.Flags().GetStringSlice("user")
	requireSession, _ := cmd.Flags().GetBool("require-session")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")

	users, err := parseUsers(pairs)
	if err != nil {
		return err
	}

	srv := stub.New(stub.Options{
		Users:          users,
		RequireSession: requireSession,
		RateLimit:      rateLimit,
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Stub backend listening on http://%s/intCalc/", listener.Addr())))

	return serve(cmd.Context(), server, listener)
}

// serve runs server until ctx is canceled, then shuts it down.
func serve(ctx context.Context, server *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("stub server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Stopping stub backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func parseUsers(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	users := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		username, password, ok := strings.Cut(pair, ":")
		if !ok || username == "" {
			return nil, fmt.Errorf("invalid --user %q: expected username:password", pair)
		}
		users[username] = password
	}
	return users, nil
}
