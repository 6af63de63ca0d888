// Package main runs the interactive calculator against an in-process stub backend.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"time"

	"github.com/Veraticus/dcb-calc/internal/gateway"
	"github.com/Veraticus/dcb-calc/internal/stub"
	"github.com/Veraticus/dcb-calc/internal/tui"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
)

func main() {
	// Any username and password are accepted
	server := httptest.NewServer(stub.New(stub.Options{RequireSession: true}).Handler())
	defer server.Close()

	backend, err := gateway.New(gateway.Config{
		BaseURL: server.URL + "/intCalc/",
		Timeout: 10 * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}

	err = tui.Run(context.Background(),
		tui.WithBackend(backend),
		tui.WithTheme(themes.GetTheme("catppuccin-mocha")),
		tui.WithDebounce(500*time.Millisecond),
		tui.WithDownload(os.TempDir(), "interest_calculation.xlsx"),
	)
	if err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
