package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/dcb-calc/internal/calculator"
	"github.com/Veraticus/dcb-calc/internal/cli"
	"github.com/Veraticus/dcb-calc/internal/gateway"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// useConfiguredPath is the value of a bare --download flag.
const useConfiguredPath = "@config"

type computeOptions struct {
	creds        *model.Credentials
	file         string
	downloadPath string
	mode         model.Mode
}

func computeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute FILE",
		Short: "Calculate opening balances and interest for a spreadsheet",
		Long: `Upload an .xlsx or .xls spreadsheet to the calculation service and print
the month-by-month table with its totals.

With --download the regenerated spreadsheet is saved as well. A bare
--download writes to download.dir/download.filename.`,
		Example: `  dcb compute ledger.xlsx
  dcb compute ledger.xlsx --mode private --download
  dcb compute ledger.xlsx --download ~/reports/ward7.xlsx`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{interruptAnnotation: "true"},
		RunE:        runComputeCmd,
	}

	cmd.Flags().String("mode", "", "calculation mode (localbody, private)")
	cmd.Flags().String("download", "", "save the regenerated spreadsheet to this path")
	cmd.Flags().Lookup("download").NoOptDefVal = useConfiguredPath

	_ = viper.BindPFlag("calculator.mode", cmd.Flags().Lookup("mode"))

	return cmd
}

func runComputeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "No file was written.")
	defer interrupts.Stop()

	opts := computeOptions{
		file: args[0],
		mode: cfg.Calculator.Mode,
	}

	switch path, _ := cmd.Flags().GetString("download"); path {
	case "":
	case useConfiguredPath:
		opts.downloadPath = cfg.DownloadPath()
	default:
		opts.downloadPath = path
	}

	if cfg.Auth.Required {
		creds, err := promptCredentials(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, cfg.Auth)
		if err != nil {
			return err
		}
		opts.creds = &creds
	}

	return runCompute(ctx, backend, out, opts)
}

// runCompute performs one calculation and prints it, then optionally saves
// the regenerated spreadsheet.
func runCompute(ctx context.Context, backend gateway.Backend, out io.Writer, opts computeOptions) error {
	file, err := model.ReadSourceFile(opts.file)
	if err != nil {
		return err
	}

	if opts.creds != nil {
		if err := signIn(ctx, backend, out, *opts.creds); err != nil {
			return err
		}
	}

	calc := calculator.New(opts.mode)
	req := calc.SelectFile(file)

	var resp *model.UploadResponse
	err = withSpinner(out, fmt.Sprintf("Calculating %s (%s)...", file.Name, req.Mode.Label()), func() error {
		var computeErr error
		resp, computeErr = backend.Compute(ctx, req.File, req.Mode)
		return computeErr
	})
	calc.Complete(req.Seq, resp, err)
	if err != nil {
		return err
	}

	payload, _ := calc.DownloadPayload()
	fmt.Fprintln(out, cli.FormatTitle(file.Name))
	fmt.Fprintln(out, cli.RenderResults(calc.Table(), render.Summarize(*payload)))

	if opts.downloadPath == "" {
		return nil
	}

	var data []byte
	err = withSpinner(out, "Preparing spreadsheet...", func() error {
		var downloadErr error
		data, downloadErr = backend.Download(ctx, payload)
		return downloadErr
	})
	if err != nil {
		return err
	}

	if err := saveDownload(out, opts.downloadPath, data); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %s (%s)", opts.downloadPath, cli.FormatSize(int64(len(data))))))
	return nil
}

// withSpinner shows an indeterminate progress indicator on out while fn runs.
func withSpinner(out io.Writer, description string, fn func() error) error {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		cli.Spin(cli.NewSpinner(out, description), done)
		close(finished)
	}()

	err := fn()
	close(done)
	<-finished

	return err
}

// saveDownload writes data to path through a byte progress bar.
func saveDownload(out io.Writer, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bar := cli.NewByteBar(out, int64(len(data)), "Saving "+filepath.Base(path))
	if _, err := io.Copy(io.MultiWriter(f, bar), bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
