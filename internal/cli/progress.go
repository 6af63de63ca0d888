package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/labstack/gommon/bytes"
	"github.com/schollz/progressbar/v3"
)

// NewSpinner returns an indeterminate progress indicator for a request
// whose duration is unknown.
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// NewByteBar returns a progress bar counting total bytes.
func NewByteBar(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// Spin advances bar until done is closed. It finishes the bar on return.
func Spin(bar *progressbar.ProgressBar, done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			if err := bar.Finish(); err != nil {
				slog.Warn("Failed to finish progress indicator", "error", err)
			}
			return
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress indicator", "error", err)
			}
		}
	}
}

// FormatSize renders a byte count for humans, e.g. "4.50KB".
func FormatSize(n int64) string {
	return bytes.Format(n)
}
