package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/brcap/uwscan/internal/extract"
)

// CLIProgressReporter renders extraction progress as a progress bar.
// OnFileDone is called from concurrent workers, so updates are locked.
type CLIProgressReporter struct {
	quiet   bool
	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
	failed  int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnRunStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failed = 0
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Extracting workbooks"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileDone(path string, ok bool) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !ok {
		c.failed++
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnRunComplete(stats extract.Stats) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Println()
	fmt.Printf("✓ Scan complete: %s files in %.1fs\n",
		formatNumber(stats.FilesProcessed), stats.Duration.Seconds())
	if stats.FilesSkipped > 0 {
		fmt.Printf("  Skipped:        %s\n", formatNumber(stats.FilesSkipped))
	}
	if stats.FieldsMissing > 0 {
		fmt.Printf("  Missing fields: %s\n", formatNumber(stats.FieldsMissing))
	}
}
