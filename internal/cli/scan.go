package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brcap/uwscan/internal/config"
	"github.com/brcap/uwscan/internal/discovery"
	"github.com/brcap/uwscan/internal/extract"
	"github.com/brcap/uwscan/internal/refspec"
	"github.com/brcap/uwscan/internal/storage"
)

var quietFlag bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one extraction pass over all discovered workbooks",
	Long: `Scan loads the cell reference table, walks the configured deal stage
directories for matching model workbooks, extracts every referenced
value from each workbook, and upserts one row per file into the
database. Rows whose files no longer exist are pruned.

Examples:
  # Scan using .uwscan/config.yml in the current directory
  uwscan scan

  # Scan with progress bars disabled
  uwscan scan --quiet

  # Scan a project rooted elsewhere
  uwscan scan --root /path/to/project
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling scan...")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DatabasePath, cfg.Storage.Table)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	descs, err := refspec.LoadTable(cfg.TableConfig())
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}

	finder, err := discovery.NewFinder(cfg.FinderCriteria())
	if err != nil {
		return fmt.Errorf("failed to build file finder: %w", err)
	}

	stats, err := scanOnce(ctx, cfg, store, finder, descs)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scan cancelled")
		}
		return err
	}

	// Print summary (if not quiet, OnRunComplete already printed it)
	if quietFlag {
		fmt.Printf("Scan complete: %d processed, %d skipped in %.1fs\n",
			stats.FilesProcessed, stats.FilesSkipped, stats.Duration.Seconds())
	}
	return nil
}

// scanOnce runs one full discover-extract-store pass and records the run.
// It is shared by the scan command and the initial and per-batch passes of
// watch mode.
func scanOnce(ctx context.Context, cfg *config.Config, store *storage.Store, finder *discovery.Finder, descs []refspec.Descriptor) (extract.Stats, error) {
	started := time.Now()

	files, err := finder.Find()
	if err != nil {
		return extract.Stats{}, fmt.Errorf("file discovery failed: %w", err)
	}

	engine := extract.NewEngine(descs,
		extract.WithWorkers(cfg.Scan.Workers),
		extract.WithProgress(NewCLIProgressReporter(quietFlag)),
	)
	records, stats := engine.Run(ctx, files)

	if err := store.UpsertRecords(records); err != nil {
		return stats, fmt.Errorf("failed to store records: %w", err)
	}

	// Prune rows for files that no longer exist on disk
	live := make(map[string]bool, len(files))
	for _, meta := range files {
		live[meta.Path] = true
	}
	pruned, err := store.PruneMissing(live)
	if err != nil {
		return stats, fmt.Errorf("failed to prune stale rows: %w", err)
	}
	if pruned > 0 && !quietFlag {
		fmt.Printf("Pruned %d stale rows\n", pruned)
	}

	if err := store.RecordRun(started, stats); err != nil {
		return stats, fmt.Errorf("failed to record run: %w", err)
	}
	return stats, nil
}
