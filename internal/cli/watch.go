package cli

import (
	"context"
	"fmt"
	"log"
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
	"github.com/brcap/uwscan/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan once, then keep the database in sync as workbooks change",
	Long: `Watch runs an initial scan and then monitors the deal stage directories
for workbook changes. Saves are debounced, so a burst of writes from
Excel results in a single re-extraction. Deleted workbooks have their
rows pruned.

The reference table is re-read when its freshness window expires, so
table edits are picked up without restarting.

Examples:
  # Watch using .uwscan/config.yml in the current directory
  uwscan watch

  # Watch with a project rooted elsewhere
  uwscan watch --root /path/to/project
`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Stopping watch...")
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

	finder, err := discovery.NewFinder(cfg.FinderCriteria())
	if err != nil {
		return fmt.Errorf("failed to build file finder: %w", err)
	}

	// Descriptor cache: table edits are picked up once the TTL lapses.
	// A zero freshness window means re-read on every batch.
	ttl := cfg.RefreshTTL()
	if ttl <= 0 {
		ttl = time.Minute
	}
	cache, err := refspec.NewCache(ttl)
	if err != nil {
		return fmt.Errorf("failed to build descriptor cache: %w", err)
	}
	defer cache.Close()

	descs, err := cache.Descriptors(cfg.TableConfig())
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}

	if !quietFlag {
		log.Println("Performing initial scan...")
	}
	if _, err := scanOnce(ctx, cfg, store, finder, descs); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("watch cancelled")
		}
		return fmt.Errorf("initial scan failed: %w", err)
	}

	filter := func(path string) bool {
		_, ok := finder.Matches(path)
		return ok
	}
	w, err := watcher.New(cfg.Discovery.StageDirs, filter, cfg.Debounce())
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	callback := func(batch watcher.Batch) {
		// Pause event delivery while we hold workbook handles open, so a
		// save during extraction lands in the next batch.
		w.Pause()
		defer w.Resume()
		processBatch(ctx, cfg, store, finder, cache, batch)
	}
	if err := w.Start(ctx, callback); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !quietFlag {
		log.Printf("Watching %d stage directories (Ctrl+C to stop)", len(cfg.Discovery.StageDirs))
	}

	<-ctx.Done()
	if !quietFlag {
		log.Println("Watch stopped")
	}
	return nil
}

// processBatch re-extracts the changed workbooks from one debounced batch
// and prunes rows whose files are gone. Batch failures are logged, never
// fatal: the watch loop must outlive any single bad workbook.
func processBatch(ctx context.Context, cfg *config.Config, store *storage.Store, finder *discovery.Finder, cache *refspec.Cache, batch watcher.Batch) {
	started := time.Now()

	if cfg.Reference.RefreshMinutes == 0 {
		cache.Refresh(cfg.Reference.Path)
	}
	descs, err := cache.Descriptors(cfg.TableConfig())
	if err != nil {
		log.Printf("Warning: failed to load reference table, skipping batch: %v", err)
		return
	}

	var metas []extract.FileMeta
	for _, path := range batch.Changed {
		stageDir, ok := finder.Matches(path)
		if !ok {
			continue
		}
		meta, err := finder.MetaFor(stageDir, path)
		if err != nil {
			// Changed then removed before the batch fired
			log.Printf("Warning: cannot stat changed file %s: %v", path, err)
			continue
		}
		metas = append(metas, meta)
	}

	if len(metas) > 0 {
		engine := extract.NewEngine(descs, extract.WithWorkers(cfg.Scan.Workers))
		records, stats := engine.Run(ctx, metas)
		if err := store.UpsertRecords(records); err != nil {
			log.Printf("Warning: failed to store records: %v", err)
			return
		}
		if err := store.RecordRun(started, stats); err != nil {
			log.Printf("Warning: failed to record run: %v", err)
		}
	}

	if len(batch.Removed) > 0 {
		// Re-walk the stage dirs for the authoritative live set rather
		// than trusting event paths alone
		files, err := finder.Find()
		if err != nil {
			log.Printf("Warning: discovery failed, skipping prune: %v", err)
			return
		}
		live := make(map[string]bool, len(files))
		for _, meta := range files {
			live[meta.Path] = true
		}
		pruned, err := store.PruneMissing(live)
		if err != nil {
			log.Printf("Warning: failed to prune stale rows: %v", err)
			return
		}
		if pruned > 0 && !quietFlag {
			log.Printf("Pruned %d stale rows", pruned)
		}
	}
}
