package extract

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/brcap/uwscan/internal/refspec"
)

// Stats summarizes one engine run.
type Stats struct {
	FilesProcessed int // files that produced a record
	FilesSkipped   int // files that produced no record (open failure or no data)
	FieldsMissing  int // descriptors that contributed nothing, summed over files
	Duration       time.Duration
}

// ProgressReporter receives engine progress callbacks. Implementations
// must tolerate concurrent OnFileDone calls.
type ProgressReporter interface {
	OnRunStart(totalFiles int)
	OnFileDone(path string, ok bool)
	OnRunComplete(stats Stats)
}

// NoOpProgressReporter discards all progress events.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnRunStart(int)          {}
func (NoOpProgressReporter) OnFileDone(string, bool) {}
func (NoOpProgressReporter) OnRunComplete(Stats)     {}

// Engine extracts records from a batch of workbooks. Files are
// independent units of work: each worker exclusively owns the workbook it
// opened, and the descriptor list is immutable, so the only shared state
// is the pool itself.
type Engine struct {
	descs    []refspec.Descriptor
	workers  int
	progress ProgressReporter
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of files processed concurrently.
// Values < 1 fall back to the number of CPUs.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress attaches a progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(e *Engine) {
		if p != nil {
			e.progress = p
		}
	}
}

// NewEngine creates an engine over a pre-built, read-only descriptor list.
func NewEngine(descs []refspec.Descriptor, opts ...Option) *Engine {
	e := &Engine{
		descs:    descs,
		workers:  runtime.NumCPU(),
		progress: NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes every file in the worklist and returns the extracted
// records in completion order. A file that cannot be processed is logged
// and skipped; it never cancels sibling work. Run stops submitting new
// files once ctx is cancelled but lets in-flight files finish so their
// handles close cleanly.
func (e *Engine) Run(ctx context.Context, files []FileMeta) ([]Record, Stats) {
	start := time.Now()
	e.progress.OnRunStart(len(files))

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(e.workers)
	for _, meta := range files {
		p.Go(func() FileResult {
			if ctx.Err() != nil {
				return FileResult{Err: ctx.Err()}
			}
			res := ProcessFile(meta, e.descs)
			e.progress.OnFileDone(meta.Path, res.Record != nil)
			return res
		})
	}
	results := p.Wait()

	var (
		records []Record
		stats   Stats
	)
	for _, res := range results {
		stats.FieldsMissing += res.FieldsMissing
		if res.Record == nil {
			stats.FilesSkipped++
			continue
		}
		stats.FilesProcessed++
		records = append(records, res.Record)
	}
	stats.Duration = time.Since(start)

	log.Printf("Extraction run complete: %d processed, %d skipped, %d fields missing in %v",
		stats.FilesProcessed, stats.FilesSkipped, stats.FieldsMissing, stats.Duration)
	e.progress.OnRunComplete(stats)
	return records, stats
}
