package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driving"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// gracePeriod bounds how long a timed-out batch waits for in-flight
// conversions to observe cancellation before Run returns anyway.
const gracePeriod = 5 * time.Second

// Ensure Batch implements the interface.
var _ driving.BatchConverter = (*Batch)(nil)

// Batch converts many books concurrently. Books never share mutable
// state, so the only synchronisation is around the batch counters.
type Batch struct {
	converter driving.BookConverter
	history   driven.HistoryStore
	progress  func(driving.BatchProgress)
	grace     time.Duration

	mu   sync.Mutex
	done int
}

// NewBatch creates a batch orchestrator. history and progress are
// optional; nil disables outcome recording and progress reporting
// respectively.
func NewBatch(converter driving.BookConverter, history driven.HistoryStore, progress func(driving.BatchProgress)) *Batch {
	return &Batch{converter: converter, history: history, progress: progress, grace: gracePeriod}
}

type batchJob struct {
	book domain.Book
	out  string
}

// Run converts books into outputDir. Per-book failures are logged with the
// offending file name and never abort the batch. A configured timeout
// cancels all in-flight conversions, then waits a bounded grace period.
func (b *Batch) Run(ctx context.Context, books []domain.Book, outputDir string, opts driving.BatchOptions) (*driving.BatchResult, error) {
	b.mu.Lock()
	b.done = 0
	b.mu.Unlock()

	result := &driving.BatchResult{}
	if len(books) == 0 {
		logger.Info("No books to convert")
		return result, nil
	}

	if !opts.DryRun {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, err
		}
	}

	// 1. Plan: resolve output names, honour dry-run and skip-existing
	var jobs []batchJob
	for _, book := range books {
		out := filepath.Join(outputDir, b.converter.OutputName(book))

		if opts.DryRun {
			cover := "None"
			if book.CoverPath != "" {
				cover = filepath.Base(book.CoverPath)
			}
			logger.Info("[dry-run] %s -> %s (Cover: %s)",
				filepath.Base(book.TextPath), filepath.Base(out), cover)
			continue
		}

		if _, err := os.Stat(out); err == nil && !opts.Overwrite {
			logger.Info("Skipping existing: %s", filepath.Base(out))
			result.Skipped++
			continue
		}

		jobs = append(jobs, batchJob{book: book, out: out})
	}

	if len(jobs) == 0 {
		logger.Info("No conversion tasks to perform")
		return result, nil
	}

	// 2. Derive the run context; a global timeout cancels every in-flight book
	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	sem := make(chan struct{}, concurrency)
	total := len(jobs)

	// 3. Dispatch, checking cancellation before each queued book starts
	var wg sync.WaitGroup
	for _, j := range jobs {
		if runCtx.Err() != nil {
			b.settle(result, j.book, domain.StatusCancelled, total)
			continue
		}

		wg.Add(1)
		go func(j batchJob) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				b.settle(result, j.book, domain.StatusCancelled, total)
				return
			}
			defer func() { <-sem }()

			// Re-check after acquiring the slot; queueing may have
			// outlived the deadline.
			if runCtx.Err() != nil {
				b.settle(result, j.book, domain.StatusCancelled, total)
				return
			}

			b.convertOne(runCtx, j, result, total)
		}(j)
	}

	// 4. Wait, bounded by the grace period once cancellation is signalled
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-runCtx.Done():
		logger.Warn("Cancellation signalled, waiting for in-flight books...")
		select {
		case <-finished:
		case <-time.After(b.grace):
			logger.Warn("Grace period elapsed, tearing down")
		}
	}

	// A conversion that outlives the grace period still settles into the
	// shared counters later; the caller gets a snapshot, not the pointer
	// those writes go through.
	b.mu.Lock()
	snapshot := *result
	b.mu.Unlock()
	return &snapshot, nil
}

// convertOne runs a single conversion and classifies the outcome.
func (b *Batch) convertOne(ctx context.Context, j batchJob, result *driving.BatchResult, total int) {
	name := filepath.Base(j.book.TextPath)
	start := time.Now()

	rec, err := b.converter.Convert(ctx, j.book, j.out)
	switch {
	case err == nil:
		b.settle(result, j.book, domain.StatusConverted, total)
		b.record(rec)

	case errors.Is(err, domain.ErrCancelled):
		logger.Info("Cancelled: %s", name)
		b.settle(result, j.book, domain.StatusCancelled, total)
		b.record(b.outcome(j, domain.StatusCancelled, start, ""))

	default:
		logger.Error("Error converting %s: %v", name, err)
		b.settle(result, j.book, domain.StatusFailed, total)
		b.record(b.outcome(j, domain.StatusFailed, start, err.Error()))
	}
}

// outcome builds a history record for a book that produced no document.
func (b *Batch) outcome(j batchJob, status domain.ConversionStatus, start time.Time, errMsg string) *domain.ConversionRecord {
	return &domain.ConversionRecord{
		ID:         uuid.NewString(),
		Title:      j.book.Title,
		SourcePath: j.book.TextPath,
		Status:     status,
		Duration:   time.Since(start),
		Error:      errMsg,
		CreatedAt:  time.Now(),
	}
}

// settle updates the batch counters and reports progress.
func (b *Batch) settle(result *driving.BatchResult, book domain.Book, status domain.ConversionStatus, total int) {
	b.mu.Lock()
	b.done++
	done := b.done
	switch status {
	case domain.StatusConverted:
		result.Converted++
	case domain.StatusCancelled:
		result.Cancelled++
	case domain.StatusFailed:
		result.Failed++
	case domain.StatusSkipped:
		result.Skipped++
	}
	b.mu.Unlock()

	if b.progress != nil {
		b.progress(driving.BatchProgress{Book: book, Status: status, Done: done, Total: total})
	}
}

// record persists an outcome. Best-effort: history uses a background
// context so that cancelled conversions are still recorded, and a failing
// store only warns.
func (b *Batch) record(rec *domain.ConversionRecord) {
	if b.history == nil || rec == nil {
		return
	}
	if err := b.history.Record(context.Background(), rec); err != nil {
		logger.Warn("Failed to record history for %s: %v", filepath.Base(rec.SourcePath), err)
	}
}
