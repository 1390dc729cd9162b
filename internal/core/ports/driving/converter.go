package driving

import (
	"context"
	"time"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// BookConverter converts a single text asset into an EPUB file.
type BookConverter interface {
	// Convert runs the full per-book pipeline: decode, segment, assemble,
	// serialize. A canceled context returns domain.ErrCancelled and leaves
	// no output file behind.
	Convert(ctx context.Context, book domain.Book, outputPath string) (*domain.ConversionRecord, error)

	// OutputName derives the output file name (without directory) for a
	// scanned book: the sanitized title reduced to filesystem-safe
	// characters, with a fixed fallback when nothing survives.
	OutputName(book domain.Book) string
}

// BatchOptions configures a batch conversion run.
type BatchOptions struct {
	// Concurrency bounds the number of books in flight, I/O included.
	// The CPU-bound parsing stage is bounded separately by the worker
	// pool wired into the BookConverter. Zero means runtime.NumCPU.
	Concurrency int

	// DryRun prints the conversion plan without producing output.
	DryRun bool

	// Overwrite replaces existing output files instead of skipping them.
	Overwrite bool

	// Timeout, when positive, cancels all in-flight conversions after the
	// given duration, followed by a bounded grace period.
	Timeout time.Duration
}

// BatchProgress is emitted once per settled book.
type BatchProgress struct {
	// Book is the settled book.
	Book domain.Book

	// Status is the conversion outcome.
	Status domain.ConversionStatus

	// Done and Total track batch completion.
	Done  int
	Total int
}

// BatchResult summarises a completed batch run.
type BatchResult struct {
	Converted int
	Skipped   int
	Cancelled int
	Failed    int
}

// BatchConverter runs many book conversions concurrently.
type BatchConverter interface {
	// Run converts books into outputDir. Per-book failures are logged and
	// counted; they never abort the batch.
	Run(ctx context.Context, books []domain.Book, outputDir string, opts BatchOptions) (*BatchResult, error)
}
